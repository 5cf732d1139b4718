// Package slackevent models the Slack Events API payloads this system relays:
// an outer envelope discriminated by a "type" field, wrapping an inner event
// taxonomy that is large, platform-defined, and still growing.
//
// Decoding fails closed on an unrecognized outer type (only the outer type
// drives routing) and fails open on an unrecognized inner type, which decodes
// to UnknownEvent so new platform event types cannot break the envelope.
package slackevent

import (
	"encoding/json"
	"fmt"
)

// Outer envelope type tags.
const (
	TypeURLVerification = "url_verification"
	TypeEventCallback   = "event_callback"
)

// DecodeError reports a payload that could not be decoded into an OuterEvent.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode slack event: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decode slack event: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// OuterEvent is the envelope union: exactly one of URLVerification or
// EventCallback.
type OuterEvent interface {
	outerType() string
}

// URLVerification is the one-time endpoint ownership handshake. It is
// answered inline and never relayed.
type URLVerification struct {
	Token     string `json:"token"`
	Challenge string `json:"challenge"`
}

func (*URLVerification) outerType() string { return TypeURLVerification }

func (u *URLVerification) MarshalJSON() ([]byte, error) {
	type wire URLVerification
	return json.Marshal(struct {
		Type string `json:"type"`
		*wire
	}{TypeURLVerification, (*wire)(u)})
}

// EventCallback wraps a single inner platform event.
type EventCallback struct {
	Token       string
	TeamID      string
	APIAppID    string
	Event       InnerEvent
	AuthedUsers []string
	EventID     string
	EventTime   int64 // epoch seconds
}

func (*EventCallback) outerType() string { return TypeEventCallback }

type eventCallbackWire struct {
	Type        string          `json:"type"`
	Token       string          `json:"token"`
	TeamID      string          `json:"team_id"`
	APIAppID    string          `json:"api_app_id"`
	Event       json.RawMessage `json:"event"`
	AuthedUsers []string        `json:"authed_users,omitempty"`
	EventID     string          `json:"event_id"`
	EventTime   int64           `json:"event_time"`
}

func (e *EventCallback) MarshalJSON() ([]byte, error) {
	inner, err := marshalInner(e.Event)
	if err != nil {
		return nil, err
	}
	return json.Marshal(eventCallbackWire{
		Type:        TypeEventCallback,
		Token:       e.Token,
		TeamID:      e.TeamID,
		APIAppID:    e.APIAppID,
		Event:       inner,
		AuthedUsers: e.AuthedUsers,
		EventID:     e.EventID,
		EventTime:   e.EventTime,
	})
}

// Decode parses a raw webhook body into an OuterEvent. Structurally invalid
// JSON or an unrecognized outer type yields a *DecodeError; there is no
// partial decode.
func Decode(raw []byte) (OuterEvent, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, &DecodeError{Reason: "invalid payload", Err: err}
	}

	switch probe.Type {
	case TypeURLVerification:
		var ev URLVerification
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, &DecodeError{Reason: "invalid url_verification payload", Err: err}
		}
		return &ev, nil

	case TypeEventCallback:
		var wire eventCallbackWire
		if err := json.Unmarshal(raw, &wire); err != nil {
			return nil, &DecodeError{Reason: "invalid event_callback payload", Err: err}
		}
		inner, err := decodeInner(wire.Event)
		if err != nil {
			return nil, err
		}
		return &EventCallback{
			Token:       wire.Token,
			TeamID:      wire.TeamID,
			APIAppID:    wire.APIAppID,
			Event:       inner,
			AuthedUsers: wire.AuthedUsers,
			EventID:     wire.EventID,
			EventTime:   wire.EventTime,
		}, nil

	default:
		return nil, &DecodeError{Reason: fmt.Sprintf("unrecognized outer event type %q", probe.Type)}
	}
}
