// Package dispatch consumes relayed events: it applies the inline echo
// commands against the listener registry and broadcasts every event to every
// registered listener.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"slack_echo/internal/chat"
	"slack_echo/internal/logger"
	"slack_echo/internal/registry"
	"slack_echo/internal/slackevent"
)

const (
	cmdEchoAll  = "echo all"
	cmdEchoNone = "echo none"
	cmdHelp     = "help"
)

const helpText = "You can ask me to send you messages.\n" +
	"I can either echo everything to you, by you IMing me `echo all`,\n" +
	"or I can send nothing to you, if you IM me `echo none`."

// Dispatcher processes one relayed message per Dispatch call. It holds no
// state across calls; everything shared lives in the registry.
type Dispatcher struct {
	store         registry.Store
	sender        chat.Sender
	maxConcurrent int
}

// New creates a new Dispatcher instance. maxConcurrent caps the number of
// in-flight broadcast sends.
func New(store registry.Store, sender chat.Sender, maxConcurrent int) *Dispatcher {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Dispatcher{store: store, sender: sender, maxConcurrent: maxConcurrent}
}

// Dispatch re-decodes the relayed raw bytes, runs command handling, then
// unconditionally broadcasts the event to every listener. A payload that does
// not decode is dropped silently: no command action, nothing to broadcast,
// and no error for the invoking trigger to retry.
func (d *Dispatcher) Dispatch(ctx context.Context, raw []byte) error {
	outer, err := slackevent.Decode(raw)
	if err != nil {
		logger.GetLogger().Warn("dropping undecodable relayed message", zap.Error(err))
		return nil
	}

	if callback, ok := outer.(*slackevent.EventCallback); ok {
		if msg, ok := callback.Event.(*slackevent.Message); ok && msg.ChannelType == slackevent.ChannelTypeIM {
			d.handleCommand(ctx, msg)
		}
	}

	// Every relayed event reaches every listener, including the user who
	// just issued a command.
	d.broadcast(ctx, raw)
	return nil
}

// handleCommand mutates the registry for the echo commands and confirms to
// the issuing channel. The confirmation send is awaited before the broadcast
// stage starts. A store failure is reported to the user and nothing else; it
// never aborts the broadcast.
func (d *Dispatcher) handleCommand(ctx context.Context, msg *slackevent.Message) {
	switch msg.Text {
	case cmdEchoAll:
		reply := "I'll now echo everything to you"
		if err := d.store.Add(ctx, msg.User); err != nil {
			logger.GetLogger().Error("failed to add listener",
				zap.String("user", msg.User), zap.Error(err))
			reply = "Got an error"
		}
		d.reply(ctx, msg.Channel, reply)

	case cmdEchoNone:
		reply := "You have been unsubscribed"
		if err := d.store.Remove(ctx, msg.User); err != nil {
			logger.GetLogger().Error("failed to remove listener",
				zap.String("user", msg.User), zap.Error(err))
			reply = "Couldn't remove you"
		}
		d.reply(ctx, msg.Channel, reply)

	case cmdHelp:
		d.reply(ctx, msg.Channel, helpText)
	}
}

func (d *Dispatcher) reply(ctx context.Context, channel, text string) {
	if err := d.sender.Send(ctx, channel, text); err != nil {
		logger.GetLogger().Error("failed to send command reply",
			zap.String("channel", channel), zap.Error(err))
	}
}

// broadcast sends the pretty-printed event to every listener. Sends run
// concurrently up to maxConcurrent; each is independent, failures are logged
// per listener and counted, never propagated.
func (d *Dispatcher) broadcast(ctx context.Context, raw []byte) {
	listeners, err := d.store.List(ctx)
	if err != nil {
		logger.GetLogger().Error("failed to list listeners for broadcast", zap.Error(err))
		return
	}
	if len(listeners) == 0 {
		return
	}

	text := renderPayload(raw)
	sem := make(chan struct{}, d.maxConcurrent)
	var wg sync.WaitGroup
	var failed atomic.Int64

	for _, id := range listeners {
		wg.Add(1)
		sem <- struct{}{}
		go func(id string) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := d.sender.Send(ctx, id, text); err != nil {
				failed.Add(1)
				logger.GetLogger().Error("broadcast send failed",
					zap.String("listener", id), zap.Error(err))
			}
		}(id)
	}
	wg.Wait()

	logger.GetLogger().Info("broadcast complete",
		zap.Int("listeners", len(listeners)),
		zap.Int64("failed", failed.Load()))
}

// renderPayload pretty-prints the original JSON body inside a code fence.
func renderPayload(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "```" + string(raw) + "```"
	}
	return "```" + buf.String() + "```"
}
