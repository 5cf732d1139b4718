package slackevent

import (
	"encoding/json"
	"fmt"
)

// ChannelTypeIM marks a direct message channel, the only channel_type value
// command handling cares about.
const ChannelTypeIM = "im"

// InnerEvent is the closed union over the platform event subtypes, plus the
// UnknownEvent fallback for subtypes this package does not model.
type InnerEvent interface {
	innerType() string
}

// UnknownEvent carries the raw sub-object of an inner event type this package
// does not recognize. It decodes successfully so that platform evolution
// degrades to "unknown, ignored" instead of failing the whole envelope.
type UnknownEvent struct {
	Type string
	Raw  json.RawMessage
}

func (u *UnknownEvent) innerType() string { return u.Type }

// Message is a message posted to a channel; the only subtype the fan-out
// dispatcher inspects.
type Message struct {
	ClientMsgID string         `json:"client_msg_id"`
	Text        string         `json:"text"`
	User        string         `json:"user"`
	TS          string         `json:"ts"`
	Team        string         `json:"team"`
	Channel     string         `json:"channel"`
	EventTS     string         `json:"event_ts"`
	ChannelType string         `json:"channel_type"`
	Blocks      []MessageBlock `json:"blocks"`
}

func (*Message) innerType() string { return "message" }

type messageWire struct {
	ClientMsgID string            `json:"client_msg_id"`
	Text        string            `json:"text"`
	User        string            `json:"user"`
	TS          string            `json:"ts"`
	Team        string            `json:"team"`
	Channel     string            `json:"channel"`
	EventTS     string            `json:"event_ts"`
	ChannelType string            `json:"channel_type"`
	Blocks      []json.RawMessage `json:"blocks"`
}

func (m *Message) UnmarshalJSON(raw []byte) error {
	var wire messageWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return err
	}
	var blocks []MessageBlock
	for _, b := range wire.Blocks {
		block, err := decodeBlock(b)
		if err != nil {
			return err
		}
		blocks = append(blocks, block)
	}
	*m = Message{
		ClientMsgID: wire.ClientMsgID,
		Text:        wire.Text,
		User:        wire.User,
		TS:          wire.TS,
		Team:        wire.Team,
		Channel:     wire.Channel,
		EventTS:     wire.EventTS,
		ChannelType: wire.ChannelType,
		Blocks:      blocks,
	}
	return nil
}

func (m *Message) MarshalJSON() ([]byte, error) {
	wire := messageWire{
		ClientMsgID: m.ClientMsgID,
		Text:        m.Text,
		User:        m.User,
		TS:          m.TS,
		Team:        m.Team,
		Channel:     m.Channel,
		EventTS:     m.EventTS,
		ChannelType: m.ChannelType,
	}
	for _, b := range m.Blocks {
		raw, err := json.Marshal(b)
		if err != nil {
			return nil, err
		}
		wire.Blocks = append(wire.Blocks, raw)
	}
	return json.Marshal(wire)
}

// AppHomeOpened: a user clicked into the App Home.
type AppHomeOpened struct {
	User    string          `json:"user"`
	Channel string          `json:"channel"`
	EventTS *float64        `json:"event_ts,omitempty"`
	Tab     string          `json:"tab"`
	View    json.RawMessage `json:"view,omitempty"`
}

func (*AppHomeOpened) innerType() string { return "app_home_opened" }

// AppMention: a message mentioned the app or bot.
type AppMention struct {
	User    string  `json:"user"`
	Text    string  `json:"text"`
	TS      float64 `json:"ts"`
	Channel string  `json:"channel"`
	EventTS int64   `json:"event_ts"`
}

func (*AppMention) innerType() string { return "app_mention" }

// AppRateLimited: the app's event subscriptions are being rate limited.
type AppRateLimited struct {
	Token             string `json:"token"`
	TeamID            string `json:"team_id"`
	MinuteRateLimited int64  `json:"minute_rate_limited"`
	APIAppID          string `json:"api_app_id"`
}

func (*AppRateLimited) innerType() string { return "app_rate_limited" }

// CallRejected: a call was rejected.
type CallRejected struct {
	Channel Channel `json:"channel"`
}

func (*CallRejected) innerType() string { return "call_rejected" }

// Channel is the channel object carried by call events.
type Channel struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Created int64  `json:"created"`
	Creator string `json:"creator"`
}

// ChannelArchive: a channel was archived.
type ChannelArchive struct {
	Channel string `json:"channel"`
	User    string `json:"user"`
}

func (*ChannelArchive) innerType() string { return "channel_archive" }

// The remaining subtypes carry no payload this system acts on; they exist so
// the union stays closed over everything the platform can deliver.
type (
	AppRequested          struct{}
	AppUninstalled        struct{}
	ChannelCreated        struct{}
	ChannelDeleted        struct{}
	ChannelHistoryChanged struct{}
	ChannelLeft           struct{}
	ChannelRename         struct{}
	ChannelShared         struct{}
	ChannelUnarchive      struct{}
	ChannelUnshared       struct{}
	DndUpdated            struct{}
	DndUpdatedUser        struct{}
	EmailDomainChanged    struct{}
	EmojiChanged          struct{}
	FileChange            struct{}
	FileCommentAdded      struct{}
	FileCommentDeleted    struct{}
	FileCommentEdited     struct{}
	FileCreated           struct{}
	FileDeleted           struct{}
	FilePublic            struct{}
	FileShared            struct{}
	FileUnshared          struct{}
	GridMigrationFinished struct{}
	GridMigrationStarted  struct{}
	GroupArchive          struct{}
	GroupClose            struct{}
	GroupDeleted          struct{}
	GroupHistoryChanged   struct{}
	GroupLeft             struct{}
	GroupOpen             struct{}
	GroupRename           struct{}
	GroupUnarchive        struct{}
	ImClose               struct{}
	ImCreated             struct{}
	ImHistoryChanged      struct{}
	ImOpen                struct{}
	InviteRequested       struct{}
	LinkShared            struct{}
	MemberJoinedChannel   struct{}
	MemberLeftChannel     struct{}
	PinAdded              struct{}
	PinRemoved            struct{}
	ReactionAdded         struct{}
	ReactionRemoved       struct{}
	ResourcesAdded        struct{}
	ResourcesRemoved      struct{}
	ScopeDenied           struct{}
	ScopeGranted          struct{}
	StarAdded             struct{}
	StarRemoved           struct{}
	SubteamCreated        struct{}
	SubteamMembersChanged struct{}
	SubteamSelfAdded      struct{}
	SubteamSelfRemoved    struct{}
	SubteamUpdated        struct{}
	TeamDomainChange      struct{}
	TeamJoin              struct{}
	TeamRename            struct{}
	TokensRevoked         struct{}
	URLVerificationEvent  struct{}
	UserChange            struct{}
	UserResourceDenied    struct{}
	UserResourceGranted   struct{}
	UserResourceRemoved   struct{}
)

func (*AppRequested) innerType() string          { return "app_requested" }
func (*AppUninstalled) innerType() string        { return "app_uninstalled" }
func (*ChannelCreated) innerType() string        { return "channel_created" }
func (*ChannelDeleted) innerType() string        { return "channel_deleted" }
func (*ChannelHistoryChanged) innerType() string { return "channel_history_changed" }
func (*ChannelLeft) innerType() string           { return "channel_left" }
func (*ChannelRename) innerType() string         { return "channel_rename" }
func (*ChannelShared) innerType() string         { return "channel_shared" }
func (*ChannelUnarchive) innerType() string      { return "channel_unarchive" }
func (*ChannelUnshared) innerType() string       { return "channel_unshared" }
func (*DndUpdated) innerType() string            { return "dnd_updated" }
func (*DndUpdatedUser) innerType() string        { return "dnd_updated_user" }
func (*EmailDomainChanged) innerType() string    { return "email_domain_changed" }
func (*EmojiChanged) innerType() string          { return "emoji_changed" }
func (*FileChange) innerType() string            { return "file_change" }
func (*FileCommentAdded) innerType() string      { return "file_comment_added" }
func (*FileCommentDeleted) innerType() string    { return "file_comment_deleted" }
func (*FileCommentEdited) innerType() string     { return "file_comment_edited" }
func (*FileCreated) innerType() string           { return "file_created" }
func (*FileDeleted) innerType() string           { return "file_deleted" }
func (*FilePublic) innerType() string            { return "file_public" }
func (*FileShared) innerType() string            { return "file_shared" }
func (*FileUnshared) innerType() string          { return "file_unshared" }
func (*GridMigrationFinished) innerType() string { return "grid_migration_finished" }
func (*GridMigrationStarted) innerType() string  { return "grid_migration_started" }
func (*GroupArchive) innerType() string          { return "group_archive" }
func (*GroupClose) innerType() string            { return "group_close" }
func (*GroupDeleted) innerType() string          { return "group_deleted" }
func (*GroupHistoryChanged) innerType() string   { return "group_history_changed" }
func (*GroupLeft) innerType() string             { return "group_left" }
func (*GroupOpen) innerType() string             { return "group_open" }
func (*GroupRename) innerType() string           { return "group_rename" }
func (*GroupUnarchive) innerType() string        { return "group_unarchive" }
func (*ImClose) innerType() string               { return "im_close" }
func (*ImCreated) innerType() string             { return "im_created" }
func (*ImHistoryChanged) innerType() string      { return "im_history_changed" }
func (*ImOpen) innerType() string                { return "im_open" }
func (*InviteRequested) innerType() string       { return "invite_requested" }
func (*LinkShared) innerType() string            { return "link_shared" }
func (*MemberJoinedChannel) innerType() string   { return "member_joined_channel" }
func (*MemberLeftChannel) innerType() string     { return "member_left_channel" }
func (*PinAdded) innerType() string              { return "pin_added" }
func (*PinRemoved) innerType() string            { return "pin_removed" }
func (*ReactionAdded) innerType() string         { return "reaction_added" }
func (*ReactionRemoved) innerType() string       { return "reaction_removed" }
func (*ResourcesAdded) innerType() string        { return "resources_added" }
func (*ResourcesRemoved) innerType() string      { return "resources_removed" }
func (*ScopeDenied) innerType() string           { return "scope_denied" }
func (*ScopeGranted) innerType() string          { return "scope_granted" }
func (*StarAdded) innerType() string             { return "star_added" }
func (*StarRemoved) innerType() string           { return "star_removed" }
func (*SubteamCreated) innerType() string        { return "subteam_created" }
func (*SubteamMembersChanged) innerType() string { return "subteam_members_changed" }
func (*SubteamSelfAdded) innerType() string      { return "subteam_self_added" }
func (*SubteamSelfRemoved) innerType() string    { return "subteam_self_removed" }
func (*SubteamUpdated) innerType() string        { return "subteam_updated" }
func (*TeamDomainChange) innerType() string      { return "team_domain_change" }
func (*TeamJoin) innerType() string              { return "team_join" }
func (*TeamRename) innerType() string            { return "team_rename" }
func (*TokensRevoked) innerType() string         { return "tokens_revoked" }
func (*URLVerificationEvent) innerType() string  { return "url_verification" }
func (*UserChange) innerType() string            { return "user_change" }
func (*UserResourceDenied) innerType() string    { return "user_resource_denied" }
func (*UserResourceGranted) innerType() string   { return "user_resource_granted" }
func (*UserResourceRemoved) innerType() string   { return "user_resource_removed" }

var innerFactories = map[string]func() InnerEvent{
	"app_home_opened":         func() InnerEvent { return new(AppHomeOpened) },
	"app_mention":             func() InnerEvent { return new(AppMention) },
	"app_rate_limited":        func() InnerEvent { return new(AppRateLimited) },
	"app_requested":           func() InnerEvent { return new(AppRequested) },
	"app_uninstalled":         func() InnerEvent { return new(AppUninstalled) },
	"call_rejected":           func() InnerEvent { return new(CallRejected) },
	"channel_archive":         func() InnerEvent { return new(ChannelArchive) },
	"channel_created":         func() InnerEvent { return new(ChannelCreated) },
	"channel_deleted":         func() InnerEvent { return new(ChannelDeleted) },
	"channel_history_changed": func() InnerEvent { return new(ChannelHistoryChanged) },
	"channel_left":            func() InnerEvent { return new(ChannelLeft) },
	"channel_rename":          func() InnerEvent { return new(ChannelRename) },
	"channel_shared":          func() InnerEvent { return new(ChannelShared) },
	"channel_unarchive":       func() InnerEvent { return new(ChannelUnarchive) },
	"channel_unshared":        func() InnerEvent { return new(ChannelUnshared) },
	"dnd_updated":             func() InnerEvent { return new(DndUpdated) },
	"dnd_updated_user":        func() InnerEvent { return new(DndUpdatedUser) },
	"email_domain_changed":    func() InnerEvent { return new(EmailDomainChanged) },
	"emoji_changed":           func() InnerEvent { return new(EmojiChanged) },
	"file_change":             func() InnerEvent { return new(FileChange) },
	"file_comment_added":      func() InnerEvent { return new(FileCommentAdded) },
	"file_comment_deleted":    func() InnerEvent { return new(FileCommentDeleted) },
	"file_comment_edited":     func() InnerEvent { return new(FileCommentEdited) },
	"file_created":            func() InnerEvent { return new(FileCreated) },
	"file_deleted":            func() InnerEvent { return new(FileDeleted) },
	"file_public":             func() InnerEvent { return new(FilePublic) },
	"file_shared":             func() InnerEvent { return new(FileShared) },
	"file_unshared":           func() InnerEvent { return new(FileUnshared) },
	"grid_migration_finished": func() InnerEvent { return new(GridMigrationFinished) },
	"grid_migration_started":  func() InnerEvent { return new(GridMigrationStarted) },
	"group_archive":           func() InnerEvent { return new(GroupArchive) },
	"group_close":             func() InnerEvent { return new(GroupClose) },
	"group_deleted":           func() InnerEvent { return new(GroupDeleted) },
	"group_history_changed":   func() InnerEvent { return new(GroupHistoryChanged) },
	"group_left":              func() InnerEvent { return new(GroupLeft) },
	"group_open":              func() InnerEvent { return new(GroupOpen) },
	"group_rename":            func() InnerEvent { return new(GroupRename) },
	"group_unarchive":         func() InnerEvent { return new(GroupUnarchive) },
	"im_close":                func() InnerEvent { return new(ImClose) },
	"im_created":              func() InnerEvent { return new(ImCreated) },
	"im_history_changed":      func() InnerEvent { return new(ImHistoryChanged) },
	"im_open":                 func() InnerEvent { return new(ImOpen) },
	"invite_requested":        func() InnerEvent { return new(InviteRequested) },
	"link_shared":             func() InnerEvent { return new(LinkShared) },
	"member_joined_channel":   func() InnerEvent { return new(MemberJoinedChannel) },
	"member_left_channel":     func() InnerEvent { return new(MemberLeftChannel) },
	"message":                 func() InnerEvent { return new(Message) },
	"pin_added":               func() InnerEvent { return new(PinAdded) },
	"pin_removed":             func() InnerEvent { return new(PinRemoved) },
	"reaction_added":          func() InnerEvent { return new(ReactionAdded) },
	"reaction_removed":        func() InnerEvent { return new(ReactionRemoved) },
	"resources_added":         func() InnerEvent { return new(ResourcesAdded) },
	"resources_removed":       func() InnerEvent { return new(ResourcesRemoved) },
	"scope_denied":            func() InnerEvent { return new(ScopeDenied) },
	"scope_granted":           func() InnerEvent { return new(ScopeGranted) },
	"star_added":              func() InnerEvent { return new(StarAdded) },
	"star_removed":            func() InnerEvent { return new(StarRemoved) },
	"subteam_created":         func() InnerEvent { return new(SubteamCreated) },
	"subteam_members_changed": func() InnerEvent { return new(SubteamMembersChanged) },
	"subteam_self_added":      func() InnerEvent { return new(SubteamSelfAdded) },
	"subteam_self_removed":    func() InnerEvent { return new(SubteamSelfRemoved) },
	"subteam_updated":         func() InnerEvent { return new(SubteamUpdated) },
	"team_domain_change":      func() InnerEvent { return new(TeamDomainChange) },
	"team_join":               func() InnerEvent { return new(TeamJoin) },
	"team_rename":             func() InnerEvent { return new(TeamRename) },
	"tokens_revoked":          func() InnerEvent { return new(TokensRevoked) },
	"url_verification":        func() InnerEvent { return new(URLVerificationEvent) },
	"user_change":             func() InnerEvent { return new(UserChange) },
	"user_resource_denied":    func() InnerEvent { return new(UserResourceDenied) },
	"user_resource_granted":   func() InnerEvent { return new(UserResourceGranted) },
	"user_resource_removed":   func() InnerEvent { return new(UserResourceRemoved) },
}

func decodeInner(raw json.RawMessage) (InnerEvent, error) {
	if len(raw) == 0 {
		return nil, &DecodeError{Reason: "event_callback missing inner event"}
	}
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, &DecodeError{Reason: "invalid inner event", Err: err}
	}

	factory, ok := innerFactories[probe.Type]
	if !ok {
		return &UnknownEvent{Type: probe.Type, Raw: append(json.RawMessage(nil), raw...)}, nil
	}

	ev := factory()
	if err := json.Unmarshal(raw, ev); err != nil {
		return nil, &DecodeError{Reason: fmt.Sprintf("invalid %s event", probe.Type), Err: err}
	}
	return ev, nil
}

// marshalInner re-attaches the "type" discriminator the variant structs do
// not carry as a field.
func marshalInner(ev InnerEvent) (json.RawMessage, error) {
	if ev == nil {
		return nil, fmt.Errorf("marshal inner event: nil event")
	}
	if unknown, ok := ev.(*UnknownEvent); ok {
		return unknown.Raw, nil
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	tag, err := json.Marshal(ev.innerType())
	if err != nil {
		return nil, err
	}
	fields["type"] = tag
	return json.Marshal(fields)
}
