// Package chat is the chat.postMessage collaborator.
package chat

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// Sender posts one text message to one channel or user.
type Sender interface {
	Send(ctx context.Context, channel, text string) error
}

// SlackSender implements Sender on the Slack Web API.
type SlackSender struct {
	api *slack.Client
}

// NewSlackSender creates a new SlackSender instance
func NewSlackSender(token string) *SlackSender {
	return &SlackSender{api: slack.New(token)}
}

func (s *SlackSender) Send(ctx context.Context, channel, text string) error {
	_, _, err := s.api.PostMessageContext(ctx, channel, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("failed to post message to %s: %w", channel, err)
	}
	return nil
}
