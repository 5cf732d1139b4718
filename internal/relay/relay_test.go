package relay

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNS struct {
	pages      [][]string // topic ARNs per ListTopics page
	listErr    error
	publishErr error
	published  []sns.PublishInput
}

func (f *fakeSNS) ListTopics(_ context.Context, in *sns.ListTopicsInput, _ ...func(*sns.Options)) (*sns.ListTopicsOutput, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	page := 0
	if in.NextToken != nil {
		page, _ = strconv.Atoi(*in.NextToken)
	}
	out := &sns.ListTopicsOutput{}
	for _, arn := range f.pages[page] {
		out.Topics = append(out.Topics, snstypes.Topic{TopicArn: aws.String(arn)})
	}
	if page+1 < len(f.pages) {
		out.NextToken = aws.String(strconv.Itoa(page + 1))
	}
	return out, nil
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	if f.publishErr != nil {
		return nil, f.publishErr
	}
	f.published = append(f.published, *in)
	return &sns.PublishOutput{MessageId: aws.String("m-1")}, nil
}

func TestRelayPublishesVerbatimBody(t *testing.T) {
	client := &fakeSNS{pages: [][]string{{
		"arn:aws:sns:us-west-1:1:other_topic",
		"arn:aws:sns:us-west-1:1:slack_incoming_messages_v1",
	}}}
	p := NewPublisher(client, "slack_incoming_messages")

	body := []byte(`{"type":"event_callback","event":{"type":"pin_added"}}`)
	require.NoError(t, p.Relay(context.Background(), body))

	require.Len(t, client.published, 1)
	assert.Equal(t, string(body), *client.published[0].Message)
	assert.Equal(t, "arn:aws:sns:us-west-1:1:slack_incoming_messages_v1", *client.published[0].TopicArn)
}

func TestRelayPrefersLastMatch(t *testing.T) {
	client := &fakeSNS{pages: [][]string{
		{"arn:aws:sns:us-west-1:1:slack_incoming_messages_a"},
		{"arn:aws:sns:us-west-1:1:unrelated", "arn:aws:sns:us-west-1:1:slack_incoming_messages_b"},
	}}
	p := NewPublisher(client, "slack_incoming_messages")

	require.NoError(t, p.Relay(context.Background(), []byte(`{}`)))
	require.Len(t, client.published, 1)
	assert.Equal(t, "arn:aws:sns:us-west-1:1:slack_incoming_messages_b", *client.published[0].TopicArn)
}

func TestRelayNoMatchingTopic(t *testing.T) {
	client := &fakeSNS{pages: [][]string{{"arn:aws:sns:us-west-1:1:other_topic"}}}
	p := NewPublisher(client, "slack_incoming_messages")

	err := p.Relay(context.Background(), []byte(`{}`))
	assert.ErrorIs(t, err, ErrNoMatchingTopic)
	assert.Empty(t, client.published, "must not publish without a resolved destination")
}

func TestRelayListFailure(t *testing.T) {
	client := &fakeSNS{listErr: errors.New("throttled")}
	p := NewPublisher(client, "slack_incoming_messages")

	err := p.Relay(context.Background(), []byte(`{}`))
	require.Error(t, err)
	assert.Empty(t, client.published)
}

func TestRelayPublishFailure(t *testing.T) {
	client := &fakeSNS{
		pages:      [][]string{{"arn:aws:sns:us-west-1:1:slack_incoming_messages_v1"}},
		publishErr: errors.New("unavailable"),
	}
	p := NewPublisher(client, "slack_incoming_messages")

	require.Error(t, p.Relay(context.Background(), []byte(`{}`)))
}
