// Package relay forwards verified webhook bodies onto the internal SNS topic.
package relay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"slack_echo/internal/logger"

	"go.uber.org/zap"
)

// ErrNoMatchingTopic is returned when no topic in the account matches the
// configured name filter. The publish is never attempted without a resolved
// destination.
var ErrNoMatchingTopic = errors.New("no topic matches the configured name filter")

// SNSAPI is the slice of the SNS client this package uses.
type SNSAPI interface {
	ListTopics(ctx context.Context, params *sns.ListTopicsInput, optFns ...func(*sns.Options)) (*sns.ListTopicsOutput, error)
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Publisher relays raw webhook bodies to the topic whose ARN contains the
// name filter.
type Publisher struct {
	client      SNSAPI
	topicFilter string
}

// NewPublisher creates a new Publisher instance
func NewPublisher(client SNSAPI, topicFilter string) *Publisher {
	return &Publisher{client: client, topicFilter: topicFilter}
}

// Relay publishes rawBody verbatim to the resolved topic. One attempt, no
// retry; the webhook caller's own retry policy governs redelivery.
func (p *Publisher) Relay(ctx context.Context, rawBody []byte) error {
	arn, err := p.resolveTopic(ctx)
	if err != nil {
		return err
	}

	logger.GetLogger().Debug("publishing relayed event", zap.String("topic_arn", arn))
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		Message:  aws.String(string(rawBody)),
		TopicArn: aws.String(arn),
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", arn, err)
	}
	return nil
}

// resolveTopic scans the account's topics for ARNs containing the filter and
// keeps the last match. More than one match is a misconfiguration; which one
// wins is an accident of listing order, not a guarantee.
func (p *Publisher) resolveTopic(ctx context.Context) (string, error) {
	var match string
	paginator := sns.NewListTopicsPaginator(p.client, &sns.ListTopicsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to list topics: %w", err)
		}
		for _, topic := range page.Topics {
			if topic.TopicArn != nil && strings.Contains(*topic.TopicArn, p.topicFilter) {
				match = *topic.TopicArn
			}
		}
	}
	if match == "" {
		return "", ErrNoMatchingTopic
	}
	return match, nil
}
