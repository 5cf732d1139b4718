// Package registry persists the set of listener ids that receive a copy of
// every relayed event.
package registry

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// primaryKey is the table's only attribute.
const primaryKey = "SlackUserId"

// Store defines the listener registry operations. Add and Remove are
// idempotent; List enumerates every registered id. The three calls are
// individually atomic at the store level but not composed into transactions.
type Store interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, listenerID string) error
	Remove(ctx context.Context, listenerID string) error
}

// DynamoAPI is the slice of the DynamoDB client this package uses.
type DynamoAPI interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DynamoStore implements Store on a single-primary-key DynamoDB table.
type DynamoStore struct {
	client DynamoAPI
	table  string
}

type listenerItem struct {
	SlackUserID string `dynamodbav:"SlackUserId"`
}

// NewDynamoStore creates a new DynamoStore instance
func NewDynamoStore(client DynamoAPI, table string) *DynamoStore {
	return &DynamoStore{client: client, table: table}
}

// List scans the whole table, accumulating every page.
func (s *DynamoStore) List(ctx context.Context) ([]string, error) {
	var ids []string
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:            aws.String(s.table),
		ProjectionExpression: aws.String(primaryKey),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listener table: %w", err)
		}
		var items []listenerItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal listener items: %w", err)
		}
		for _, item := range items {
			ids = append(ids, item.SlackUserID)
		}
	}
	return ids, nil
}

// Add registers a listener. Adding an already-present id is a no-op success.
func (s *DynamoStore) Add(ctx context.Context, listenerID string) error {
	item, err := attributevalue.MarshalMap(listenerItem{SlackUserID: listenerID})
	if err != nil {
		return fmt.Errorf("failed to marshal listener item: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to add listener %s: %w", listenerID, err)
	}
	return nil
}

// Remove deregisters a listener. Removing an absent id is a no-op success.
func (s *DynamoStore) Remove(ctx context.Context, listenerID string) error {
	key, err := attributevalue.MarshalMap(listenerItem{SlackUserID: listenerID})
	if err != nil {
		return fmt.Errorf("failed to marshal listener key: %w", err)
	}
	_, err = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("failed to remove listener %s: %w", listenerID, err)
	}
	return nil
}
