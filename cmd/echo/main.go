package main

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"

	"slack_echo/internal/chat"
	"slack_echo/internal/config"
	"slack_echo/internal/dispatch"
	"slack_echo/internal/logger"
	"slack_echo/internal/registry"
	"slack_echo/internal/secrets"
)

// handleEvent processes one SNS delivery. The chat token is fetched once per
// invocation; a fetch failure is returned so the trigger's retry policy can
// redeliver.
func handleEvent(ctx context.Context, event events.SNSEvent, provider secrets.Provider, store registry.Store, cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.DispatchTimeout)
	defer cancel()

	token, err := provider.GetSecret(ctx, cfg.ChatTokenSecretName)
	if err != nil {
		return fmt.Errorf("failed to fetch chat token: %w", err)
	}

	dispatcher := dispatch.New(store, chat.NewSlackSender(token), cfg.BroadcastConcurrency)
	for _, record := range event.Records {
		logger.GetLogger().Debug("dispatching relayed message",
			zap.String("message_id", record.SNS.MessageID))
		if err := dispatcher.Dispatch(ctx, []byte(record.SNS.Message)); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	cfg, err := config.LoadEcho()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}

	provider := secrets.NewManager(secretsmanager.NewFromConfig(awsCfg))
	store := registry.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.ListenerTableName)

	lambda.Start(func(ctx context.Context, event events.SNSEvent) error {
		return handleEvent(ctx, event, provider, store, cfg)
	})
}
