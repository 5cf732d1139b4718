package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"slack_echo/internal/config"
	"slack_echo/internal/handler"
	"slack_echo/internal/logger"
	"slack_echo/internal/relay"
	"slack_echo/internal/secrets"
)

func main() {
	cfg, err := config.LoadWebhook()
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
	publisher := relay.NewPublisher(sns.NewFromConfig(awsCfg), cfg.TopicFilter)

	ginLambda := ginadapter.New(handler.NewRouter(provider, publisher, cfg.SigningSecretName))
	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return ginLambda.ProxyWithContext(ctx, req)
	})
}
