// Local development server: serves the same webhook route as the lambda,
// without API Gateway in front. The signing secret is read from the
// environment — set SIGNING_SECRET_NAME to the name of the environment
// variable holding the secret value.
package main

import (
	"context"
	"log"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"

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
	publisher := relay.NewPublisher(sns.NewFromConfig(awsCfg), cfg.TopicFilter)

	r := handler.NewRouter(secrets.EnvProvider{}, publisher, cfg.SigningSecretName)
	log.Printf("Listening on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
