package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for both lambdas
type Config struct {
	// Webhook lambda
	SigningSecretName string // Required: Secrets Manager name of the Slack signing secret
	TopicFilter       string // Substring that identifies the relay topic among the account's topics

	// Echo lambda
	ChatTokenSecretName  string // Required: Secrets Manager name of the Slack bot token
	ListenerTableName    string // Required: DynamoDB table holding listener ids
	BroadcastConcurrency int    // Cap on concurrent broadcast sends per invocation
	DispatchTimeout      time.Duration

	// Log level
	LogLevel string

	// Local dev server
	ListenAddr string
}

const (
	defaultTopicFilter          = "slack_incoming_messages"
	defaultBroadcastConcurrency = 8
	defaultDispatchTimeout      = 60 * time.Second
	defaultListenAddr           = ":8080"
)

// LoadWebhook creates the webhook lambda's Config from environment variables
func LoadWebhook() (*Config, error) {
	cfg := &Config{}

	requiredVars := map[string]*string{
		"SIGNING_SECRET_NAME": &cfg.SigningSecretName,
	}
	if err := loadRequired(requiredVars); err != nil {
		return nil, err
	}

	cfg.LogLevel = envOrDefault("LOG_LEVEL", "info")
	cfg.TopicFilter = envOrDefault("TOPIC_FILTER", defaultTopicFilter)
	cfg.ListenAddr = envOrDefault("LISTEN_ADDR", defaultListenAddr)

	return cfg, nil
}

// LoadEcho creates the echo lambda's Config from environment variables
func LoadEcho() (*Config, error) {
	cfg := &Config{}

	requiredVars := map[string]*string{
		"CHAT_TOKEN_SECRET_NAME": &cfg.ChatTokenSecretName,
		"LISTENER_TABLE_NAME":    &cfg.ListenerTableName,
	}
	if err := loadRequired(requiredVars); err != nil {
		return nil, err
	}

	cfg.LogLevel = envOrDefault("LOG_LEVEL", "info")

	cfg.BroadcastConcurrency = defaultBroadcastConcurrency
	if v := os.Getenv("BROADCAST_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid BROADCAST_CONCURRENCY value: %q", v)
		}
		cfg.BroadcastConcurrency = n
	}

	cfg.DispatchTimeout = defaultDispatchTimeout
	if v := os.Getenv("DISPATCH_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid DISPATCH_TIMEOUT_SECONDS value: %q", v)
		}
		cfg.DispatchTimeout = time.Duration(n) * time.Second
	}

	return cfg, nil
}

func loadRequired(vars map[string]*string) error {
	var missingVars []string
	for env, ptr := range vars {
		*ptr = os.Getenv(env)
		if *ptr == "" {
			missingVars = append(missingVars, env)
		}
	}
	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
	}
	return nil
}

func envOrDefault(env, fallback string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return fallback
}
