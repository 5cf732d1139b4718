package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWebhookRequiresSigningSecretName(t *testing.T) {
	t.Setenv("SIGNING_SECRET_NAME", "")

	_, err := LoadWebhook()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SIGNING_SECRET_NAME")
}

func TestLoadWebhookDefaults(t *testing.T) {
	t.Setenv("SIGNING_SECRET_NAME", "SlackSigningSecret")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("TOPIC_FILTER", "")

	cfg, err := LoadWebhook()
	require.NoError(t, err)
	assert.Equal(t, "SlackSigningSecret", cfg.SigningSecretName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "slack_incoming_messages", cfg.TopicFilter)
}

func TestLoadEchoRequiredVars(t *testing.T) {
	t.Setenv("CHAT_TOKEN_SECRET_NAME", "")
	t.Setenv("LISTENER_TABLE_NAME", "")

	_, err := LoadEcho()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHAT_TOKEN_SECRET_NAME")
	assert.Contains(t, err.Error(), "LISTENER_TABLE_NAME")
}

func TestLoadEchoDefaultsAndOverrides(t *testing.T) {
	t.Setenv("CHAT_TOKEN_SECRET_NAME", "SlackClientSecret")
	t.Setenv("LISTENER_TABLE_NAME", "echo_listeners_v1")
	t.Setenv("BROADCAST_CONCURRENCY", "")
	t.Setenv("DISPATCH_TIMEOUT_SECONDS", "")

	cfg, err := LoadEcho()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.BroadcastConcurrency)
	assert.Equal(t, 60*time.Second, cfg.DispatchTimeout)

	t.Setenv("BROADCAST_CONCURRENCY", "3")
	t.Setenv("DISPATCH_TIMEOUT_SECONDS", "15")
	cfg, err = LoadEcho()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.BroadcastConcurrency)
	assert.Equal(t, 15*time.Second, cfg.DispatchTimeout)
}

func TestLoadEchoRejectsInvalidNumbers(t *testing.T) {
	t.Setenv("CHAT_TOKEN_SECRET_NAME", "SlackClientSecret")
	t.Setenv("LISTENER_TABLE_NAME", "echo_listeners_v1")
	t.Setenv("BROADCAST_CONCURRENCY", "zero")

	_, err := LoadEcho()
	require.Error(t, err)
}
