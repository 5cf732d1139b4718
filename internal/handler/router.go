package handler

import (
	"github.com/gin-gonic/gin"

	"slack_echo/internal/logger"
	"slack_echo/internal/relay"
	"slack_echo/internal/secrets"
)

// NewRouter builds the gin engine serving the webhook surface. Shared by the
// lambda entrypoint (behind the API Gateway proxy adapter) and the local dev
// server.
func NewRouter(provider secrets.Provider, publisher *relay.Publisher, signingSecretName string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), logger.GinLogMiddleware(), LogSlackRetry())

	h := NewWebhookHandler(provider, publisher, signingSecretName)
	r.POST("/slack/events", h.HandleEvent)

	return r
}
