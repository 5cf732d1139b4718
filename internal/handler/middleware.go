package handler

import (
	"slack_echo/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LogSlackRetry is a middleware that records Slack retry deliveries. Retries
// are processed normally: the relay is at-most-once per request and accepts
// duplicate deliveries rather than deduplicating them here.
func LogSlackRetry() gin.HandlerFunc {
	return func(c *gin.Context) {
		retryNum := c.GetHeader("X-Slack-Retry-Num")
		if retryNum != "" {
			logger.GetLogger().Info("slack retry delivery",
				zap.String("retry_num", retryNum),
				zap.String("retry_reason", c.GetHeader("X-Slack-Retry-Reason")))
		}
		c.Next()
	}
}
