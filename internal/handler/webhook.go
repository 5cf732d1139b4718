package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"slack_echo/internal/logger"
	"slack_echo/internal/relay"
	"slack_echo/internal/secrets"
	"slack_echo/internal/slackevent"
	"slack_echo/internal/verify"
)

// WebhookHandler authenticates inbound Slack webhook requests and relays
// non-handshake events onto the internal topic.
type WebhookHandler struct {
	secrets           secrets.Provider
	publisher         *relay.Publisher
	signingSecretName string
}

// NewWebhookHandler creates a new WebhookHandler instance
func NewWebhookHandler(provider secrets.Provider, publisher *relay.Publisher, signingSecretName string) *WebhookHandler {
	return &WebhookHandler{
		secrets:           provider,
		publisher:         publisher,
		signingSecretName: signingSecretName,
	}
}

// HandleEvent handles POST /slack/events
func (h *WebhookHandler) HandleEvent(c *gin.Context) {
	log := logger.GetLogger()

	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		log.Error("empty request body")
		c.String(http.StatusBadRequest, "empty request body")
		return
	}

	signature := c.GetHeader("X-Slack-Signature")
	timestamp := c.GetHeader("X-Slack-Request-Timestamp")
	if signature == "" || timestamp == "" {
		log.Warn("request missing signature headers")
		c.Status(http.StatusForbidden)
		return
	}

	secret, err := h.secrets.GetSecret(c.Request.Context(), h.signingSecretName)
	if err != nil {
		log.Error("failed to fetch signing secret", zap.Error(err))
		c.String(http.StatusInternalServerError, "failed to fetch signing secret")
		return
	}

	if err := verify.Verify(timestamp, body, signature, []byte(secret)); err != nil {
		log.Warn("rejected webhook request", zap.Error(err))
		c.Status(http.StatusForbidden)
		return
	}

	outer, err := slackevent.Decode(body)
	if err != nil {
		// Authenticated but unintelligible; drop it rather than feed the
		// topic bytes the dispatcher can never use.
		log.Warn("dropping undecodable webhook payload", zap.Error(err))
		c.Status(http.StatusOK)
		return
	}

	// Handle URL verification challenge
	if challenge, ok := outer.(*slackevent.URLVerification); ok {
		c.Header("Content-Type", "text/plain")
		c.String(http.StatusOK, challenge.Challenge)
		return
	}

	if err := h.publisher.Relay(c.Request.Context(), body); err != nil {
		log.Error("failed to relay event", zap.Error(err))
		c.String(http.StatusInternalServerError, fmt.Sprintf("failed to relay event: %v", err))
		return
	}

	c.Status(http.StatusOK)
}
