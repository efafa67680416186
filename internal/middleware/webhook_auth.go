package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fincheck/internal/errors"
)

// WebhookSecretHeader carries the shared secret sent by the payment provider.
const WebhookSecretHeader = "X-Webhook-Secret"

var (
	errWebhookNotConfigured = &apperrors.AppError{Code: "WEBHOOK_NOT_CONFIGURED", Message: "Payment webhooks are not configured", StatusCode: http.StatusServiceUnavailable}
	errInvalidWebhookSecret = &apperrors.AppError{Code: "INVALID_WEBHOOK_SECRET", Message: "Invalid or missing webhook secret", StatusCode: http.StatusUnauthorized}
)

// WebhookAuth validates the webhook secret header against the configured secret.
func WebhookAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			abortWithError(c, errWebhookNotConfigured)
			return
		}
		got := c.GetHeader(WebhookSecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			abortWithError(c, errInvalidWebhookSecret)
			return
		}
		c.Next()
	}
}
