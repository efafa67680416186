package handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fincheck/internal/errors"
	"fincheck/internal/models"
	"fincheck/internal/services"
)

// Webhook events sent by the payment provider.
const (
	EventSubscriptionActivated = "subscription.activated"
	EventSubscriptionRenewed   = "subscription.renewed"
	EventSubscriptionCanceled  = "subscription.canceled"
	EventSubscriptionExpired   = "subscription.expired"
)

// PaymentHandler handles checkout links and subscription webhooks.
type PaymentHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
	checkoutURL  string
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(userService services.UserServicer, auditService services.AuditServicer, checkoutURL string) *PaymentHandler {
	return &PaymentHandler{userService: userService, auditService: auditService, checkoutURL: checkoutURL}
}

// WebhookRequest is a subscription lifecycle event.
type WebhookRequest struct {
	Event     string     `json:"event" binding:"required"`
	UserID    string     `json:"user_id" binding:"required,uuid"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// CheckoutResponse holds the URL the client should open to pay.
type CheckoutResponse struct {
	URL string `json:"url"`
}

// CreateCheckout returns the checkout link for the caller
// @Summary     Start checkout
// @Tags        payments
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} CheckoutResponse "Checkout link"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Checkout not configured"
// @Router      /payments/checkout [post]
func (h *PaymentHandler) CreateCheckout(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if h.checkoutURL == "" {
		respondWithError(c, apperrors.ErrCheckoutNotEnabled)
		return
	}

	u, err := url.Parse(h.checkoutURL)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrCheckoutNotEnabled, err))
		return
	}
	q := u.Query()
	q.Set("client_reference_id", userID)
	u.RawQuery = q.Encode()

	c.JSON(http.StatusOK, CheckoutResponse{URL: u.String()})
}

// Webhook applies a subscription event
// @Summary     Payment webhook
// @Description Authenticated by the X-Webhook-Secret header.
// @Tags        payments
// @Accept      json
// @Produce     json
// @Param       X-Webhook-Secret header string         true "Shared secret"
// @Param       request          body   WebhookRequest true "Event"
// @Success     200 {object} map[string]string "Applied"
// @Failure     400 {object} ErrorResponse "Invalid or unsupported event"
// @Failure     401 {object} ErrorResponse "Invalid secret"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /payments/webhook [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var req WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	var status models.SubscriptionStatus
	expiresAt := req.ExpiresAt
	switch req.Event {
	case EventSubscriptionActivated, EventSubscriptionRenewed:
		status = models.SubscriptionPremium
	case EventSubscriptionCanceled, EventSubscriptionExpired:
		status = models.SubscriptionCanceled
		expiresAt = nil
	default:
		respondWithError(c, apperrors.ErrUnknownEvent)
		return
	}

	user, err := h.userService.SetSubscription(req.UserID, status, expiresAt)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, services.AuditSubscriptionChanged, "user", user.ID, c.ClientIP(),
		map[string]interface{}{"event": req.Event, "status": status})
	c.JSON(http.StatusOK, gin.H{"status": string(status)})
}
