package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fincheck/internal/models"
	"fincheck/internal/services"
)

const recentTransactionsOnDashboard = 5

// UserHandler serves the authenticated user's profile and dashboard.
type UserHandler struct {
	userService    services.UserServicer
	financeService services.FinanceServicer
	auditService   services.AuditServicer
	clock          clock
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer, financeService services.FinanceServicer, auditService services.AuditServicer) *UserHandler {
	return &UserHandler{userService: userService, financeService: financeService, auditService: auditService}
}

// UpdateMeRequest represents the profile fields a user may change.
type UpdateMeRequest struct {
	Name              *string `json:"name" binding:"omitempty,max=100"`
	PreferredCurrency *string `json:"preferred_currency" binding:"omitempty,iso4217"`
	WeeklySummary     *bool   `json:"weekly_summary"`
}

// DashboardResponse is the current month overview shown on the profile.
type DashboardResponse struct {
	Metrics            *services.DashboardMetrics  `json:"metrics"`
	RecentTransactions []models.FinanceTransaction `json:"recent_transactions"`
}

// MeResponse is the profile together with its dashboard.
type MeResponse struct {
	User      UserResponse      `json:"user"`
	Dashboard DashboardResponse `json:"dashboard"`
}

// GetMe returns the profile and the current month's dashboard
// @Summary     Get current user
// @Description Profile, current month metrics and the latest transactions
// @Tags        user
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MeResponse "Profile and dashboard"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	now := h.clock.now()
	metrics, err := h.financeService.GetDashboardMetrics(userID, now)
	if err != nil {
		respondWithError(c, err)
		return
	}
	recent, err := h.financeService.GetRecentTransactions(userID, recentTransactionsOnDashboard)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if recent == nil {
		recent = []models.FinanceTransaction{}
	}

	c.JSON(http.StatusOK, MeResponse{
		User:      newUserResponse(user, now),
		Dashboard: DashboardResponse{Metrics: metrics, RecentTransactions: recent},
	})
}

// UpdateMe updates the caller's profile
// @Summary     Update current user
// @Description Change name, preferred currency or the weekly summary opt-in
// @Tags        user
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateMeRequest true "Profile fields"
// @Success     200 {object} UserResponse "Updated profile"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /users/me [patch]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	user, err := h.userService.UpdateProfile(userID, services.ProfileUpdate{
		Name:              req.Name,
		PreferredCurrency: req.PreferredCurrency,
		WeeklySummary:     req.WeeklySummary,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes := map[string]interface{}{}
	if req.Name != nil {
		changes["name"] = *req.Name
	}
	if req.PreferredCurrency != nil {
		changes["preferred_currency"] = *req.PreferredCurrency
	}
	if req.WeeklySummary != nil {
		changes["weekly_summary"] = *req.WeeklySummary
	}
	h.auditService.Log(userID, services.AuditUpdateProfile, "user", userID, c.ClientIP(), changes)

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user, h.clock.now())})
}
