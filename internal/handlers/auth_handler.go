package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"fincheck/internal/config"
	apperrors "fincheck/internal/errors"
	"fincheck/internal/logger"
	"fincheck/internal/mailer"
	"fincheck/internal/middleware"
	"fincheck/internal/models"
	"fincheck/internal/services"
)

const (
	oauthStateCookie   = "oauth_state"
	oauthStateTTL      = 10 * time.Minute
	googleUserInfoURL  = "https://openidconnect.googleapis.com/v1/userinfo"
	welcomeMailTimeout = 10 * time.Second
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
	mailer       mailer.Mailer
	appBaseURL   string
	secureCookie bool

	// googleOAuth is nil when Google sign-in is not configured.
	googleOAuth *oauth2.Config
	userInfoURL string
	clock       clock
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService services.UserServicer, auditService services.AuditServicer, m mailer.Mailer, cfg *config.Config) *AuthHandler {
	h := &AuthHandler{
		userService:  userService,
		auditService: auditService,
		mailer:       m,
		appBaseURL:   cfg.AppBaseURL,
		secureCookie: cfg.Env == "production",
		userInfoURL:  googleUserInfoURL,
	}
	if cfg.GoogleEnabled() {
		h.googleOAuth = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}
	return h
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Name     string `json:"name" binding:"max=100"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the token refresh payload
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UserResponse represents the user data in the response
type UserResponse struct {
	ID                    string                    `json:"id"`
	Email                 string                    `json:"email"`
	Name                  string                    `json:"name"`
	Role                  models.Role               `json:"role"`
	SubscriptionStatus    models.SubscriptionStatus `json:"subscription_status"`
	SubscriptionExpiresAt *time.Time                `json:"subscription_expires_at,omitempty"`
	IsPremium             bool                      `json:"is_premium"`
	PreferredCurrency     string                    `json:"preferred_currency"`
	WeeklySummary         bool                      `json:"weekly_summary"`
}

func newUserResponse(user *models.User, now time.Time) UserResponse {
	return UserResponse{
		ID:                    user.ID,
		Email:                 user.Email,
		Name:                  user.Name,
		Role:                  user.Role,
		SubscriptionStatus:    user.SubscriptionStatus,
		SubscriptionExpiresAt: user.SubscriptionExpiresAt,
		IsPremium:             user.IsPremium(now),
		PreferredCurrency:     user.PreferredCurrency,
		WeeklySummary:         user.WeeklySummary,
	}
}

// AuthResponse represents the authentication response with the token pair
type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

// issueTokens creates a token pair and stores the refresh token hash so that
// only the latest refresh token stays valid.
func (h *AuthHandler) issueTokens(user *models.User) (*AuthResponse, error) {
	accessToken, err := middleware.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	refreshToken, err := middleware.GenerateRefreshToken(user)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := h.userService.StoreRefreshTokenHash(user.ID, middleware.HashToken(refreshToken)); err != nil {
		return nil, err
	}
	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         newUserResponse(user, h.clock.now()),
	}, nil
}

func (h *AuthHandler) sendWelcome(ctx context.Context, user *models.User) {
	msg, err := mailer.WelcomeMessage(user.Email, user.Name, h.appBaseURL)
	if err == nil {
		ctx, cancel := context.WithTimeout(ctx, welcomeMailTimeout)
		defer cancel()
		err = h.mailer.Send(ctx, msg)
	}
	if err != nil {
		logger.Get().Warnw("welcome email failed", "user_id", user.ID, "error", err)
	}
}

// Register handles user registration
// @Summary     Register a new user
// @Description Register a new user with email and password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     201 {object} AuthResponse "User registered and tokens issued"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	user, err := h.userService.CreateUser(req.Email, req.Password, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp, err := h.issueTokens(user)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, services.AuditRegister, "user", user.ID, c.ClientIP(), nil)
	h.sendWelcome(c.Request.Context(), user)

	c.JSON(http.StatusCreated, resp)
}

// Login handles user login
// @Summary     Login user
// @Description Authenticate a user and get a token pair. Repeated failures lock the account for 15 minutes.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} AuthResponse "User authenticated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     423 {object} ErrorResponse "Account locked"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	user, err := h.userService.AttemptLogin(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp, err := h.issueTokens(user)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, services.AuditLogin, "user", user.ID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, resp)
}

// Refresh exchanges a refresh token for a new token pair
// @Summary     Refresh tokens
// @Description Rotate the token pair. The previous refresh token stops working.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RefreshRequest true "Refresh token"
// @Success     200 {object} AuthResponse "New token pair"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid refresh token"
// @Router      /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	claims, err := middleware.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid or expired refresh token"))
		return
	}

	storedHash, err := h.userService.GetRefreshTokenHash(claims.UserID)
	if err != nil || storedHash == "" || storedHash != middleware.HashToken(req.RefreshToken) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid or expired refresh token"))
		return
	}

	user, err := h.userService.GetUserByID(claims.UserID)
	if err != nil || !user.IsActive {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid or expired refresh token"))
		return
	}

	resp, err := h.issueTokens(user)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GoogleLogin redirects to the Google consent screen
// @Summary     Sign in with Google
// @Description Redirects to Google. A state cookie protects the callback.
// @Tags        auth
// @Success     307 "Redirect to Google"
// @Failure     503 {object} ErrorResponse "Google sign-in not configured"
// @Router      /auth/google [get]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	if h.googleOAuth == nil {
		respondWithError(c, apperrors.ErrOAuthDisabled)
		return
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	state := hex.EncodeToString(buf)

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, int(oauthStateTTL.Seconds()), "/", "", h.secureCookie, true)
	c.Redirect(http.StatusTemporaryRedirect, h.googleOAuth.AuthCodeURL(state))
}

type googleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

func (h *AuthHandler) fetchGoogleUser(ctx context.Context, code string) (*googleUserInfo, error) {
	token, err := h.googleOAuth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	resp, err := h.googleOAuth.Client(ctx, token).Get(h.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if !info.EmailVerified {
		return nil, fmt.Errorf("google account %s has no verified email", info.Sub)
	}
	return &info, nil
}

// GoogleCallback completes Google sign-in
// @Summary     Google sign-in callback
// @Description Exchanges the authorization code, then finds or creates the user.
// @Tags        auth
// @Produce     json
// @Param       state query string true "OAuth state"
// @Param       code  query string true "Authorization code"
// @Success     200 {object} AuthResponse "User authenticated"
// @Failure     401 {object} ErrorResponse "Sign-in failed"
// @Failure     503 {object} ErrorResponse "Google sign-in not configured"
// @Router      /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.googleOAuth == nil {
		respondWithError(c, apperrors.ErrOAuthDisabled)
		return
	}

	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrOAuthFailed, "Invalid OAuth state"))
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.secureCookie, true)

	code := c.Query("code")
	if code == "" {
		respondWithError(c, apperrors.ErrOAuthFailed)
		return
	}

	info, err := h.fetchGoogleUser(c.Request.Context(), code)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrOAuthFailed, err))
		return
	}

	user, created, err := h.userService.FindOrCreateGoogleUser(info.Sub, info.Email, info.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp, err := h.issueTokens(user)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, services.AuditLoginGoogle, "user", user.ID, c.ClientIP(),
		map[string]interface{}{"created": created})
	if created {
		h.sendWelcome(c.Request.Context(), user)
	}

	c.JSON(http.StatusOK, resp)
}
