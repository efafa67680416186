package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"fincheck/internal/config"
	apperrors "fincheck/internal/errors"
	"fincheck/internal/models"
	"fincheck/internal/uuid"
)

const (
	defaultAccessTokenExpiry = 15 * time.Minute
	refreshTokenExpiry       = 7 * 24 * time.Hour
	tokenIssuer              = "fincheck-api"
)

// Context keys set by AuthMiddleware.
const (
	UserIDKey = "userID"
	EmailKey  = "email"
	RoleKey   = "role"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// getJWTKey returns the JWT key from configuration
func getJWTKey() []byte {
	return []byte(config.Get().JWTSecret)
}

func accessTokenExpiry() time.Duration {
	if d := config.Get().JWTExpirationDur; d > 0 {
		return d
	}
	return defaultAccessTokenExpiry
}

// JWTClaims represents the claims in the JWT
type JWTClaims struct {
	UserID    string      `json:"user_id"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	TokenType string      `json:"token_type"`
	jwt.RegisteredClaims
}

func signToken(user *models.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   user.ID,
			ID:        uuid.New(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getJWTKey())
}

// GenerateAccessToken generates a short-lived JWT access token for a user.
func GenerateAccessToken(user *models.User) (string, error) {
	return signToken(user, tokenTypeAccess, accessTokenExpiry())
}

// GenerateRefreshToken generates a long-lived JWT refresh token for a user.
func GenerateRefreshToken(user *models.User) (string, error) {
	return signToken(user, tokenTypeRefresh, refreshTokenExpiry)
}

func parseToken(tokenString, wantType string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getJWTKey(), nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid %s token", wantType)
	}
	if claims.TokenType != wantType {
		return nil, fmt.Errorf("token is not a %s token", wantType)
	}
	return claims, nil
}

// ValidateRefreshToken parses and validates a refresh token JWT.
// Returns the claims if valid, or an error if the token is invalid,
// expired, or not a refresh token.
func ValidateRefreshToken(tokenString string) (*JWTClaims, error) {
	return parseToken(tokenString, tokenTypeRefresh)
}

// HashToken returns the SHA-256 hex digest of a token string.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// AuthMiddleware verifies the bearer access token and stores the caller's
// id, email and role in the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Authorization header is required"))
			return
		}

		scheme, tokenString, ok := strings.Cut(authHeader, " ")
		if !ok || scheme != "Bearer" || tokenString == "" {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid authorization header format"))
			return
		}

		claims, err := parseToken(tokenString, tokenTypeAccess)
		if err != nil {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid or expired token"))
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Email)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole rejects callers whose token does not carry the given role.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if got, _ := c.Get(RoleKey); got != role {
			abortWithError(c, apperrors.ErrForbidden)
			return
		}
		c.Next()
	}
}
