package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fincheck/internal/errors"
	"fincheck/internal/models"
)

// PremiumKey holds whether the caller currently has premium access. It is set
// by RequirePremium and EnforceLookbackLimit.
const PremiumKey = "premium"

// CurrentMonthPeriod is the only report window free users may query.
const CurrentMonthPeriod = "currentMonth"

// UserLookup resolves the authenticated user for subscription checks.
type UserLookup interface {
	GetUserByID(id string) (*models.User, error)
}

func resolvePremium(c *gin.Context, users UserLookup) (bool, bool) {
	userID := c.GetString(UserIDKey)
	if userID == "" {
		abortWithError(c, apperrors.ErrUnauthorized)
		return false, false
	}
	user, err := users.GetUserByID(userID)
	if err != nil {
		abortWithError(c, apperrors.ErrUnauthorized)
		return false, false
	}
	premium := user.IsPremium(time.Now())
	c.Set(PremiumKey, premium)
	return premium, true
}

// RequirePremium rejects callers without an active premium subscription.
func RequirePremium(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		premium, ok := resolvePremium(c, users)
		if !ok {
			return
		}
		if !premium {
			abortWithError(c, apperrors.ErrPremiumRequired)
			return
		}
		c.Next()
	}
}

// EnforceLookbackLimit rewrites report queries to the caller's allowance.
// Free users always get period=currentMonth. Premium users keep their
// window with days capped at maxDays.
func EnforceLookbackLimit(users UserLookup, maxDays int) gin.HandlerFunc {
	return func(c *gin.Context) {
		premium, ok := resolvePremium(c, users)
		if !ok {
			return
		}

		query := c.Request.URL.Query()
		if !premium {
			query.Set("period", CurrentMonthPeriod)
			query.Del("days")
		} else if days, err := strconv.Atoi(query.Get("days")); err == nil && days > maxDays {
			query.Set("days", strconv.Itoa(maxDays))
		}
		c.Request.URL.RawQuery = query.Encode()
		c.Next()
	}
}
