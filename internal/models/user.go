package models

import "time"

// Role distinguishes administrators, who may seed shared data, from regular users.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// SubscriptionStatus represents the billing state of a user.
type SubscriptionStatus string

const (
	SubscriptionFree     SubscriptionStatus = "free"
	SubscriptionPremium  SubscriptionStatus = "premium"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// User represents the user model in the database
type User struct {
	Base
	Email                 string             `gorm:"uniqueIndex;not null" json:"email"`
	Password              string             `json:"-"`
	Name                  string             `gorm:"size:100" json:"name"`
	GoogleID              *string            `gorm:"uniqueIndex" json:"-"`
	Role                  Role               `gorm:"size:16;not null;default:user" json:"role"`
	SubscriptionStatus    SubscriptionStatus `gorm:"size:16;not null;default:free" json:"subscription_status"`
	SubscriptionExpiresAt *time.Time         `json:"subscription_expires_at,omitempty"`
	PreferredCurrency     string             `gorm:"size:3;not null;default:USD" json:"preferred_currency"`
	WeeklySummary         bool               `gorm:"not null;default:true" json:"weekly_summary"`
	IsActive              bool               `gorm:"default:true" json:"is_active"`
	RefreshTokenHash      string             `gorm:"size:64" json:"-"`
	FailedLoginAttempts   int                `gorm:"default:0" json:"-"`
	LockedUntil           *time.Time         `json:"-"`
	LastLoginAt           *time.Time         `json:"last_login_at,omitempty"`
}

// IsPremium reports whether the user currently has premium access. A premium
// subscription with a past expiry counts as lapsed.
func (u *User) IsPremium(now time.Time) bool {
	if u.SubscriptionStatus != SubscriptionPremium {
		return false
	}
	return u.SubscriptionExpiresAt == nil || u.SubscriptionExpiresAt.After(now)
}
