package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "fincheck/internal/errors"
	"fincheck/internal/models"
)

const (
	maxFailedLoginAttempts = 5
	lockoutDuration        = 15 * time.Minute
)

// userService handles user-related business logic.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// CreateUser registers a new user
func (s *userService) CreateUser(email, password, name string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:              email,
		Password:           string(hashedPassword),
		Name:               strings.TrimSpace(name),
		Role:               models.RoleUser,
		SubscriptionStatus: models.SubscriptionFree,
		PreferredCurrency:  "USD",
		WeeklySummary:      true,
		IsActive:           true,
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// GetUserByEmail retrieves an active user by email
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(email)), true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// VerifyPassword checks if the provided password matches the stored hash.
// Users created through Google sign-in have no password and never match.
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	if user.Password == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	return err == nil
}

// AttemptLogin verifies credentials and tracks failed attempts. After
// maxFailedLoginAttempts consecutive failures the account is locked for
// lockoutDuration.
func (s *userService) AttemptLogin(email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	now := time.Now()
	if user.LockedUntil != nil && user.LockedUntil.After(now) {
		return nil, apperrors.ErrAccountLocked
	}

	if !s.VerifyPassword(user, password) {
		updates := map[string]interface{}{"failed_login_attempts": user.FailedLoginAttempts + 1}
		if user.FailedLoginAttempts+1 >= maxFailedLoginAttempts {
			updates["locked_until"] = now.Add(lockoutDuration)
		}
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.db.Model(user).Updates(map[string]interface{}{
		"failed_login_attempts": 0,
		"locked_until":          nil,
		"last_login_at":         now,
	}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now

	return user, nil
}

// StoreRefreshTokenHash saves the hash of the user's current refresh token.
func (s *userService) StoreRefreshTokenHash(userID, tokenHash string) error {
	result := s.db.Model(&models.User{}).Where("id = ?", userID).Update("refresh_token_hash", tokenHash)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// GetRefreshTokenHash returns the stored refresh token hash.
func (s *userService) GetRefreshTokenHash(userID string) (string, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return "", err
	}
	return user.RefreshTokenHash, nil
}

// UpdateProfile applies the supplied profile fields.
func (s *userService) UpdateProfile(userID string, update ProfileUpdate) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Name != nil {
		updates["name"] = strings.TrimSpace(*update.Name)
	}
	if update.PreferredCurrency != nil {
		updates["preferred_currency"] = strings.ToUpper(*update.PreferredCurrency)
	}
	if update.WeeklySummary != nil {
		updates["weekly_summary"] = *update.WeeklySummary
	}
	if len(updates) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "No valid fields provided for update.")
	}

	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetUserByID(userID)
}

// FindOrCreateGoogleUser resolves a Google account to a user. An existing
// user with the same email is linked to the Google id. The boolean result
// reports whether a new user was created.
func (s *userService) FindOrCreateGoogleUser(googleID, email, name string) (*models.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if googleID == "" || email == "" {
		return nil, false, apperrors.ErrOAuthFailed
	}

	var user models.User
	err := s.db.Where("google_id = ?", googleID).First(&user).Error
	if err == nil {
		return &user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	err = s.db.Where("email = ?", email).First(&user).Error
	if err == nil {
		if err := s.db.Model(&user).Update("google_id", googleID).Error; err != nil {
			return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		user.GoogleID = &googleID
		return &user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	created := &models.User{
		Email:              email,
		Name:               strings.TrimSpace(name),
		GoogleID:           &googleID,
		Role:               models.RoleUser,
		SubscriptionStatus: models.SubscriptionFree,
		PreferredCurrency:  "USD",
		WeeklySummary:      true,
		IsActive:           true,
	}
	if err := s.db.Create(created).Error; err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return created, true, nil
}

// SetSubscription records a subscription change coming from the payment provider.
func (s *userService) SetSubscription(userID string, status models.SubscriptionStatus, expiresAt *time.Time) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(user).Updates(map[string]interface{}{
		"subscription_status":     status,
		"subscription_expires_at": expiresAt,
	}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	user.SubscriptionStatus = status
	user.SubscriptionExpiresAt = expiresAt
	return user, nil
}

// ListSummaryRecipients returns the active users opted in to weekly summaries.
func (s *userService) ListSummaryRecipients() ([]models.User, error) {
	var users []models.User
	if err := s.db.Where("is_active = ? AND weekly_summary = ?", true, true).
		Order("created_at").Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return users, nil
}
