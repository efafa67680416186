package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"fincheck/internal/logger"
	"fincheck/internal/models"
)

// Audit actions recorded by the handlers.
const (
	AuditRegister            = "REGISTER"
	AuditLogin               = "LOGIN"
	AuditLoginGoogle         = "LOGIN_GOOGLE"
	AuditUpdateProfile       = "UPDATE_PROFILE"
	AuditCreateCategory      = "CREATE_CATEGORY"
	AuditUpdateCategory      = "UPDATE_CATEGORY"
	AuditOverrideCategory    = "OVERRIDE_CATEGORY"
	AuditDeleteCategory      = "DELETE_CATEGORY"
	AuditRestoreCategory     = "RESTORE_CATEGORY"
	AuditSeedCategories      = "SEED_CATEGORIES"
	AuditUpsertFinance       = "UPSERT_FINANCE"
	AuditDeleteFinance       = "DELETE_FINANCE"
	AuditAddTransaction      = "ADD_TRANSACTION"
	AuditUpdateTransaction   = "UPDATE_TRANSACTION"
	AuditDeleteTransaction   = "DELETE_TRANSACTION"
	AuditDeleteBudgetItem    = "DELETE_BUDGET_ITEM"
	AuditSeedFinances        = "SEED_FINANCES"
	AuditSubscriptionChanged = "SUBSCRIPTION_CHANGED"
)

// auditService handles audit log recording.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

func encodeChanges(changes map[string]interface{}) (string, error) {
	if len(changes) == 0 {
		return "", nil
	}
	data, err := json.Marshal(changes)
	if err != nil {
		return "{}", err
	}
	return string(data), nil
}

// Log records an audit event. Failures are logged and swallowed.
func (s *auditService) Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
	log := logger.Named("audit")

	encoded, err := encodeChanges(changes)
	if err != nil {
		log.Errorw("failed to marshal audit log changes", "error", err, "action", action)
	}

	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      encoded,
	}
	if err := s.db.Create(entry).Error; err != nil {
		log.Errorw("failed to create audit log entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}
