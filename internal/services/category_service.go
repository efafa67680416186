package services

import (
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	apperrors "fincheck/internal/errors"
	"fincheck/internal/finance"
	"fincheck/internal/models"
)

// categoryService handles category resolution and edits.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// targetKind tells what an edit or delete addressed by category id acts on.
type targetKind int

const (
	// targetOwnCategory is an active category owned by the user, edited in place.
	targetOwnCategory targetKind = iota + 1
	// targetGlobalDefault is an active global default the user has not
	// overridden yet; edits create an override.
	targetGlobalDefault
)

type categoryTarget struct {
	kind     targetKind
	category *models.Category
}

// resolveTarget classifies categoryID for userID once per call.
func (s *categoryService) resolveTarget(userID, categoryID string) (*categoryTarget, error) {
	var category models.Category
	if err := s.db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	switch {
	case category.OwnedBy(userID) && category.IsActive:
		return &categoryTarget{kind: targetOwnCategory, category: &category}, nil
	case category.IsGlobalDefault && category.IsActive:
		exists, err := s.overrideExists(userID, category.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperrors.ErrAlreadyOverridden
		}
		return &categoryTarget{kind: targetGlobalDefault, category: &category}, nil
	default:
		return nil, apperrors.ErrCategoryNotFound
	}
}

// overrideExists reports whether the user has any override record, active or
// hidden, for the given global default.
func (s *categoryService) overrideExists(userID, globalID string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("user_id = ? AND overrides_global_default = ?", userID, globalID).
		Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

// nameTaken reports whether an active category of the user already uses name.
// excludeID skips the category being renamed.
func (s *categoryService) nameTaken(userID, name, excludeID string) (bool, error) {
	query := s.db.Model(&models.Category{}).
		Where("user_id = ? AND name = ? AND is_active = ?", userID, name, true)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

func validateCategoryFields(name, description string) error {
	if name == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if utf8.RuneCountInString(name) > models.CategoryNameMaxLen {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category name cannot exceed 50 characters")
	}
	if utf8.RuneCountInString(description) > models.CategoryDescriptionMaxLen {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category description cannot exceed 200 characters")
	}
	return nil
}

// GetCategoriesForUser returns the user's effective category list.
func (s *categoryService) GetCategoriesForUser(userID string) ([]models.Category, error) {
	globals, err := s.GetGlobalDefaults()
	if err != nil {
		return nil, err
	}

	// Hidden overrides are loaded too: they suppress their global default.
	var userCategories []models.Category
	if err := s.db.Where("user_id = ? AND (is_active = ? OR overrides_global_default IS NOT NULL)", userID, true).
		Find(&userCategories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return finance.EffectiveCategories(globals, userCategories), nil
}

// GetGlobalDefaults returns the active global default categories.
func (s *categoryService) GetGlobalDefaults() ([]models.Category, error) {
	var globals []models.Category
	if err := s.db.Where("is_global_default = ? AND is_active = ?", true, true).
		Find(&globals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	finance.SortCategories(globals)
	return globals, nil
}

// GetUserCustomCategories returns the user's own active categories, overrides included.
func (s *categoryService) GetUserCustomCategories(userID string) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Where("user_id = ? AND is_active = ?", userID, true).
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	finance.SortCategories(categories)
	return categories, nil
}

// CreateCategory creates a custom category for the user
func (s *categoryService) CreateCategory(userID, name, description string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if err := validateCategoryFields(name, description); err != nil {
		return nil, err
	}

	taken, err := s.nameTaken(userID, name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrDuplicateCategoryName
	}

	category := &models.Category{
		Name:        name,
		Description: description,
		UserID:      &userID,
		IsActive:    true,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// UpdateCategory edits an own category in place, or customizes a global
// default by creating an override for the user.
func (s *categoryService) UpdateCategory(userID, categoryID string, fields CategoryFields) (*models.Category, error) {
	target, err := s.resolveTarget(userID, categoryID)
	if err != nil {
		return nil, err
	}

	if target.kind == targetGlobalDefault {
		return s.createOverride(userID, target.category, fields)
	}

	category := target.category
	name := category.Name
	if fields.Name != nil && strings.TrimSpace(*fields.Name) != "" {
		name = strings.TrimSpace(*fields.Name)
	}
	description := category.Description
	if fields.Description != nil {
		description = strings.TrimSpace(*fields.Description)
	}
	if err := validateCategoryFields(name, description); err != nil {
		return nil, err
	}

	if name != category.Name {
		taken, err := s.nameTaken(userID, name, category.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.ErrDuplicateCategoryName
		}
	}

	if err := s.db.Model(category).Updates(map[string]interface{}{
		"name":        name,
		"description": description,
	}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	category.Name = name
	category.Description = description
	return category, nil
}

// OverrideGlobalDefault creates the user's customized version of a global default.
func (s *categoryService) OverrideGlobalDefault(userID, globalID string, fields CategoryFields) (*models.Category, error) {
	var global models.Category
	if err := s.db.Where("id = ? AND is_global_default = ? AND is_active = ?", globalID, true, true).
		First(&global).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrCategoryNotFound, "Global default category not found")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	exists, err := s.overrideExists(userID, global.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrAlreadyOverridden
	}

	return s.createOverride(userID, &global, fields)
}

// createOverride stores an active override seeded from fields, falling back
// to the global default's own values.
func (s *categoryService) createOverride(userID string, global *models.Category, fields CategoryFields) (*models.Category, error) {
	name := global.Name
	if fields.Name != nil && strings.TrimSpace(*fields.Name) != "" {
		name = strings.TrimSpace(*fields.Name)
	}
	description := global.Description
	if fields.Description != nil && strings.TrimSpace(*fields.Description) != "" {
		description = strings.TrimSpace(*fields.Description)
	}
	if err := validateCategoryFields(name, description); err != nil {
		return nil, err
	}

	taken, err := s.nameTaken(userID, name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrDuplicateCategoryName
	}

	globalID := global.ID
	override := &models.Category{
		Name:                   name,
		Description:            description,
		UserID:                 &userID,
		IsActive:               true,
		OverridesGlobalDefault: &globalID,
	}
	if err := s.db.Create(override).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return override, nil
}

// DeleteCategory soft-deletes an own category, or hides a global default by
// storing an inactive override. The affected record is returned.
func (s *categoryService) DeleteCategory(userID, categoryID string) (*models.Category, error) {
	target, err := s.resolveTarget(userID, categoryID)
	if err != nil {
		return nil, err
	}

	if target.kind == targetOwnCategory {
		if err := s.db.Model(target.category).Update("is_active", false).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		target.category.IsActive = false
		return target.category, nil
	}

	globalID := target.category.ID
	hidden := &models.Category{
		Name:                   target.category.Name,
		Description:            target.category.Description,
		UserID:                 &userID,
		IsActive:               true,
		OverridesGlobalDefault: &globalID,
	}
	// IsActive has a database default of true, so the hidden flag is written
	// after the insert inside the same transaction.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(hidden).Error; err != nil {
			return err
		}
		return tx.Model(hidden).Update("is_active", false).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	hidden.IsActive = false
	return hidden, nil
}

// RestoreToGlobalDefault removes a user's override, active or hidden, so the
// global default shows again. categoryID may be the override's id or the id
// of the global default it overrides. The restored global default is returned.
func (s *categoryService) RestoreToGlobalDefault(userID, categoryID string) (*models.Category, error) {
	var override models.Category
	err := s.db.Where("user_id = ? AND (id = ? OR overrides_global_default = ?)", userID, categoryID, categoryID).
		First(&override).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !override.IsOverride() {
		return nil, apperrors.ErrNotAnOverride
	}

	var global models.Category
	if err := s.db.Where("id = ?", *override.OverridesGlobalDefault).First(&global).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&override).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &global, nil
}

// SeedGlobalDefaults creates the missing global default categories and
// returns how many were added.
func (s *categoryService) SeedGlobalDefaults() (int, error) {
	var existing []string
	if err := s.db.Model(&models.Category{}).
		Where("is_global_default = ?", true).
		Pluck("name", &existing).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}

	var missing []models.Category
	for _, name := range finance.DefaultCategoryNames {
		if have[name] {
			continue
		}
		missing = append(missing, models.Category{
			Name:            name,
			Description:     "Default category: " + name,
			IsGlobalDefault: true,
			IsActive:        true,
		})
	}
	if len(missing) == 0 {
		return 0, nil
	}

	if err := s.db.Create(&missing).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return len(missing), nil
}

// NameIndex indexes every category a user's transactions may reference,
// inactive ones included.
func (s *categoryService) NameIndex(userID string) (finance.NameIndex, error) {
	var categories []models.Category
	if err := s.db.Where("is_global_default = ? OR user_id = ?", true, userID).
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return finance.NewNameIndex(categories), nil
}
