package models

// Category limits.
const (
	CategoryNameMaxLen        = 50
	CategoryDescriptionMaxLen = 200
)

// Category is either a global default (UserID nil) shared by every user, or a
// user-owned category. A user-owned category with OverridesGlobalDefault set
// replaces that global default for its owner; when it is also inactive it
// hides the global default instead.
type Category struct {
	Record
	Name                   string  `gorm:"size:50;not null" json:"name"`
	Description            string  `gorm:"size:200" json:"description"`
	IsGlobalDefault        bool    `gorm:"not null;default:false;index" json:"is_global_default"`
	UserID                 *string `gorm:"type:uuid;index;uniqueIndex:idx_category_user_override" json:"user_id,omitempty"`
	IsActive               bool    `gorm:"not null;default:true" json:"is_active"`
	OverridesGlobalDefault *string `gorm:"type:uuid;uniqueIndex:idx_category_user_override" json:"overrides_global_default,omitempty"`
}

// IsOverride reports whether the category replaces or hides a global default.
func (c *Category) IsOverride() bool {
	return c.OverridesGlobalDefault != nil && *c.OverridesGlobalDefault != ""
}

// OwnedBy reports whether the category belongs to the given user.
func (c *Category) OwnedBy(userID string) bool {
	return c.UserID != nil && *c.UserID == userID
}
