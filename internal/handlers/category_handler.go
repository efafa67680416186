package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fincheck/internal/models"
	"fincheck/internal/services"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categoryService services.CategoryServicer
	auditService    services.AuditServicer
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService services.CategoryServicer, auditService services.AuditServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, auditService: auditService}
}

// CreateCategoryRequest represents the request payload for creating a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=50"`
	Description string `json:"description" binding:"max=200"`
}

// CategoryFieldsRequest represents the editable fields of a category. Omitted
// fields keep their value, or the global default's value for a new override.
type CategoryFieldsRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=50"`
	Description *string `json:"description" binding:"omitempty,max=200"`
}

func (r CategoryFieldsRequest) fields() services.CategoryFields {
	return services.CategoryFields{Name: r.Name, Description: r.Description}
}

func (r CategoryFieldsRequest) changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if r.Name != nil {
		changes["name"] = *r.Name
	}
	if r.Description != nil {
		changes["description"] = *r.Description
	}
	return changes
}

// CategoryListResponse wraps a list of categories.
type CategoryListResponse struct {
	Results    int               `json:"results"`
	Categories []models.Category `json:"categories"`
}

func newCategoryList(categories []models.Category) CategoryListResponse {
	if categories == nil {
		categories = []models.Category{}
	}
	return CategoryListResponse{Results: len(categories), Categories: categories}
}

// GetCategories returns the categories visible to the user
// @Summary     List categories
// @Description Global defaults (minus the ones the user overrode or hid) followed by the user's own categories
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} CategoryListResponse "Effective categories"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.categoryService.GetCategoriesForUser(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCategoryList(categories))
}

// GetGlobalDefaults lists the active global default categories
// @Summary     List global defaults
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} CategoryListResponse "Global defaults"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /categories/global-defaults [get]
func (h *CategoryHandler) GetGlobalDefaults(c *gin.Context) {
	categories, err := h.categoryService.GetGlobalDefaults()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCategoryList(categories))
}

// GetCustomCategories lists the user's own active categories and overrides
// @Summary     List custom categories
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} CategoryListResponse "Custom categories"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /categories/custom [get]
func (h *CategoryHandler) GetCustomCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.categoryService.GetUserCustomCategories(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCategoryList(categories))
}

// SeedGlobalDefaults creates the missing global default categories
// @Summary     Seed global defaults
// @Description Admin only. Idempotent.
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Success     201 {object} map[string]int "Number of categories created"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Router      /categories/global-defaults [post]
func (h *CategoryHandler) SeedGlobalDefaults(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	created, err := h.categoryService.SeedGlobalDefaults()
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditSeedCategories, "category", "", c.ClientIP(),
		map[string]interface{}{"created": created})
	c.JSON(http.StatusCreated, gin.H{"created": created})
}

// CreateCategory handles the creation of a new category
// @Summary     Create a category
// @Description Create a custom category. Names must be unique among the user's active categories.
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCategoryRequest true "Category details"
// @Success     201 {object} models.Category "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	category, err := h.categoryService.CreateCategory(userID, req.Name, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditCreateCategory, "category", category.ID, c.ClientIP(),
		map[string]interface{}{"name": category.Name})
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// UpdateCategory edits a category, overriding a global default on first edit
// @Summary     Update a category
// @Description Edits the user's own category, or creates an override when the id is a global default
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Category ID"
// @Param       request body CategoryFieldsRequest true "Fields to change"
// @Success     200 {object} models.Category "Updated category or new override"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Duplicate name or already overridden"
// @Router      /categories/{id} [patch]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategoryFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	category, err := h.categoryService.UpdateCategory(userID, categoryID, req.fields())
	if err != nil {
		respondWithError(c, err)
		return
	}

	action := services.AuditUpdateCategory
	if category.ID != categoryID {
		action = services.AuditOverrideCategory
	}
	h.auditService.Log(userID, action, "category", category.ID, c.ClientIP(), req.changes())
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// OverrideGlobalDefault creates a personal copy of a global default
// @Summary     Override a global default
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       globalCategoryId path string                true "Global default ID"
// @Param       request          body CategoryFieldsRequest true "Override fields"
// @Success     201 {object} models.Category "Override created"
// @Failure     404 {object} ErrorResponse "Global default not found"
// @Failure     409 {object} ErrorResponse "Already overridden"
// @Router      /categories/override/{globalCategoryId} [post]
func (h *CategoryHandler) OverrideGlobalDefault(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	globalID, err := parsePathID(c, "globalCategoryId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategoryFieldsRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, bindError(err))
			return
		}
	}

	category, err := h.categoryService.OverrideGlobalDefault(userID, globalID, req.fields())
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes := req.changes()
	changes["overrides"] = globalID
	h.auditService.Log(userID, services.AuditOverrideCategory, "category", category.ID, c.ClientIP(), changes)
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// DeleteCategory removes a custom category or hides a global default
// @Summary     Delete a category
// @Description Deactivates the user's own category, or hides a global default for this user
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     200 {object} models.Category "Deactivated category or hiding override"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Already overridden"
// @Router      /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.DeleteCategory(userID, categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDeleteCategory, "category", categoryID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// RestoreToGlobalDefault drops the user's override of a global default
// @Summary     Restore a global default
// @Description Accepts the override id or the id of the global default it overrides
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Override or global default ID"
// @Success     200 {object} models.Category "Restored global default"
// @Failure     400 {object} ErrorResponse "Not an override"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /categories/{id}/restore-to-global [patch]
func (h *CategoryHandler) RestoreToGlobalDefault(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	global, err := h.categoryService.RestoreToGlobalDefault(userID, categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditRestoreCategory, "category", global.ID, c.ClientIP(),
		map[string]interface{}{"requested_id": categoryID})
	c.JSON(http.StatusOK, gin.H{"category": global})
}
