package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "fincheck/internal/errors"
	"fincheck/internal/models"
	"fincheck/internal/services"
)

const (
	globalFoodID = "0190a0a0-0000-7000-8000-0000000000f1"
	overrideID   = "0190a0a0-0000-7000-8000-0000000000c1"
)

func setupCategoryRouter(svc *mockCategoryService, audit *mockAuditService) *gin.Engine {
	h := NewCategoryHandler(svc, audit)
	r := gin.New()
	g := r.Group("/categories", injectUserID(testUserID))
	g.GET("", h.GetCategories)
	g.POST("", h.CreateCategory)
	g.GET("/global-defaults", h.GetGlobalDefaults)
	g.POST("/global-defaults", h.SeedGlobalDefaults)
	g.GET("/custom", h.GetCustomCategories)
	g.POST("/override/:globalCategoryId", h.OverrideGlobalDefault)
	g.PATCH("/:id", h.UpdateCategory)
	g.DELETE("/:id", h.DeleteCategory)
	g.PATCH("/:id/restore-to-global", h.RestoreToGlobalDefault)
	return r
}

func category(id, name string) models.Category {
	c := models.Category{Name: name, IsActive: true}
	c.ID = id
	return c
}

func TestGetCategories(t *testing.T) {
	t.Run("returns the resolved list with a count", func(t *testing.T) {
		svc := &mockCategoryService{
			getCategoriesForUserFn: func(userID string) ([]models.Category, error) {
				if userID != testUserID {
					t.Errorf("unexpected user %s", userID)
				}
				return []models.Category{category(globalFoodID, "Food"), category(overrideID, "Rent")}, nil
			},
		}
		r := setupCategoryRouter(svc, &mockAuditService{})

		rec := doRequest(r, http.MethodGet, "/categories", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["results"] != float64(2) {
			t.Errorf("expected 2 results, got %v", result["results"])
		}
	})

	t.Run("returns an empty array rather than null", func(t *testing.T) {
		r := setupCategoryRouter(&mockCategoryService{}, &mockAuditService{})

		rec := doRequest(r, http.MethodGet, "/categories/custom", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if cats, ok := parseJSON(t, rec)["categories"].([]interface{}); !ok || len(cats) != 0 {
			t.Errorf("expected empty array, got %v", parseJSON(t, rec)["categories"])
		}
	})

	t.Run("lists global defaults", func(t *testing.T) {
		svc := &mockCategoryService{
			getGlobalDefaultsFn: func() ([]models.Category, error) {
				return []models.Category{category(globalFoodID, "Food")}, nil
			},
		}
		r := setupCategoryRouter(svc, &mockAuditService{})

		rec := doRequest(r, http.MethodGet, "/categories/global-defaults", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}

func TestSeedGlobalDefaults(t *testing.T) {
	svc := &mockCategoryService{seedGlobalDefaultsFn: func() (int, error) { return 16, nil }}
	audit := &mockAuditService{}
	r := setupCategoryRouter(svc, audit)

	rec := doRequest(r, http.MethodPost, "/categories/global-defaults", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if parseJSON(t, rec)["created"] != float64(16) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
	if actions := audit.actions(); len(actions) != 1 || actions[0] != "SEED_CATEGORIES" {
		t.Errorf("expected SEED_CATEGORIES audit, got %v", actions)
	}
}

func TestCreateCategory(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockCategoryService{
			createCategoryFn: func(userID, name, description string) (*models.Category, error) {
				if name != "Pets" || description != "Vet and food" {
					t.Errorf("unexpected args: %s %s", name, description)
				}
				c := category(overrideID, name)
				return &c, nil
			},
		}
		audit := &mockAuditService{}
		r := setupCategoryRouter(svc, audit)

		rec := doRequest(r, http.MethodPost, "/categories", `{"name":"Pets","description":"Vet and food"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		cat := parseJSON(t, rec)["category"].(map[string]interface{})
		if cat["name"] != "Pets" {
			t.Errorf("unexpected category: %v", cat)
		}
		if actions := audit.actions(); len(actions) != 1 || actions[0] != "CREATE_CATEGORY" {
			t.Errorf("expected CREATE_CATEGORY audit, got %v", actions)
		}
	})

	t.Run("returns 400 when name is missing", func(t *testing.T) {
		r := setupCategoryRouter(&mockCategoryService{}, &mockAuditService{})

		rec := doRequest(r, http.MethodPost, "/categories", `{"description":"x"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 409 for a duplicate name", func(t *testing.T) {
		svc := &mockCategoryService{
			createCategoryFn: func(_, _, _ string) (*models.Category, error) {
				return nil, apperrors.ErrDuplicateCategoryName
			},
		}
		r := setupCategoryRouter(svc, &mockAuditService{})

		rec := doRequest(r, http.MethodPost, "/categories", `{"name":"Food"}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_CATEGORY_NAME")
	})
}

func TestUpdateCategory(t *testing.T) {
	t.Run("audits an edit of an owned category as an update", func(t *testing.T) {
		svc := &mockCategoryService{
			updateCategoryFn: func(_, categoryID string, fields services.CategoryFields) (*models.Category, error) {
				if fields.Name == nil || *fields.Name != "Groceries" || fields.Description != nil {
					t.Errorf("unexpected fields: %+v", fields)
				}
				c := category(categoryID, *fields.Name)
				return &c, nil
			},
		}
		audit := &mockAuditService{}
		r := setupCategoryRouter(svc, audit)

		rec := doRequest(r, http.MethodPatch, "/categories/"+overrideID, `{"name":"Groceries"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if actions := audit.actions(); len(actions) != 1 || actions[0] != "UPDATE_CATEGORY" {
			t.Errorf("expected UPDATE_CATEGORY audit, got %v", actions)
		}
	})

	t.Run("audits an edit of a global default as an override", func(t *testing.T) {
		svc := &mockCategoryService{
			updateCategoryFn: func(_, _ string, fields services.CategoryFields) (*models.Category, error) {
				c := category(overrideID, "Groceries")
				global := globalFoodID
				c.OverridesGlobalDefault = &global
				return &c, nil
			},
		}
		audit := &mockAuditService{}
		r := setupCategoryRouter(svc, audit)

		rec := doRequest(r, http.MethodPatch, "/categories/"+globalFoodID, `{"name":"Groceries"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		cat := parseJSON(t, rec)["category"].(map[string]interface{})
		if cat["id"] != overrideID || cat["overrides_global_default"] != globalFoodID {
			t.Errorf("unexpected category: %v", cat)
		}
		if actions := audit.actions(); len(actions) != 1 || actions[0] != "OVERRIDE_CATEGORY" {
			t.Errorf("expected OVERRIDE_CATEGORY audit, got %v", actions)
		}
	})

	t.Run("returns 400 for an invalid id", func(t *testing.T) {
		r := setupCategoryRouter(&mockCategoryService{}, &mockAuditService{})

		rec := doRequest(r, http.MethodPatch, "/categories/not-a-uuid", `{"name":"x"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 404 when the category is not visible", func(t *testing.T) {
		svc := &mockCategoryService{
			updateCategoryFn: func(_, _ string, _ services.CategoryFields) (*models.Category, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		r := setupCategoryRouter(svc, &mockAuditService{})

		rec := doRequest(r, http.MethodPatch, "/categories/"+overrideID, `{"name":"x"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestOverrideGlobalDefault(t *testing.T) {
	t.Run("accepts an empty body", func(t *testing.T) {
		svc := &mockCategoryService{
			overrideGlobalDefaultFn: func(_, globalID string, fields services.CategoryFields) (*models.Category, error) {
				if globalID != globalFoodID {
					t.Errorf("unexpected global id %s", globalID)
				}
				if fields.Name != nil || fields.Description != nil {
					t.Errorf("expected no fields, got %+v", fields)
				}
				c := category(overrideID, "Food")
				return &c, nil
			},
		}
		r := setupCategoryRouter(svc, &mockAuditService{})

		rec := doRequest(r, http.MethodPost, "/categories/override/"+globalFoodID, "")
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 409 when already overridden", func(t *testing.T) {
		svc := &mockCategoryService{
			overrideGlobalDefaultFn: func(_, _ string, _ services.CategoryFields) (*models.Category, error) {
				return nil, apperrors.ErrAlreadyOverridden
			},
		}
		r := setupCategoryRouter(svc, &mockAuditService{})

		rec := doRequest(r, http.MethodPost, "/categories/override/"+globalFoodID, `{"name":"Meals"}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ALREADY_OVERRIDDEN")
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("returns the hidden category", func(t *testing.T) {
		svc := &mockCategoryService{
			deleteCategoryFn: func(_, categoryID string) (*models.Category, error) {
				c := category(overrideID, "Food")
				c.IsActive = false
				global := categoryID
				c.OverridesGlobalDefault = &global
				return &c, nil
			},
		}
		audit := &mockAuditService{}
		r := setupCategoryRouter(svc, audit)

		rec := doRequest(r, http.MethodDelete, "/categories/"+globalFoodID, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		cat := parseJSON(t, rec)["category"].(map[string]interface{})
		if cat["is_active"] != false {
			t.Errorf("expected inactive category, got %v", cat)
		}
		if actions := audit.actions(); len(actions) != 1 || actions[0] != "DELETE_CATEGORY" {
			t.Errorf("expected DELETE_CATEGORY audit, got %v", actions)
		}
	})

	t.Run("returns 404 for an unknown category", func(t *testing.T) {
		svc := &mockCategoryService{
			deleteCategoryFn: func(_, _ string) (*models.Category, error) { return nil, apperrors.ErrCategoryNotFound },
		}
		r := setupCategoryRouter(svc, &mockAuditService{})

		rec := doRequest(r, http.MethodDelete, "/categories/"+overrideID, "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestRestoreToGlobalDefault(t *testing.T) {
	t.Run("returns the global default", func(t *testing.T) {
		svc := &mockCategoryService{
			restoreToGlobalDefaultFn: func(_, categoryID string) (*models.Category, error) {
				if categoryID != overrideID {
					t.Errorf("unexpected id %s", categoryID)
				}
				c := category(globalFoodID, "Food")
				c.IsGlobalDefault = true
				return &c, nil
			},
		}
		audit := &mockAuditService{}
		r := setupCategoryRouter(svc, audit)

		rec := doRequest(r, http.MethodPatch, "/categories/"+overrideID+"/restore-to-global", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		cat := parseJSON(t, rec)["category"].(map[string]interface{})
		if cat["id"] != globalFoodID || cat["is_global_default"] != true {
			t.Errorf("unexpected category: %v", cat)
		}
		if actions := audit.actions(); len(actions) != 1 || actions[0] != "RESTORE_CATEGORY" {
			t.Errorf("expected RESTORE_CATEGORY audit, got %v", actions)
		}
	})

	t.Run("returns 400 for a category that is not an override", func(t *testing.T) {
		svc := &mockCategoryService{
			restoreToGlobalDefaultFn: func(_, _ string) (*models.Category, error) { return nil, apperrors.ErrNotAnOverride },
		}
		r := setupCategoryRouter(svc, &mockAuditService{})

		rec := doRequest(r, http.MethodPatch, "/categories/"+overrideID+"/restore-to-global", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NOT_AN_OVERRIDE")
	})
}
