package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fincheck/internal/errors"
	"fincheck/internal/finance"
	"fincheck/internal/models"
	"fincheck/internal/services"
)

func setupUserRouter(userSvc *mockUserService, financeSvc *mockFinanceService, audit *mockAuditService) *gin.Engine {
	h := NewUserHandler(userSvc, financeSvc, audit)
	h.clock = fixedClock
	r := gin.New()
	g := r.Group("", injectUserID(testUserID))
	g.GET("/users/me", h.GetMe)
	g.PATCH("/users/me", h.UpdateMe)
	return r
}

func TestGetMe(t *testing.T) {
	t.Run("returns the profile and dashboard", func(t *testing.T) {
		financeSvc := &mockFinanceService{
			getDashboardMetricsFn: func(userID string, now time.Time) (*services.DashboardMetrics, error) {
				if !now.Equal(fixedNow) {
					t.Errorf("expected the handler clock, got %v", now)
				}
				return &services.DashboardMetrics{
					Month: 2, Year: 2026, HasData: true,
					Summary: finance.Summary{IncomeTotal: decimal.NewFromInt(3000)},
				}, nil
			},
			getRecentTransactionsFn: func(userID string, limit int) ([]models.FinanceTransaction, error) {
				if limit != 5 {
					t.Errorf("expected limit 5, got %d", limit)
				}
				return []models.FinanceTransaction{{Description: "Rent"}}, nil
			},
		}
		userSvc := &mockUserService{getUserByIDFn: func(string) (*models.User, error) { return testUser(), nil }}
		r := setupUserRouter(userSvc, financeSvc, &mockAuditService{})

		rec := doRequest(r, http.MethodGet, "/users/me", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		user := result["user"].(map[string]interface{})
		if user["email"] != "jane@example.com" {
			t.Errorf("unexpected user: %v", user)
		}
		dashboard := result["dashboard"].(map[string]interface{})
		metrics := dashboard["metrics"].(map[string]interface{})
		if metrics["has_data"] != true || metrics["income_total"] != "3000" {
			t.Errorf("unexpected metrics: %v", metrics)
		}
		if recent := dashboard["recent_transactions"].([]interface{}); len(recent) != 1 {
			t.Errorf("expected 1 recent transaction, got %d", len(recent))
		}
	})

	t.Run("returns an empty list when there are no transactions", func(t *testing.T) {
		r := setupUserRouter(&mockUserService{}, &mockFinanceService{}, &mockAuditService{})

		rec := doRequest(r, http.MethodGet, "/users/me", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		dashboard := parseJSON(t, rec)["dashboard"].(map[string]interface{})
		if recent, ok := dashboard["recent_transactions"].([]interface{}); !ok || len(recent) != 0 {
			t.Errorf("expected empty array, got %v", dashboard["recent_transactions"])
		}
	})

	t.Run("returns 404 when the user is gone", func(t *testing.T) {
		userSvc := &mockUserService{getUserByIDFn: func(string) (*models.User, error) { return nil, apperrors.ErrUserNotFound }}
		r := setupUserRouter(userSvc, &mockFinanceService{}, &mockAuditService{})

		rec := doRequest(r, http.MethodGet, "/users/me", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestUpdateMe(t *testing.T) {
	t.Run("passes only the supplied fields", func(t *testing.T) {
		var got services.ProfileUpdate
		userSvc := &mockUserService{
			updateProfileFn: func(userID string, update services.ProfileUpdate) (*models.User, error) {
				got = update
				u := testUser()
				u.PreferredCurrency = "EUR"
				return u, nil
			},
		}
		audit := &mockAuditService{}
		r := setupUserRouter(userSvc, &mockFinanceService{}, audit)

		rec := doRequest(r, http.MethodPatch, "/users/me", `{"preferred_currency":"EUR"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.PreferredCurrency == nil || *got.PreferredCurrency != "EUR" {
			t.Errorf("expected currency EUR, got %v", got.PreferredCurrency)
		}
		if got.Name != nil || got.WeeklySummary != nil {
			t.Error("expected other fields to stay nil")
		}
		user := parseJSON(t, rec)["user"].(map[string]interface{})
		if user["preferred_currency"] != "EUR" {
			t.Errorf("unexpected user: %v", user)
		}
		if actions := audit.actions(); len(actions) != 1 || actions[0] != "UPDATE_PROFILE" {
			t.Errorf("expected UPDATE_PROFILE audit, got %v", actions)
		}
	})

	t.Run("returns 400 for an unknown currency", func(t *testing.T) {
		r := setupUserRouter(&mockUserService{}, &mockFinanceService{}, &mockAuditService{})

		rec := doRequest(r, http.MethodPatch, "/users/me", `{"preferred_currency":"XYZ"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 when nothing is supplied", func(t *testing.T) {
		userSvc := &mockUserService{
			updateProfileFn: func(string, services.ProfileUpdate) (*models.User, error) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "No valid fields provided for update.")
			},
		}
		r := setupUserRouter(userSvc, &mockFinanceService{}, &mockAuditService{})

		rec := doRequest(r, http.MethodPatch, "/users/me", `{}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
