package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fincheck/internal/config"
	"fincheck/internal/logger"
	"fincheck/internal/mailer"
	"fincheck/internal/testutil"
	"fincheck/internal/validator"
)

const testWebhookSecret = "whsec-test"

// testApp holds the full application stack for router tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
	config.Get().JWTSecret = "router-test-secret"
}

// setupApp creates the full stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	cfg := &config.Config{
		Env:                    "test",
		AppBaseURL:             "https://app.fincheck.test",
		CORSOrigins:            []string{"https://app.fincheck.test"},
		WebhookSecret:          testWebhookSecret,
		CheckoutURL:            "https://pay.example.com/c/fincheck",
		PremiumMaxLookbackDays: 365,
	}
	svc := NewServices(db)
	return &testApp{DB: db, Router: New(cfg, svc, mailer.NewLogMailer(logger.Get()))}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	headers := map[string]string{}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return app.requestWithHeaders(method, path, body, headers)
}

func (app *testApp) requestWithHeaders(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error body, got %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"name":"Test User"}`, email, password)
	rec := app.request(http.MethodPost, "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), result["refresh_token"].(string), user["id"].(string)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request(http.MethodPost, "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["access_token"].(string), result["refresh_token"].(string)
}
