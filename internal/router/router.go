// Package router wires handlers and middleware into the HTTP API.
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"fincheck/internal/config"
	_ "fincheck/internal/docs" // registers the swagger document
	"fincheck/internal/handlers"
	"fincheck/internal/mailer"
	"fincheck/internal/middleware"
	"fincheck/internal/models"
	"fincheck/internal/services"
)

// Services bundles the business services behind the API.
type Services struct {
	Users      services.UserServicer
	Categories services.CategoryServicer
	Finances   services.FinanceServicer
	Reports    services.ReportServicer
	Exports    services.ExportServicer
	Summaries  services.SummaryServicer
	Audit      services.AuditServicer
}

// NewServices builds every service on top of db.
func NewServices(db *gorm.DB) Services {
	users := services.NewUserService(db)
	categories := services.NewCategoryService(db)
	finances := services.NewFinanceService(db)
	return Services{
		Users:      users,
		Categories: categories,
		Finances:   finances,
		Reports:    services.NewReportService(db, categories),
		Exports:    services.NewExportService(db, users, categories),
		Summaries:  services.NewSummaryService(db, users, finances),
		Audit:      services.NewAuditService(db),
	}
}

// New builds the Gin engine serving /api/v1.
func New(cfg *config.Config, svc Services, m mailer.Mailer) *gin.Engine {
	authHandler := handlers.NewAuthHandler(svc.Users, svc.Audit, m, cfg)
	userHandler := handlers.NewUserHandler(svc.Users, svc.Finances, svc.Audit)
	categoryHandler := handlers.NewCategoryHandler(svc.Categories, svc.Audit)
	financeHandler := handlers.NewFinanceHandler(svc.Finances, svc.Audit, cfg.Env != "production")
	reportHandler := handlers.NewReportHandler(svc.Reports)
	exportHandler := handlers.NewExportHandler(svc.Exports, cfg.ExportFontPath)
	paymentHandler := handlers.NewPaymentHandler(svc.Users, svc.Audit, cfg.CheckoutURL)

	router := gin.New()
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.GET("/google", authHandler.GoogleLogin)
	auth.GET("/google/callback", authHandler.GoogleCallback)

	v1.POST("/payments/webhook", middleware.WebhookAuth(cfg.WebhookSecret), paymentHandler.Webhook)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware())

	users := protected.Group("/users")
	users.GET("/me", userHandler.GetMe)
	users.PATCH("/me", userHandler.UpdateMe)

	categories := protected.Group("/categories")
	categories.GET("", categoryHandler.GetCategories)
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("/global-defaults", categoryHandler.GetGlobalDefaults)
	categories.POST("/global-defaults", middleware.RequireRole(models.RoleAdmin), categoryHandler.SeedGlobalDefaults)
	categories.GET("/custom", categoryHandler.GetCustomCategories)
	categories.POST("/override/:globalCategoryId", categoryHandler.OverrideGlobalDefault)
	categories.PATCH("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)
	categories.PATCH("/:id/restore-to-global", categoryHandler.RestoreToGlobalDefault)

	lookback := middleware.EnforceLookbackLimit(svc.Users, cfg.PremiumMaxLookbackDays)

	finances := protected.Group("/finances")
	finances.POST("", financeHandler.UpsertMonthlyFinance)
	finances.GET("", financeHandler.ListMonthlyFinances)
	finances.POST("/seed-data", financeHandler.SeedDemoData)
	finances.GET("/compare", reportHandler.ComparePeriods)
	finances.GET("/trends", lookback, reportHandler.GetMonthlyTrends)
	finances.GET("/reports/category-breakdown", lookback, reportHandler.GetCategoryBreakdown)
	finances.GET("/reports/top-transactions", lookback, reportHandler.GetTopTransactions)
	finances.GET("/reports/all-transactions", lookback, reportHandler.GetTransactionsReport)
	finances.GET("/:month/:year", financeHandler.GetMonthlyFinance)
	finances.DELETE("/:month/:year", financeHandler.DeleteMonthlyFinance)
	finances.POST("/:month/:year/transactions", financeHandler.AddTransaction)
	finances.PATCH("/:month/:year/transactions/:transactionId", financeHandler.UpdateTransaction)
	finances.DELETE("/:month/:year/transactions/:transactionId", financeHandler.DeleteTransaction)
	finances.DELETE("/:month/:year/budget/:budgetItemId", financeHandler.DeleteBudgetItem)

	protected.GET("/export", middleware.RequirePremium(svc.Users), exportHandler.Export)
	protected.POST("/payments/checkout", paymentHandler.CreateCheckout)

	return router
}
