package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fincheck/internal/errors"
	"fincheck/internal/models"
	"fincheck/internal/pagination"
	"fincheck/internal/services"
)

// FinanceHandler handles monthly finance documents and their line items.
type FinanceHandler struct {
	financeService services.FinanceServicer
	auditService   services.AuditServicer
	allowSeed      bool
	clock          clock
}

// NewFinanceHandler creates a new FinanceHandler. allowSeed enables the demo
// data endpoint.
func NewFinanceHandler(financeService services.FinanceServicer, auditService services.AuditServicer, allowSeed bool) *FinanceHandler {
	return &FinanceHandler{financeService: financeService, auditService: auditService, allowSeed: allowSeed}
}

// BudgetItemRequest is one line of the monthly budget.
type BudgetItemRequest struct {
	Category    string          `json:"category" binding:"required,max=100"`
	Amount      decimal.Decimal `json:"amount" binding:"gte=0"`
	IsRecurring *bool           `json:"is_recurring"`
}

// UpsertFinanceRequest replaces a month's budget and expected income. Month
// and year default to the current month.
type UpsertFinanceRequest struct {
	Month                 *int                `json:"month" binding:"omitempty,min=0,max=11"`
	Year                  *int                `json:"year" binding:"omitempty,min=1"`
	MonthlyBudget         []BudgetItemRequest `json:"monthly_budget" binding:"required,min=1,dive"`
	ExpectedMonthlyIncome decimal.Decimal     `json:"expected_monthly_income" binding:"gte=0"`
}

// CreateTransactionRequest represents a new transaction.
type CreateTransactionRequest struct {
	Description string                 `json:"description" binding:"required,max=200"`
	Amount      decimal.Decimal        `json:"amount" binding:"gte=0"`
	Category    string                 `json:"category" binding:"max=100"`
	Type        models.TransactionType `json:"type" binding:"omitempty,transaction_type"`
	Date        *time.Time             `json:"date"`
}

// UpdateTransactionRequest holds the transaction fields to change.
type UpdateTransactionRequest struct {
	Description *string                 `json:"description" binding:"omitempty,max=200"`
	Amount      *decimal.Decimal        `json:"amount" binding:"omitempty,gte=0"`
	Category    *string                 `json:"category" binding:"omitempty,max=100"`
	Type        *models.TransactionType `json:"type" binding:"omitempty,transaction_type"`
	Date        *time.Time              `json:"date"`
}

// UpsertMonthlyFinance creates or replaces a month's budget
// @Summary     Upsert monthly finances
// @Description Creates the month's document or replaces its budget and expected income. Transactions are kept.
// @Tags        finances
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpsertFinanceRequest true "Budget and income"
// @Success     200 {object} services.MonthlyFinanceDetail "Updated"
// @Success     201 {object} services.MonthlyFinanceDetail "Created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /finances [post]
func (h *FinanceHandler) UpsertMonthlyFinance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpsertFinanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	items := make([]services.BudgetItemInput, 0, len(req.MonthlyBudget))
	for _, item := range req.MonthlyBudget {
		items = append(items, services.BudgetItemInput{
			Category:    item.Category,
			Amount:      item.Amount,
			IsRecurring: item.IsRecurring,
		})
	}

	detail, created, err := h.financeService.Upsert(userID, services.UpsertInput{
		Month:                 req.Month,
		Year:                  req.Year,
		MonthlyBudget:         items,
		ExpectedMonthlyIncome: req.ExpectedMonthlyIncome,
		Now:                   h.clock.now(),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditUpsertFinance, "monthly_finance", detail.ID, c.ClientIP(),
		map[string]interface{}{
			"month":        detail.Month,
			"year":         detail.Year,
			"budget_items": len(items),
			"income":       req.ExpectedMonthlyIncome.String(),
		})

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"finance": detail})
}

// ListMonthlyFinances lists the user's months, newest first
// @Summary     List monthly finances
// @Tags        finances
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 12, max 100)"
// @Success     200 {object} pagination.PageResponse[services.MonthlyFinanceDetail] "Paginated months"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /finances [get]
func (h *FinanceHandler) ListMonthlyFinances(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.financeService.ListMonthlyFinances(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetMonthlyFinance returns one month with its derived metrics
// @Summary     Get monthly finances
// @Tags        finances
// @Produce     json
// @Security    BearerAuth
// @Param       month path int true "Month (0-11)"
// @Param       year  path int true "Year"
// @Success     200 {object} services.MonthlyFinanceDetail "Month with metrics"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     404 {object} ErrorResponse "No finances for this month"
// @Router      /finances/{month}/{year} [get]
func (h *FinanceHandler) GetMonthlyFinance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	month, year, err := parseMonthYear(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	detail, err := h.financeService.GetMonthlyFinance(userID, month, year)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"finance": detail})
}

// DeleteMonthlyFinance removes a month and everything in it
// @Summary     Delete monthly finances
// @Tags        finances
// @Security    BearerAuth
// @Param       month path int true "Month (0-11)"
// @Param       year  path int true "Year"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "No finances for this month"
// @Router      /finances/{month}/{year} [delete]
func (h *FinanceHandler) DeleteMonthlyFinance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	month, year, err := parseMonthYear(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.financeService.DeleteMonthlyFinance(userID, month, year); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDeleteFinance, "monthly_finance", "", c.ClientIP(),
		map[string]interface{}{"month": month, "year": year})
	c.Status(http.StatusNoContent)
}

// AddTransaction records a transaction in an existing month
// @Summary     Add a transaction
// @Tags        finances
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       month   path int                      true "Month (0-11)"
// @Param       year    path int                      true "Year"
// @Param       request body CreateTransactionRequest true "Transaction"
// @Success     201 {object} models.FinanceTransaction "Created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "No finances for this month"
// @Router      /finances/{month}/{year}/transactions [post]
func (h *FinanceHandler) AddTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	month, year, err := parseMonthYear(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	tx, err := h.financeService.AddTransaction(userID, month, year, services.TransactionInput{
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Type:        req.Type,
		Date:        req.Date,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditAddTransaction, "transaction", tx.ID, c.ClientIP(),
		map[string]interface{}{"amount": tx.Amount.String(), "type": tx.Type, "month": month, "year": year})
	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

// UpdateTransaction changes the supplied fields of a transaction
// @Summary     Update a transaction
// @Tags        finances
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       month         path int                      true "Month (0-11)"
// @Param       year          path int                      true "Year"
// @Param       transactionId path string                   true "Transaction ID"
// @Param       request       body UpdateTransactionRequest true "Fields to change"
// @Success     200 {object} models.FinanceTransaction "Updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Month or transaction not found"
// @Router      /finances/{month}/{year}/transactions/{transactionId} [patch]
func (h *FinanceHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	month, year, err := parseMonthYear(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	transactionID, err := parsePathID(c, "transactionId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	update := services.TransactionUpdate{
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Type:        req.Type,
		Date:        req.Date,
	}
	if update.IsEmpty() {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "No valid fields provided for update."))
		return
	}

	tx, err := h.financeService.UpdateTransaction(userID, month, year, transactionID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditUpdateTransaction, "transaction", tx.ID, c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// DeleteTransaction removes a transaction
// @Summary     Delete a transaction
// @Tags        finances
// @Security    BearerAuth
// @Param       month         path int    true "Month (0-11)"
// @Param       year          path int    true "Year"
// @Param       transactionId path string true "Transaction ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Month or transaction not found"
// @Router      /finances/{month}/{year}/transactions/{transactionId} [delete]
func (h *FinanceHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	month, year, err := parseMonthYear(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	transactionID, err := parsePathID(c, "transactionId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.financeService.DeleteTransaction(userID, month, year, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDeleteTransaction, "transaction", transactionID, c.ClientIP(), nil)
	c.Status(http.StatusNoContent)
}

// DeleteBudgetItem removes one budget line. The last line cannot be removed.
// @Summary     Delete a budget item
// @Tags        finances
// @Security    BearerAuth
// @Param       month        path int    true "Month (0-11)"
// @Param       year         path int    true "Year"
// @Param       budgetItemId path string true "Budget item ID"
// @Success     204 "Deleted"
// @Failure     400 {object} ErrorResponse "Last budget item"
// @Failure     404 {object} ErrorResponse "Month or budget item not found"
// @Router      /finances/{month}/{year}/budget/{budgetItemId} [delete]
func (h *FinanceHandler) DeleteBudgetItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	month, year, err := parseMonthYear(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	itemID, err := parsePathID(c, "budgetItemId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.financeService.DeleteBudgetItem(userID, month, year, itemID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDeleteBudgetItem, "budget_item", itemID, c.ClientIP(), nil)
	c.Status(http.StatusNoContent)
}

// SeedDemoData replaces the user's finances with twelve months of samples
// @Summary     Seed demo data
// @Description Development only. Deletes the user's months and generates the last twelve.
// @Tags        finances
// @Produce     json
// @Security    BearerAuth
// @Success     201 {object} map[string]int "Months created"
// @Failure     400 {object} ErrorResponse "Global categories missing"
// @Failure     404 {object} ErrorResponse "Disabled in production"
// @Router      /finances/seed-data [post]
func (h *FinanceHandler) SeedDemoData(c *gin.Context) {
	if !h.allowSeed {
		respondWithError(c, apperrors.ErrNotFound)
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	months, err := h.financeService.SeedDemoData(userID, h.clock.now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditSeedFinances, "monthly_finance", "", c.ClientIP(),
		map[string]interface{}{"months": months})
	c.JSON(http.StatusCreated, gin.H{"months": months})
}
