package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fincheck/internal/finance"
	"fincheck/internal/models"
	"fincheck/internal/services"
)

// Default report windows in days.
const (
	defaultTrendDays       = 365
	defaultBreakdownDays   = 90
	defaultTopDays         = 365
	defaultTransactionDays = 30
	defaultTopLimit        = 3
)

// ReportHandler serves period comparisons, trends and transaction reports.
type ReportHandler struct {
	reportService services.ReportServicer
	clock         clock
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ComparePeriods compares this month or year with the previous one
// @Summary     Compare periods
// @Description Per-field change between the current and previous month or year. Missing data is flagged, not an error.
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       periodType query string true "month or year"
// @Success     200 {object} services.PeriodComparison "Comparison"
// @Failure     400 {object} ErrorResponse "Invalid period type"
// @Router      /finances/compare [get]
func (h *ReportHandler) ComparePeriods(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.reportService.ComparePeriods(userID, finance.PeriodType(c.Query("periodType")), h.clock.now())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetMonthlyTrends returns income and expenses bucketed over time
// @Summary     Income and expense trends
// @Description Daily buckets up to 90 days, monthly beyond. Free plans only see the current month.
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "currentMonth"
// @Param       days   query int    false "Trailing window in days (default 365)"
// @Success     200 {object} services.TrendReport "Trend series"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /finances/trends [get]
func (h *ReportHandler) GetMonthlyTrends(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	from, to, err := reportWindow(c, defaultTrendDays, h.clock.now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.reportService.GetMonthlyTrends(userID, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetCategoryBreakdown totals expenses per category
// @Summary     Category breakdown
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "currentMonth"
// @Param       days   query int    false "Trailing window in days (default 90)"
// @Success     200 {object} services.CategoryBreakdownReport "Expenses per category"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /finances/reports/category-breakdown [get]
func (h *ReportHandler) GetCategoryBreakdown(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	from, to, err := reportWindow(c, defaultBreakdownDays, h.clock.now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.reportService.GetCategoryBreakdown(userID, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetTopTransactions returns the largest transactions of a type
// @Summary     Top transactions
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "currentMonth"
// @Param       days   query int    false "Trailing window in days (default 365)"
// @Param       limit  query int    false "Number of transactions (default 3)"
// @Param       type   query string false "income, expense or excludedExpense (default expense)"
// @Success     200 {array}  finance.ReportTransaction "Largest transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /finances/reports/top-transactions [get]
func (h *ReportHandler) GetTopTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	from, to, err := reportWindow(c, defaultTopDays, h.clock.now())
	if err != nil {
		respondWithError(c, err)
		return
	}
	limit, err := queryInt(c, "limit", defaultTopLimit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	txs, err := h.reportService.GetTopTransactions(userID, from, to, models.TransactionType(c.Query("type")), limit)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": len(txs), "transactions": nonNilReport(txs)})
}

// GetTransactionsReport lists every transaction of the window
// @Summary     Transactions report
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       period   query string false "currentMonth"
// @Param       days     query int    false "Trailing window in days (default 30)"
// @Param       category query string false "Category filter"
// @Success     200 {array}  finance.ReportTransaction "Transactions, newest first"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /finances/reports/all-transactions [get]
func (h *ReportHandler) GetTransactionsReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	from, to, err := reportWindow(c, defaultTransactionDays, h.clock.now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	txs, err := h.reportService.GetTransactionsReport(userID, from, to, c.Query("category"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": len(txs), "transactions": nonNilReport(txs)})
}

func nonNilReport(txs []finance.ReportTransaction) []finance.ReportTransaction {
	if txs == nil {
		return []finance.ReportTransaction{}
	}
	return txs
}
