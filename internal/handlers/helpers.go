package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fincheck/internal/errors"
	"fincheck/internal/logger"
	"fincheck/internal/middleware"
	"fincheck/internal/uuid"
)

// clock is overridden in tests.
type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}

// parsePathID validates a UUID path parameter.
func parsePathID(c *gin.Context, param string) (string, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// parseMonthYear reads the :month and :year path parameters. Range checks
// are left to the service.
func parseMonthYear(c *gin.Context) (int, int, error) {
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		return 0, 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be a number between 0 and 11")
	}
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return 0, 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "year must be a number")
	}
	return month, year, nil
}

// queryInt reads a positive integer query parameter, returning def when it
// is absent.
func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, name+" must be a positive integer")
	}
	return n, nil
}

// reportWindow resolves the report range from the query: period=currentMonth
// covers the first of the month up to now, otherwise the trailing days
// (defaultDays when absent).
func reportWindow(c *gin.Context, defaultDays int, now time.Time) (time.Time, time.Time, error) {
	if c.Query("period") == middleware.CurrentMonthPeriod {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), now, nil
	}
	days, err := queryInt(c, "days", defaultDays)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return now.AddDate(0, 0, -days), now, nil
}

// bindError turns a binding failure into an INVALID_INPUT error.
func bindError(err error) error {
	return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, errorResponse(appErr))
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, errorResponse(apperrors.ErrInternalServer))
}

func errorResponse(appErr *apperrors.AppError) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: appErr.Code, Message: appErr.Message}}
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
