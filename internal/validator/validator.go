// Package validator registers the domain rules used in binding tags:
// currencies, transaction and period types, export options and decimal bounds.
package validator

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"fincheck/internal/export"
	"fincheck/internal/finance"
	"fincheck/internal/models"
)

// Register installs the rules on gin's validator. It is safe to call more
// than once.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("iso4217", validateISO4217)
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("period_type", validatePeriodType)
		_ = v.RegisterValidation("export_kind", validateExportKind)
		_ = v.RegisterValidation("export_format", validateExportFormat)
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	}
}

// validateISO4217 accepts three-letter ISO 4217 codes in either case.
func validateISO4217(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if len(code) != 3 {
		return false
	}
	_, err := currency.ParseISO(strings.ToUpper(code))
	return err == nil
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return models.TransactionType(fl.Field().String()).Valid()
}

func validatePeriodType(fl validator.FieldLevel) bool {
	return finance.PeriodType(fl.Field().String()).Valid()
}

func validateExportKind(fl validator.FieldLevel) bool {
	return export.Kind(fl.Field().String()).Valid()
}

func validateExportFormat(fl validator.FieldLevel) bool {
	return export.Format(fl.Field().String()).Valid()
}

// decimalValue lets numeric tags such as gte=0 apply to decimal amounts.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.InexactFloat64()
	}
	return nil
}
