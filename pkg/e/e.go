package e

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// Внутренние ошибки
	ErrTransactionNotFound = fmt.Errorf("transaction not found")
	ErrConsistencyFault    = fmt.Errorf("consistency fault: stock commit and status flip diverged")
	ErrInternalServerError = fmt.Errorf("internal server error")

	// 400 Bad Request
	ErrStatusBadRequest        = fmt.Errorf("bad request")
	ErrValidation              = fmt.Errorf("validation failed")
	ErrInvalidID               = fmt.Errorf("invalid id")
	ErrInvalidAmountFormat     = fmt.Errorf("invalid amount format")
	ErrAmountMustBePositive    = fmt.Errorf("amount must be positive")
	ErrInvalidInstallmentCount = fmt.Errorf("invalid installment count")
	ErrInvalidPaymentMethod    = fmt.Errorf("invalid payment method")
	ErrInvalidPaymentType      = fmt.Errorf("invalid payment type")
	ErrExpectedMultipart       = fmt.Errorf("expected multipart/form-data")
	ErrNoImages                = fmt.Errorf("no image provided")
	ErrFileTooLarge            = fmt.Errorf("file too large")
	ErrUnsupportedMediaType    = fmt.Errorf("unsupported media type")

	// 404 Not Found
	ErrNotFound            = fmt.Errorf("not found")
	ErrUnknownSearchTarget = fmt.Errorf("unknown search target")

	// 409 Conflict
	ErrInsufficientStock    = fmt.Errorf("insufficient stock")
	ErrExceedsRemainingDebt = fmt.Errorf("amount exceeds remaining debt")
	ErrOrderClosed          = fmt.Errorf("order is closed")
	ErrInvalidTransition    = fmt.Errorf("invalid status transition")
	ErrInUse                = fmt.Errorf("record is referenced by other records")
	ErrDuplicateRequest     = fmt.Errorf("duplicate request")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// ValidationError содержит сообщения об ошибках по полям.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// FieldError возвращает ошибку валидации с одним полем.
func FieldError(field, message string) *ValidationError {
	return NewValidationError(map[string]string{field: message})
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v.Fields[k])
	}

	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (v *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// InsufficientStockError описывает нехватку доступного остатка товара.
type InsufficientStockError struct {
	ProductID int64
	Requested int64
	Available int64
}

func (i *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: product %d, requested %d, available %d",
		ErrInsufficientStock.Error(), i.ProductID, i.Requested, i.Available)
}

func (i *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// DebtExceededError возвращается, когда платёж больше остатка долга по заказу.
type DebtExceededError struct {
	Amount        decimal.Decimal
	RemainingDebt decimal.Decimal
}

func (d *DebtExceededError) Error() string {
	return fmt.Sprintf("%s: amount %s, remaining debt %s",
		ErrExceedsRemainingDebt.Error(), d.Amount.StringFixed(2), d.RemainingDebt.StringFixed(2))
}

func (d *DebtExceededError) Is(target error) bool {
	return target == ErrExceedsRemainingDebt
}
