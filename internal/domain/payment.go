package domain

import (
	"strings"
	"time"

	"github.com/DRSN-tech/order-backoffice/pkg/e"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodPix  PaymentMethod = "pix"
)

// paymentMethodAliases: принимаются также исторические названия из формы оплаты.
var paymentMethodAliases = map[string]PaymentMethod{
	"cash":     PaymentMethodCash,
	"dinheiro": PaymentMethodCash,
	"card":     PaymentMethodCard,
	"cartao":   PaymentMethodCard,
	"pix":      PaymentMethodPix,
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m, ok := paymentMethodAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", e.ErrInvalidPaymentMethod
	}
	return m, nil
}

type PaymentType string

const (
	PaymentTypeFull        PaymentType = "full"
	PaymentTypeInstallment PaymentType = "installment"
)

var paymentTypeAliases = map[string]PaymentType{
	"full":        PaymentTypeFull,
	"a_vista":     PaymentTypeFull,
	"installment": PaymentTypeInstallment,
	"parcelado":   PaymentTypeInstallment,
}

func ParsePaymentType(s string) (PaymentType, error) {
	t, ok := paymentTypeAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", e.ErrInvalidPaymentType
	}
	return t, nil
}

// NormalizeInstallments проверяет число платежей: для full всегда 1,
// для installment не меньше 1.
func NormalizeInstallments(t PaymentType, installments int) (int, error) {
	switch t {
	case PaymentTypeFull:
		return 1, nil
	case PaymentTypeInstallment:
		if installments < 1 {
			return 0, e.ErrInvalidInstallmentCount
		}
		return installments, nil
	}
	return 0, e.ErrInvalidPaymentType
}

// Payment описывает платёж по заказу
type Payment struct {
	ID           int64
	OrderID      int64
	Amount       decimal.Decimal
	Method       PaymentMethod
	Type         PaymentType
	Installments int
	CreatedAt    time.Time
}

func NewPayment(orderID int64, amount decimal.Decimal, method PaymentMethod, t PaymentType, installments int) *Payment {
	return &Payment{
		OrderID:      orderID,
		Amount:       amount,
		Method:       method,
		Type:         t,
		Installments: installments,
	}
}
