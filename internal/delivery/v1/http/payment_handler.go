package http

import (
	"net/http"
	"strings"

	"github.com/DRSN-tech/order-backoffice/internal/usecase"
	"github.com/DRSN-tech/order-backoffice/pkg/logger"
)

const idempotencyHeader = "Idempotency-Key"

type PaymentHandler struct {
	paymentUC usecase.PaymentUC
	logger    logger.Logger
}

func NewPaymentHandler(paymentUC usecase.PaymentUC, logger logger.Logger) *PaymentHandler {
	return &PaymentHandler{paymentUC: paymentUC, logger: logger}
}

// registerPaymentRequest: сумма строкой ("50,00"), method: cash | card | pix,
// type: full | installment.
type registerPaymentRequest struct {
	Amount       string `json:"amount"`
	Method       string `json:"method"`
	Type         string `json:"type"`
	Installments int    `json:"installments"`
}

// registerPayment
//
//	@Summary		Регистрация платежа
//	@Description	Платёж, покрывающий остаток долга, закрывает заказ и списывает товар со склада
//	@Tags			payments
//	@Accept			json
//	@Produce		json
//	@Param			id				path		int						true	"ID заказа"
//	@Param			Idempotency-Key	header		string					false	"Ключ идемпотентности"
//	@Param			body			body		registerPaymentRequest	true	"Платёж"
//	@Success		201				{object}	RegisterPaymentResponse
//	@Failure		400				{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		409				{object}	ErrorResponse	"Сумма больше долга, заказ закрыт или повторный запрос"
//	@Router			/orders/{id}/payments [post]
func (h *PaymentHandler) registerPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var req registerPaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	res, err := h.paymentUC.RegisterPayment(r.Context(), &usecase.RegisterPaymentReq{
		OrderID:        id,
		Amount:         req.Amount,
		Method:         req.Method,
		Type:           req.Type,
		Installments:   req.Installments,
		IdempotencyKey: strings.TrimSpace(r.Header.Get(idempotencyHeader)),
	})
	if err != nil {
		h.logger.Warnf("register payment for order %d: %v", id, err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, RegisterPaymentResponse{
		Payment: toPaymentResponse(res.Payment),
		Order:   toSummaryResponse(res.Summary),
		Settled: res.Settled,
	})
}
