package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/DRSN-tech/order-backoffice/internal/domain"
	"github.com/DRSN-tech/order-backoffice/internal/usecase"
	"github.com/DRSN-tech/order-backoffice/pkg/e"
	"github.com/DRSN-tech/order-backoffice/pkg/logger"
)

type CustomerHandler struct {
	customerUC usecase.CustomerUC
	logger     logger.Logger
}

func NewCustomerHandler(customerUC usecase.CustomerUC, logger logger.Logger) *CustomerHandler {
	return &CustomerHandler{customerUC: customerUC, logger: logger}
}

// customerRequest принимает дату рождения как ГГГГ-ММ-ДД или ДД/ММ/ГГГГ.
type customerRequest struct {
	Name      string `json:"name"`
	TaxID     string `json:"tax_id"`
	BirthDate string `json:"birth_date"`
}

func (c customerRequest) toUseCase() (*usecase.CustomerReq, error) {
	req := &usecase.CustomerReq{
		Name:  strings.TrimSpace(c.Name),
		TaxID: strings.TrimSpace(c.TaxID),
	}

	raw := strings.TrimSpace(c.BirthDate)
	if raw == "" {
		return req, nil
	}

	birthDate, err := parseBirthDate(raw)
	if err != nil {
		return nil, e.FieldError("birth_date", "is invalid")
	}
	req.BirthDate = birthDate

	return req, nil
}

func parseBirthDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	return time.Parse(domain.BirthDateLayout, raw)
}

// createCustomer
//
//	@Summary	Создание клиента
//	@Tags		customers
//	@Accept		json
//	@Produce	json
//	@Param		body	body		customerRequest	true	"Клиент"
//	@Success	201		{object}	CustomerResponse
//	@Failure	400		{object}	ErrorResponse	"Ошибка валидации"
//	@Router		/customers [post]
func (h *CustomerHandler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var body customerRequest
	if err := decodeJSON(w, r, &body); err != nil {
		WriteError(w, err)
		return
	}

	req, err := body.toUseCase()
	if err != nil {
		WriteError(w, err)
		return
	}

	customer, err := h.customerUC.Create(r.Context(), req)
	if err != nil {
		h.logger.Warnf("create customer: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toCustomerResponse(customer))
}

func (h *CustomerHandler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var body customerRequest
	if err := decodeJSON(w, r, &body); err != nil {
		WriteError(w, err)
		return
	}

	req, err := body.toUseCase()
	if err != nil {
		WriteError(w, err)
		return
	}

	customer, err := h.customerUC.Update(r.Context(), id, req)
	if err != nil {
		h.logger.Warnf("update customer %d: %v", id, err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCustomerResponse(customer))
}

// deleteCustomer
//
//	@Summary	Удаление клиента
//	@Tags		customers
//	@Param		id	path	int	true	"ID клиента"
//	@Success	204
//	@Failure	409	{object}	ErrorResponse	"У клиента есть заказы"
//	@Router		/customers/{id} [delete]
func (h *CustomerHandler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.customerUC.Delete(r.Context(), id); err != nil {
		h.logger.Warnf("delete customer %d: %v", id, err)
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CustomerHandler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	customer, err := h.customerUC.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCustomerResponse(customer))
}

func (h *CustomerHandler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customerUC.List(r.Context())
	if err != nil {
		h.logger.Errorf(err, "list customers")
		WriteError(w, err)
		return
	}

	out := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, toCustomerResponse(c))
	}

	WriteSuccess(w, http.StatusOK, out)
}
