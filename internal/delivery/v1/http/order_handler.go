package http

import (
	"context"
	"net/http"

	"github.com/DRSN-tech/order-backoffice/internal/domain"
	"github.com/DRSN-tech/order-backoffice/internal/usecase"
	"github.com/DRSN-tech/order-backoffice/pkg/logger"
)

type OrderHandler struct {
	orderUC usecase.OrderUC
	logger  logger.Logger
}

func NewOrderHandler(orderUC usecase.OrderUC, logger logger.Logger) *OrderHandler {
	return &OrderHandler{orderUC: orderUC, logger: logger}
}

type createOrderRequest struct {
	CustomerID int64 `json:"customer_id"`
}

// addLineItemRequest: если unit_price не передан, берётся текущая цена товара.
type addLineItemRequest struct {
	ProductID int64   `json:"product_id"`
	Quantity  int64   `json:"quantity"`
	UnitPrice *string `json:"unit_price,omitempty"`
}

// createOrder
//
//	@Summary	Создание заказа
//	@Tags		orders
//	@Accept		json
//	@Produce	json
//	@Param		body	body		createOrderRequest	true	"Клиент"
//	@Success	201		{object}	OrderResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/orders [post]
func (h *OrderHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.CustomerID <= 0 {
		WriteError(w, requiredField("customer_id"))
		return
	}

	order, err := h.orderUC.Create(r.Context(), req.CustomerID)
	if err != nil {
		h.logger.Warnf("create order: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toOrderResponse(order))
}

// listOrders
//
//	@Summary	Список заказов
//	@Tags		orders
//	@Produce	json
//	@Param		status		query	string	false	"new, in_progress, concluded, cancelled"
//	@Param		customer_id	query	int		false	"ID клиента"
//	@Success	200			{array}	OrderSummaryResponse
//	@Router		/orders [get]
func (h *OrderHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	var filter usecase.OrderFilter

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.OrderStatus(raw)
		filter.Status = &status
	}

	customerID, err := queryInt64(r, "customer_id")
	if err != nil {
		WriteError(w, err)
		return
	}
	filter.CustomerID = customerID

	orders, err := h.orderUC.List(r.Context(), filter)
	if err != nil {
		WriteError(w, err)
		return
	}

	out := make([]OrderSummaryResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toSummaryResponse(usecase.NewOrderSummary(o)))
	}

	WriteSuccess(w, http.StatusOK, out)
}

// getOrder
//
//	@Summary	Заказ со строками и платежами
//	@Tags		orders
//	@Produce	json
//	@Param		id	path		int	true	"ID заказа"
//	@Success	200	{object}	OrderResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/orders/{id} [get]
func (h *OrderHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	order, err := h.orderUC.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) getSummary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	summary, err := h.orderUC.Summary(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toSummaryResponse(summary))
}

// deleteOrder
//
//	@Summary		Удаление заказа
//	@Description	Открытый заказ снимает резервы, закрытый возвращает товар на склад
//	@Tags			orders
//	@Param			id	path	int	true	"ID заказа"
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Router			/orders/{id} [delete]
func (h *OrderHandler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.orderUC.Delete(r.Context(), id); err != nil {
		h.logger.Warnf("delete order %d: %v", id, err)
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) startOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orderUC.Start)
}

// cancelOrder
//
//	@Summary	Отмена заказа
//	@Tags		orders
//	@Produce	json
//	@Param		id	path		int	true	"ID заказа"
//	@Success	200	{object}	OrderResponse
//	@Failure	409	{object}	ErrorResponse	"Недопустимый переход статуса"
//	@Router		/orders/{id}/cancel [post]
func (h *OrderHandler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orderUC.Cancel)
}

func (h *OrderHandler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id int64) (*domain.Order, error)) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	order, err := fn(r.Context(), id)
	if err != nil {
		h.logger.Warnf("order %d transition: %v", id, err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toOrderResponse(order))
}

// addLineItem
//
//	@Summary		Добавление строки заказа
//	@Description	Резервирует товар на складе
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int					true	"ID заказа"
//	@Param			body	body		addLineItemRequest	true	"Строка"
//	@Success		201		{object}	LineItemResponse
//	@Failure		409		{object}	ErrorResponse	"Недостаточно товара или заказ закрыт"
//	@Router			/orders/{id}/items [post]
func (h *OrderHandler) addLineItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var req addLineItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	item, err := h.orderUC.AddLineItem(r.Context(), &usecase.AddLineItemReq{
		OrderID:   id,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
	})
	if err != nil {
		h.logger.Warnf("add line item to order %d: %v", id, err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toLineItemResponse(item))
}

func (h *OrderHandler) removeLineItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemID")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.orderUC.RemoveLineItem(r.Context(), itemID); err != nil {
		h.logger.Warnf("remove line item %d: %v", itemID, err)
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
