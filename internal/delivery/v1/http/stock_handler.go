package http

import (
	"net/http"

	"github.com/DRSN-tech/order-backoffice/internal/usecase"
	"github.com/DRSN-tech/order-backoffice/pkg/logger"
)

type StockHandler struct {
	stockUC usecase.StockUC
	logger  logger.Logger
}

func NewStockHandler(stockUC usecase.StockUC, logger logger.Logger) *StockHandler {
	return &StockHandler{stockUC: stockUC, logger: logger}
}

type setStockRequest struct {
	Quantity *int64 `json:"quantity"`
}

type adjustStockRequest struct {
	Delta int64 `json:"delta"`
}

func (s *StockHandler) getStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	entry, err := s.stockUC.GetOrCreate(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toStockResponse(entry))
}

// setStock
//
//	@Summary	Ручная установка остатка
//	@Tags		stock
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int				true	"ID товара"
//	@Param		body	body		setStockRequest	true	"Новый остаток"
//	@Success	200		{object}	StockResponse
//	@Failure	400		{object}	ErrorResponse	"Отрицательный остаток"
//	@Router		/products/{id}/stock [put]
func (s *StockHandler) setStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var req setStockRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Quantity == nil {
		WriteError(w, requiredField("quantity"))
		return
	}

	entry, err := s.stockUC.SetAbsolute(r.Context(), id, *req.Quantity)
	if err != nil {
		s.logger.Warnf("set stock of product %d: %v", id, err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toStockResponse(entry))
}

// adjustStock
//
//	@Summary		Изменение остатка на delta
//	@Description	Остаток не опускается ниже нуля
//	@Tags			stock
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int					true	"ID товара"
//	@Param			body	body		adjustStockRequest	true	"Изменение"
//	@Success		200		{object}	StockResponse
//	@Router			/products/{id}/stock/adjust [post]
func (s *StockHandler) adjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var req adjustStockRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	entry, err := s.stockUC.Adjust(r.Context(), id, req.Delta)
	if err != nil {
		s.logger.Warnf("adjust stock of product %d: %v", id, err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toStockResponse(entry))
}

func (s *StockHandler) listMovements(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	// Без limit или с недопустимым значением usecase берёт лимит по умолчанию.
	var limit int
	l, err := queryInt64(r, "limit")
	if err != nil {
		WriteError(w, err)
		return
	}
	if l != nil {
		limit = int(*l)
	}

	movements, err := s.stockUC.Movements(r.Context(), id, limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toMovementsResponse(movements))
}
