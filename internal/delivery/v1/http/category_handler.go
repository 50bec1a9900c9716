package http

import (
	"net/http"

	"github.com/DRSN-tech/order-backoffice/internal/usecase"
	"github.com/DRSN-tech/order-backoffice/pkg/logger"
)

type CategoryHandler struct {
	catalogUC usecase.CatalogUC
	logger    logger.Logger
}

func NewCategoryHandler(catalogUC usecase.CatalogUC, logger logger.Logger) *CategoryHandler {
	return &CategoryHandler{catalogUC: catalogUC, logger: logger}
}

// createCategory
//
//	@Summary	Создание категории
//	@Tags		categories
//	@Accept		json
//	@Produce	json
//	@Param		body	body		usecase.CategoryReq	true	"Категория"
//	@Success	201		{object}	CategoryResponse
//	@Failure	400		{object}	ErrorResponse	"Ошибка валидации"
//	@Router		/categories [post]
func (h *CategoryHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req usecase.CategoryReq
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	category, err := h.catalogUC.CreateCategory(r.Context(), &req)
	if err != nil {
		h.logger.Warnf("create category: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toCategoryResponse(category))
}

// updateCategory
//
//	@Summary	Изменение категории
//	@Tags		categories
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int					true	"ID категории"
//	@Param		body	body		usecase.CategoryReq	true	"Категория"
//	@Success	200		{object}	CategoryResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/categories/{id} [put]
func (h *CategoryHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var req usecase.CategoryReq
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	category, err := h.catalogUC.UpdateCategory(r.Context(), id, &req)
	if err != nil {
		h.logger.Warnf("update category %d: %v", id, err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCategoryResponse(category))
}

// deleteCategory
//
//	@Summary		Удаление категории
//	@Description	Удаляет категорию вместе с товарами
//	@Tags			categories
//	@Param			id	path	int	true	"ID категории"
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse	"Товары категории есть в заказах"
//	@Router			/categories/{id} [delete]
func (h *CategoryHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.catalogUC.DeleteCategory(r.Context(), id); err != nil {
		h.logger.Warnf("delete category %d: %v", id, err)
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CategoryHandler) getCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	category, err := h.catalogUC.GetCategory(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCategoryResponse(category))
}

// listCategories
//
//	@Summary	Список категорий в порядке отображения
//	@Tags		categories
//	@Produce	json
//	@Success	200	{array}	CategoryResponse
//	@Router		/categories [get]
func (h *CategoryHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogUC.ListCategories(r.Context())
	if err != nil {
		h.logger.Errorf(err, "list categories")
		WriteError(w, err)
		return
	}

	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}

	WriteSuccess(w, http.StatusOK, out)
}
