package http

import (
	"net/http"

	"github.com/DRSN-tech/order-backoffice/internal/usecase"
	"github.com/go-chi/chi/v5"
)

type SearchHandler struct {
	searchUC usecase.SearchUC
}

func NewSearchHandler(searchUC usecase.SearchUC) *SearchHandler {
	return &SearchHandler{searchUC: searchUC}
}

// search
//
//	@Summary	Автодополнение
//	@Tags		search
//	@Produce	json
//	@Param		target	path	string	true	"category, customer или product"
//	@Param		q		query	string	false	"Подстрока"
//	@Success	200		{array}	SearchResultResponse
//	@Failure	404		{object}	ErrorResponse	"Неизвестная цель поиска"
//	@Router		/search/{target} [get]
func (s *SearchHandler) search(w http.ResponseWriter, r *http.Request) {
	results, err := s.searchUC.Search(r.Context(), chi.URLParam(r, "target"), r.URL.Query().Get("q"))
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toSearchResponse(results))
}
