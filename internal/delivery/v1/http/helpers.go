package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/order-backoffice/internal/usecase"
	"github.com/DRSN-tech/order-backoffice/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const maxJSONBody = 1 << 20

type ErrorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func NewErrorResponse(code int, message string, fields map[string]string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
		Fields:  fields,
	}
}

// errorMapping сопоставляет доменные ошибки HTTP-статусам. Если задано field,
// ошибка дополнительно отдаётся как ошибка поля формы.
var errorMapping = []struct {
	err    error
	status int
	field  string
}{
	{e.ErrInvalidAmountFormat, http.StatusBadRequest, "amount"},
	{e.ErrAmountMustBePositive, http.StatusBadRequest, "amount"},
	{e.ErrInvalidInstallmentCount, http.StatusBadRequest, "installments"},
	{e.ErrInvalidPaymentMethod, http.StatusBadRequest, "method"},
	{e.ErrInvalidPaymentType, http.StatusBadRequest, "type"},
	{e.ErrInvalidID, http.StatusBadRequest, ""},
	{e.ErrStatusBadRequest, http.StatusBadRequest, ""},
	{e.ErrExpectedMultipart, http.StatusBadRequest, ""},
	{e.ErrNoImages, http.StatusBadRequest, "image"},
	{e.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "image"},
	{e.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType, "image"},
	{e.ErrUnknownSearchTarget, http.StatusNotFound, ""},
	{e.ErrNotFound, http.StatusNotFound, ""},
	{e.ErrInsufficientStock, http.StatusConflict, "quantity"},
	{e.ErrExceedsRemainingDebt, http.StatusConflict, "amount"},
	{e.ErrOrderClosed, http.StatusConflict, ""},
	{e.ErrInvalidTransition, http.StatusConflict, ""},
	{e.ErrInUse, http.StatusConflict, ""},
	{e.ErrDuplicateRequest, http.StatusConflict, ""},
	// Нарушение CHECK или NOT NULL из репозитория.
	{e.ErrValidation, http.StatusBadRequest, ""},
}

// ToHTTPResponse переводит ошибку usecase в HTTP-ответ. Неизвестные ошибки,
// включая ErrConsistencyFault, скрываются за 500.
func ToHTTPResponse(err error) *ErrorResponse {
	var validationErr *e.ValidationError
	if errors.As(err, &validationErr) {
		return NewErrorResponse(http.StatusBadRequest, e.ErrValidation.Error(), validationErr.Fields)
	}

	for _, m := range errorMapping {
		if !errors.Is(err, m.err) {
			continue
		}

		msg := detailedMessage(err, m.err)
		var fields map[string]string
		if m.field != "" {
			fields = map[string]string{m.field: msg}
		}
		return NewErrorResponse(m.status, msg, fields)
	}

	return NewErrorResponse(http.StatusInternalServerError, e.ErrInternalServerError.Error(), nil)
}

// detailedMessage возвращает текст типизированной ошибки (остаток, долг),
// для остальных только текст sentinel без внутренних подробностей.
func detailedMessage(err, sentinel error) string {
	var stockErr *e.InsufficientStockError
	if errors.As(err, &stockErr) {
		return stockErr.Error()
	}

	var debtErr *e.DebtExceededError
	if errors.As(err, &debtErr) {
		return debtErr.Error()
	}

	return sentinel.Error()
}

func WriteError(w http.ResponseWriter, err error) {
	res := ToHTTPResponse(err)
	WriteSuccess(w, res.Code, res)
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeJSON читает тело запроса в dst, отклоняя неизвестные поля.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}

	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, e.Wrap(whereami.WhereAmI(), e.ErrInvalidID)
	}
	return id, nil
}

func requiredField(name string) error {
	return e.FieldError(name, "is required")
}

// queryInt64 разбирает необязательный числовой параметр запроса.
func queryInt64(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, e.FieldError(name, "is invalid")
	}
	return &v, nil
}

// parseIDs разбирает список идентификаторов вида "1,2,3".
func parseIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, e.FieldError("ids", "is required")
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || id <= 0 {
			return nil, e.FieldError("ids", "is invalid")
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	return r.ParseMultipartForm(maxMemory)
}

// readImage читает файл из формы. MIME-тип определяется по содержимому, а не по заголовку клиента.
func readImage(fh *multipart.FileHeader, maxSize int64) (*usecase.ProductImage, error) {
	if fh.Size > maxSize {
		return nil, e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		return nil, e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	return usecase.NewProductImage(data, mimeType, int64(len(data)), fh.Filename), nil
}
