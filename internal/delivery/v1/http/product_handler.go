package http

import (
	"net/http"

	"github.com/DRSN-tech/order-backoffice/internal/usecase"
	"github.com/DRSN-tech/order-backoffice/pkg/e"
	"github.com/DRSN-tech/order-backoffice/pkg/logger"
)

type ProductHandler struct {
	catalogUC    usecase.CatalogUC
	logger       logger.Logger
	maxImageSize int64
}

func NewProductHandler(catalogUC usecase.CatalogUC, logger logger.Logger, maxImageSize int64) *ProductHandler {
	return &ProductHandler{catalogUC: catalogUC, logger: logger, maxImageSize: maxImageSize}
}

// createProduct
//
//	@Summary		Создание товара
//	@Description	Цена передаётся строкой, например "1.234,56"
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			body	body		usecase.ProductReq	true	"Товар"
//	@Success		201		{object}	ProductResponse
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req usecase.ProductReq
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.catalogUC.CreateProduct(r.Context(), &req)
	if err != nil {
		p.logger.Warnf("create product: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toProductResponse(product))
}

// updateProduct
//
//	@Summary	Изменение товара
//	@Tags		products
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int					true	"ID товара"
//	@Param		body	body		usecase.ProductReq	true	"Товар"
//	@Success	200		{object}	ProductResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/products/{id} [put]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	var req usecase.ProductReq
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.catalogUC.UpdateProduct(r.Context(), id, &req)
	if err != nil {
		p.logger.Warnf("update product %d: %v", id, err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := p.catalogUC.DeleteProduct(r.Context(), id); err != nil {
		p.logger.Warnf("delete product %d: %v", id, err)
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.catalogUC.GetProduct(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// listProducts
//
//	@Summary	Список товаров
//	@Tags		products
//	@Produce	json
//	@Param		category_id	query	int	false	"Фильтр по категории"
//	@Success	200			{array}	ProductResponse
//	@Router		/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	categoryID, err := queryInt64(r, "category_id")
	if err != nil {
		WriteError(w, err)
		return
	}

	products, err := p.catalogUC.ListProducts(r.Context(), categoryID)
	if err != nil {
		p.logger.Errorf(err, "list products")
		WriteError(w, err)
		return
	}

	out := make([]ProductResponse, 0, len(products))
	for _, pr := range products {
		out = append(out, toProductResponse(pr))
	}

	WriteSuccess(w, http.StatusOK, out)
}

// getProductsInfo
//
//	@Summary		Информация о товарах по списку ID
//	@Description	Читает через кэш Redis
//	@Tags			products
//	@Produce		json
//	@Param			ids	query		string	true	"Список ID через запятую"
//	@Success		200	{object}	ProductsInfoResponse
//	@Failure		400	{object}	ErrorResponse
//	@Router			/products/info [get]
func (p *ProductHandler) getProductsInfo(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDs(r.URL.Query().Get("ids"))
	if err != nil {
		WriteError(w, err)
		return
	}

	res, err := p.catalogUC.GetProductsInfo(r.Context(), usecase.NewGetProductsReq(ids))
	if err != nil {
		p.logger.Warnf("get products info: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductsInfoResponse(res))
}

// uploadImage
//
//	@Summary		Загрузка изображения товара
//	@Description	jpeg, png или webp. Предыдущее изображение удаляется
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		path		int		true	"ID товара"
//	@Param			image	formData	file	true	"Изображение"
//	@Success		200		{object}	ProductResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		413		{object}	ErrorResponse
//	@Failure		415		{object}	ErrorResponse
//	@Router			/products/{id}/image [post]
func (p *ProductHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	const maxMemory = 8 << 20

	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, p.maxImageSize+maxMemory)
	if err := ensureMultipartForm(r, maxMemory); err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, e.Wrap(err.Error(), e.ErrExpectedMultipart))
		return
	}

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		WriteError(w, e.ErrNoImages)
		return
	}

	image, err := readImage(files[0], p.maxImageSize)
	if err != nil {
		WriteError(w, err)
		return
	}

	product, err := p.catalogUC.UploadProductImage(r.Context(), id, image)
	if err != nil {
		p.logger.Warnf("upload image for product %d: %v", id, err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}
