package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/DRSN-tech/order-backoffice/internal/domain"
	"github.com/DRSN-tech/order-backoffice/pkg/e"
	"github.com/DRSN-tech/order-backoffice/pkg/money"
	"github.com/shopspring/decimal"
)

const cacheWriteTimeout = 500 * time.Millisecond

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

func (c *CatalogUseCase) CreateProduct(ctx context.Context, req *ProductReq) (*domain.Product, error) {
	const op = "CatalogUseCase.CreateProduct"

	price, err := c.validateProduct(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := c.productRepo.Create(ctx, domain.NewProduct(req.Name, price, req.CategoryID))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return product, nil
}

func (c *CatalogUseCase) UpdateProduct(ctx context.Context, id int64, req *ProductReq) (*domain.Product, error) {
	const op = "CatalogUseCase.UpdateProduct"

	price, err := c.validateProduct(ctx, req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	product := domain.NewProduct(req.Name, price, req.CategoryID)
	product.ID = id

	updated, err := c.productRepo.Update(ctx, product)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	c.invalidateProducts(ctx, id)
	return updated, nil
}

func (c *CatalogUseCase) DeleteProduct(ctx context.Context, id int64) error {
	const op = "CatalogUseCase.DeleteProduct"

	product, err := c.productRepo.GetByID(ctx, id)
	if err != nil {
		return e.Wrap(op, err)
	}

	if err := c.productRepo.Delete(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	c.invalidateProducts(ctx, id)
	if product.ImageKey != nil {
		c.imagesInfra.CleanupImages([]string{*product.ImageKey})
	}

	return nil
}

func (c *CatalogUseCase) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "CatalogUseCase.GetProduct"

	product, err := c.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return product, nil
}

// ListProducts возвращает товары, при categoryID != nil только этой категории.
func (c *CatalogUseCase) ListProducts(ctx context.Context, categoryID *int64) ([]*domain.Product, error) {
	const op = "CatalogUseCase.ListProducts"

	products, err := c.productRepo.List(ctx, categoryID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

// UploadProductImage сохраняет изображение товара в хранилище и заменяет ссылку на него.
func (c *CatalogUseCase) UploadProductImage(ctx context.Context, productID int64, img *ProductImage) (*domain.Product, error) {
	const op = "CatalogUseCase.UploadProductImage"

	if err := c.validateImage(img); err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := c.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	res, err := c.imagesInfra.UploadProductImage(ctx, &UploadImageReq{ProductID: productID, Image: img})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := c.productRepo.SetImageKey(ctx, productID, &res.ObjectKey); err != nil {
		c.logger.Warnf("Cleaning up orphaned image after failed update. product_id: %d, error: %v", productID, err)
		c.imagesInfra.CleanupImages([]string{res.ObjectKey})
		return nil, e.Wrap(op, err)
	}

	if product.ImageKey != nil && *product.ImageKey != res.ObjectKey {
		c.imagesInfra.CleanupImages([]string{*product.ImageKey})
	}
	c.invalidateProducts(ctx, productID)

	product.ImageKey = &res.ObjectKey
	return product, nil
}

// GetProductsInfo возвращает информацию о продуктах по их идентификаторам.
// Сначала читается кэш, недостающие товары берутся из БД и кэшируются в фоне.
func (c *CatalogUseCase) GetProductsInfo(ctx context.Context, req *GetProductsReq) (*GetProductsRes, error) {
	const op = "CatalogUseCase.GetProductsInfo"

	if len(req.IDs) == 0 {
		return nil, e.Wrap(op, e.FieldError("ids", "is required"))
	}

	cached, err := c.cacheRepo.GetProducts(ctx, req.IDs)
	if err != nil {
		c.logger.Warnf("Failed to read products from cache: %v", e.Wrap(op, err))
		cached = nil
	}

	var missing []int64
	for _, id := range req.IDs {
		if _, ok := cached[id]; !ok {
			missing = append(missing, id)
		}
	}

	fromDB := make(map[int64]*domain.ProductInfo, len(missing))
	if len(missing) > 0 {
		infos, err := c.productRepo.GetProductsInfo(ctx, missing)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		for _, info := range infos {
			fromDB[info.ID] = info
		}

		if len(infos) > 0 {
			go func() {
				bgCtx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
				defer cancel()

				if err := c.cacheRepo.SetProducts(bgCtx, infos); err != nil {
					c.logger.Warnf("Failed to cache products in background: %v", e.Wrap(op, err))
				}
			}()
		}
	}

	result := make([]*domain.ProductInfo, 0, len(req.IDs))
	notFound := make([]int64, 0)
	for _, id := range req.IDs {
		if info, ok := cached[id]; ok {
			result = append(result, info)
		} else if info, ok := fromDB[id]; ok {
			result = append(result, info)
		} else {
			notFound = append(notFound, id)
		}
	}

	return NewGetProductsRes(result, notFound), nil
}

// validateProduct проверяет поля товара и возвращает разобранную цену.
func (c *CatalogUseCase) validateProduct(ctx context.Context, req *ProductReq) (decimal.Decimal, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return decimal.Decimal{}, err
	}

	price, err := money.Parse(req.Price)
	if err != nil {
		return decimal.Decimal{}, e.FieldError("price", e.ErrInvalidAmountFormat.Error())
	}
	if price.IsNegative() {
		return decimal.Decimal{}, e.FieldError("price", "must not be negative")
	}

	if _, err := c.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return decimal.Decimal{}, e.FieldError("category_id", "category not found")
		}
		return decimal.Decimal{}, err
	}

	return price, nil
}

func (c *CatalogUseCase) validateImage(img *ProductImage) error {
	if img == nil || len(img.Data) == 0 {
		return e.ErrNoImages
	}

	if img.Size > c.maxImageSize || int64(len(img.Data)) > c.maxImageSize {
		return e.ErrFileTooLarge
	}

	if _, ok := allowedImageTypes[img.MimeType]; !ok {
		return e.ErrUnsupportedMediaType
	}

	return nil
}
