package usecase

import (
	"context"
	"strings"

	"github.com/DRSN-tech/order-backoffice/internal/domain"
	"github.com/DRSN-tech/order-backoffice/pkg/e"
	"github.com/DRSN-tech/order-backoffice/pkg/logger"
)

// CatalogUseCase управляет категориями и товарами.
type CatalogUseCase struct {
	categoryRepo CategoryRepository
	productRepo  ProductRepository
	cacheRepo    CacheRepository
	imagesInfra  ImagesInfra
	trm          TxManager
	logger       logger.Logger
	maxImageSize int64
}

func NewCatalogUC(
	categoryRepo CategoryRepository,
	productRepo ProductRepository,
	cacheRepo CacheRepository,
	imagesInfra ImagesInfra,
	trm TxManager,
	logger logger.Logger,
	maxImageSize int64,
) *CatalogUseCase {
	return &CatalogUseCase{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		cacheRepo:    cacheRepo,
		imagesInfra:  imagesInfra,
		trm:          trm,
		logger:       logger,
		maxImageSize: maxImageSize,
	}
}

func (c *CatalogUseCase) CreateCategory(ctx context.Context, req *CategoryReq) (*domain.Category, error) {
	const op = "CatalogUseCase.CreateCategory"

	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	category, err := c.categoryRepo.Create(ctx, domain.NewCategory(req.Name, req.DisplayOrder))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return category, nil
}

func (c *CatalogUseCase) UpdateCategory(ctx context.Context, id int64, req *CategoryReq) (*domain.Category, error) {
	const op = "CatalogUseCase.UpdateCategory"

	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	category := domain.NewCategory(req.Name, req.DisplayOrder)
	category.ID = id

	updated, err := c.categoryRepo.Update(ctx, category)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return updated, nil
}

// DeleteCategory удаляет категорию вместе с её товарами.
func (c *CatalogUseCase) DeleteCategory(ctx context.Context, id int64) error {
	const op = "CatalogUseCase.DeleteCategory"

	var productIDs []int64
	err := c.trm.Do(ctx, func(ctx context.Context) error {
		products, err := c.productRepo.List(ctx, &id)
		if err != nil {
			return err
		}
		for _, p := range products {
			productIDs = append(productIDs, p.ID)
		}

		return c.categoryRepo.Delete(ctx, id)
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	c.invalidateProducts(ctx, productIDs...)
	return nil
}

func (c *CatalogUseCase) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	const op = "CatalogUseCase.GetCategory"

	category, err := c.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return category, nil
}

// ListCategories возвращает категории в порядке отображения.
func (c *CatalogUseCase) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	const op = "CatalogUseCase.ListCategories"

	categories, err := c.categoryRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return categories, nil
}

// invalidateProducts удаляет товары из кэша. Ошибка кэша не прерывает операцию.
func (c *CatalogUseCase) invalidateProducts(ctx context.Context, ids ...int64) {
	if len(ids) == 0 {
		return
	}

	if err := c.cacheRepo.DeleteProducts(ctx, ids); err != nil {
		c.logger.Warnf("Failed to delete products from cache: %v", err)
	}
}
