package converter

import (
	"github.com/DRSN-tech/order-backoffice/internal/domain"
	"github.com/shopspring/decimal"
)

type ProductInfoConverter interface {
	ToRedisModel(entity *domain.ProductInfo) *ProductInfoRedisModel
	ToEntity(model *ProductInfoRedisModel) (*domain.ProductInfo, error)
	ToArrRedisModel(entities []*domain.ProductInfo) []*ProductInfoRedisModel
}

type ProductInfoConv struct{}

func (ProductInfoConv) ToRedisModel(entity *domain.ProductInfo) *ProductInfoRedisModel {
	return &ProductInfoRedisModel{
		ID:         entity.ID,
		Name:       entity.Name,
		Price:      entity.Price.String(),
		CategoryID: entity.CategoryID,
		ImageKey:   entity.ImageKey,
	}
}

func (ProductInfoConv) ToEntity(model *ProductInfoRedisModel) (*domain.ProductInfo, error) {
	price, err := decimal.NewFromString(model.Price)
	if err != nil {
		return nil, err
	}

	return &domain.ProductInfo{
		ID:         model.ID,
		Name:       model.Name,
		Price:      price,
		CategoryID: model.CategoryID,
		ImageKey:   model.ImageKey,
	}, nil
}

func (c ProductInfoConv) ToArrRedisModel(entities []*domain.ProductInfo) []*ProductInfoRedisModel {
	result := make([]*ProductInfoRedisModel, 0, len(entities))
	for _, entity := range entities {
		result = append(result, c.ToRedisModel(entity))
	}
	return result
}
