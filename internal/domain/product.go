package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product описывает продукт
type Product struct {
	ID         int64
	Name       string
	Price      decimal.Decimal
	CategoryID int64
	ImageKey   *string // ключ объекта в бакете изображений
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

func NewProduct(name string, price decimal.Decimal, categoryID int64) *Product {
	return &Product{
		Name:       name,
		Price:      price,
		CategoryID: categoryID,
	}
}

// ProductInfo — облегчённое представление товара для кэша и read API.
type ProductInfo struct {
	ID         int64
	Name       string
	Price      decimal.Decimal
	CategoryID int64
	ImageKey   *string
}

func (p *Product) Info() *ProductInfo {
	return &ProductInfo{
		ID:         p.ID,
		Name:       p.Name,
		Price:      p.Price,
		CategoryID: p.CategoryID,
		ImageKey:   p.ImageKey,
	}
}
