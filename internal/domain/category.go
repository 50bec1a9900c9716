package domain

import "time"

const CategoryNameMinLen = 3

// Category описывает категорию продукта
type Category struct {
	ID           int64
	Name         string
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

func NewCategory(name string, displayOrder int) *Category {
	return &Category{
		Name:         name,
		DisplayOrder: displayOrder,
	}
}
