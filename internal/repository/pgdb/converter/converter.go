package converter

import (
	"github.com/DRSN-tech/order-backoffice/internal/domain"
)

// CategoryConverter преобразует сущности Category между domain и моделью PostgreSQL.
type CategoryConverter interface {
	ToModel(entity *domain.Category) *CategoryModel
	ToEntity(model *CategoryModel) *domain.Category
}

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
}

type CustomerConverter interface {
	ToModel(entity *domain.Customer) *CustomerModel
	ToEntity(model *CustomerModel) *domain.Customer
}

type StockConverter interface {
	ToEntity(model *StockEntryModel) *domain.StockEntry
	MovementToModel(entity *domain.StockMovement) *StockMovementModel
	MovementToEntity(model *StockMovementModel) *domain.StockMovement
}

// OrderConverter собирает заказ из строк orders, line_items и payments.
type OrderConverter interface {
	ToEntity(model *OrderModel, items []*LineItemModel, payments []*PaymentModel) *domain.Order
	LineItemToEntity(model *LineItemModel) *domain.LineItem
	PaymentToEntity(model *PaymentModel) *domain.Payment
}

// OutboxEventConverter преобразует сущности OutboxEvent между domain и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *domain.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *domain.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*domain.OutboxEvent
}

type CategoryConv struct{}

func (CategoryConv) ToModel(entity *domain.Category) *CategoryModel {
	return &CategoryModel{
		ID:           entity.ID,
		Name:         entity.Name,
		DisplayOrder: entity.DisplayOrder,
		CreatedAt:    entity.CreatedAt,
		UpdatedAt:    entity.UpdatedAt,
	}
}

func (CategoryConv) ToEntity(model *CategoryModel) *domain.Category {
	return &domain.Category{
		ID:           model.ID,
		Name:         model.Name,
		DisplayOrder: model.DisplayOrder,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

type ProductConv struct{}

func (ProductConv) ToModel(entity *domain.Product) *ProductModel {
	return &ProductModel{
		ID:         entity.ID,
		Name:       entity.Name,
		Price:      entity.Price,
		CategoryID: entity.CategoryID,
		ImageKey:   entity.ImageKey,
		CreatedAt:  entity.CreatedAt,
		UpdatedAt:  entity.UpdatedAt,
	}
}

func (ProductConv) ToEntity(model *ProductModel) *domain.Product {
	return &domain.Product{
		ID:         model.ID,
		Name:       model.Name,
		Price:      model.Price,
		CategoryID: model.CategoryID,
		ImageKey:   model.ImageKey,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

type CustomerConv struct{}

func (CustomerConv) ToModel(entity *domain.Customer) *CustomerModel {
	return &CustomerModel{
		ID:        entity.ID,
		Name:      entity.Name,
		TaxID:     entity.TaxID,
		BirthDate: entity.BirthDate,
		CreatedAt: entity.CreatedAt,
		UpdatedAt: entity.UpdatedAt,
	}
}

func (CustomerConv) ToEntity(model *CustomerModel) *domain.Customer {
	return &domain.Customer{
		ID:        model.ID,
		Name:      model.Name,
		TaxID:     model.TaxID,
		BirthDate: model.BirthDate,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

type StockConv struct{}

func (StockConv) ToEntity(model *StockEntryModel) *domain.StockEntry {
	return &domain.StockEntry{
		ProductID: model.ProductID,
		Quantity:  model.Quantity,
		Reserved:  model.Reserved,
		UpdatedAt: model.UpdatedAt,
	}
}

func (StockConv) MovementToModel(entity *domain.StockMovement) *StockMovementModel {
	return &StockMovementModel{
		ID:            entity.ID,
		ProductID:     entity.ProductID,
		Kind:          string(entity.Kind),
		Delta:         entity.Delta,
		QuantityAfter: entity.QuantityAfter,
		ReservedAfter: entity.ReservedAfter,
		OrderID:       entity.OrderID,
		CreatedAt:     entity.CreatedAt,
	}
}

func (StockConv) MovementToEntity(model *StockMovementModel) *domain.StockMovement {
	return &domain.StockMovement{
		ID:            model.ID,
		ProductID:     model.ProductID,
		Kind:          domain.MovementKind(model.Kind),
		Delta:         model.Delta,
		QuantityAfter: model.QuantityAfter,
		ReservedAfter: model.ReservedAfter,
		OrderID:       model.OrderID,
		CreatedAt:     model.CreatedAt,
	}
}

type OrderConv struct{}

func (c OrderConv) ToEntity(model *OrderModel, items []*LineItemModel, payments []*PaymentModel) *domain.Order {
	order := &domain.Order{
		ID:         model.ID,
		CustomerID: model.CustomerID,
		Status:     domain.OrderStatus(model.Status),
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
		Items:      make([]*domain.LineItem, 0, len(items)),
		Payments:   make([]*domain.Payment, 0, len(payments)),
	}
	for _, item := range items {
		order.Items = append(order.Items, c.LineItemToEntity(item))
	}
	for _, payment := range payments {
		order.Payments = append(order.Payments, c.PaymentToEntity(payment))
	}
	return order
}

func (OrderConv) LineItemToEntity(model *LineItemModel) *domain.LineItem {
	return &domain.LineItem{
		ID:        model.ID,
		OrderID:   model.OrderID,
		ProductID: model.ProductID,
		Quantity:  model.Quantity,
		UnitPrice: model.UnitPrice,
		CreatedAt: model.CreatedAt,
	}
}

func (OrderConv) PaymentToEntity(model *PaymentModel) *domain.Payment {
	return &domain.Payment{
		ID:           model.ID,
		OrderID:      model.OrderID,
		Amount:       model.Amount,
		Method:       domain.PaymentMethod(model.Method),
		Type:         domain.PaymentType(model.Type),
		Installments: model.Installments,
		CreatedAt:    model.CreatedAt,
	}
}

type OutboxEventConv struct{}

func (OutboxEventConv) ToModel(entity *domain.OutboxEvent) *OutboxEventModel {
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		OrderID:     entity.OrderID,
		Payload:     []byte(entity.Payload),
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (OutboxEventConv) ToEntity(model *OutboxEventModel) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   domain.EventType(model.EventType),
		OrderID:     model.OrderID,
		Payload:     model.Payload,
		Status:      domain.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c OutboxEventConv) ToArrEntity(models []*OutboxEventModel) []*domain.OutboxEvent {
	result := make([]*domain.OutboxEvent, 0, len(models))
	for _, m := range models {
		result = append(result, c.ToEntity(m))
	}
	return result
}
