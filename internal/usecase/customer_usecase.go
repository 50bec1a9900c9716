package usecase

import (
	"context"
	"strings"

	"github.com/DRSN-tech/order-backoffice/internal/domain"
	"github.com/DRSN-tech/order-backoffice/pkg/e"
	"github.com/DRSN-tech/order-backoffice/pkg/logger"
)

type CustomerUseCase struct {
	customerRepo CustomerRepository
	logger       logger.Logger
}

func NewCustomerUC(customerRepo CustomerRepository, logger logger.Logger) *CustomerUseCase {
	return &CustomerUseCase{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

func (c *CustomerUseCase) Create(ctx context.Context, req *CustomerReq) (*domain.Customer, error) {
	const op = "CustomerUseCase.Create"

	if err := c.validate(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	customer, err := c.customerRepo.Create(ctx, domain.NewCustomer(req.Name, req.TaxID, req.BirthDate))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return customer, nil
}

func (c *CustomerUseCase) Update(ctx context.Context, id int64, req *CustomerReq) (*domain.Customer, error) {
	const op = "CustomerUseCase.Update"

	if err := c.validate(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	customer := domain.NewCustomer(req.Name, req.TaxID, req.BirthDate)
	customer.ID = id

	updated, err := c.customerRepo.Update(ctx, customer)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return updated, nil
}

// Delete удаляет клиента. Клиент с заказами не удаляется (e.ErrInUse).
func (c *CustomerUseCase) Delete(ctx context.Context, id int64) error {
	const op = "CustomerUseCase.Delete"

	if err := c.customerRepo.Delete(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func (c *CustomerUseCase) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	const op = "CustomerUseCase.Get"

	customer, err := c.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return customer, nil
}

func (c *CustomerUseCase) List(ctx context.Context) ([]*domain.Customer, error) {
	const op = "CustomerUseCase.List"

	customers, err := c.customerRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return customers, nil
}

func (c *CustomerUseCase) validate(req *CustomerReq) error {
	req.Name = strings.TrimSpace(req.Name)
	req.TaxID = strings.TrimSpace(req.TaxID)
	return validateStruct(req)
}
