package usecase

import (
	"context"
	"fmt"

	"github.com/DRSN-tech/order-backoffice/internal/domain"
	"github.com/DRSN-tech/order-backoffice/pkg/e"
	"github.com/DRSN-tech/order-backoffice/pkg/logger"
	"github.com/DRSN-tech/order-backoffice/pkg/money"
	"github.com/shopspring/decimal"
)

// Settler оценивает заказ после записи платежа и закрывает его, если долг погашен.
type Settler interface {
	Evaluate(ctx context.Context, order *domain.Order) (bool, error)
}

// PaymentUseCase ведёт платежи по заказам.
type PaymentUseCase struct {
	orderRepo       OrderRepository
	paymentRepo     PaymentRepository
	idempotencyRepo IdempotencyRepository
	settler         Settler
	trm             TxManager
	logger          logger.Logger
}

func NewPaymentUC(
	orderRepo OrderRepository,
	paymentRepo PaymentRepository,
	idempotencyRepo IdempotencyRepository,
	settler Settler,
	trm TxManager,
	logger logger.Logger,
) *PaymentUseCase {
	return &PaymentUseCase{
		orderRepo:       orderRepo,
		paymentRepo:     paymentRepo,
		idempotencyRepo: idempotencyRepo,
		settler:         settler,
		trm:             trm,
		logger:          logger,
	}
}

func (p *PaymentUseCase) AmountPaid(order *domain.Order) decimal.Decimal {
	return order.AmountPaid()
}

func (p *PaymentUseCase) RemainingDebt(order *domain.Order) decimal.Decimal {
	return order.RemainingDebt()
}

// ValidateNewPayment проверяет платёж против текущего долга заказа и нормализует число платежей.
func (p *PaymentUseCase) ValidateNewPayment(order *domain.Order, in *PaymentInput) (*ValidatedPayment, error) {
	amount, err := money.Parse(in.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", e.ErrInvalidAmountFormat, err)
	}

	if !amount.IsPositive() {
		return nil, e.ErrAmountMustBePositive
	}

	if remaining := order.RemainingDebt(); amount.GreaterThan(remaining) {
		return nil, &e.DebtExceededError{Amount: amount, RemainingDebt: remaining}
	}

	installments, err := domain.NormalizeInstallments(in.Type, in.Installments)
	if err != nil {
		return nil, err
	}

	return &ValidatedPayment{
		Amount:       amount,
		Type:         in.Type,
		Installments: installments,
	}, nil
}

// RegisterPayment записывает платёж и в той же транзакции запускает расчёт по заказу.
// Заказ блокируется на время проверки и вставки.
func (p *PaymentUseCase) RegisterPayment(ctx context.Context, req *RegisterPaymentReq) (*RegisterPaymentRes, error) {
	const op = "PaymentUseCase.RegisterPayment"

	method, err := domain.ParsePaymentMethod(req.Method)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	paymentType, err := domain.ParsePaymentType(req.Type)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if req.IdempotencyKey != "" {
		key := fmt.Sprintf("payment:%d:%s", req.OrderID, req.IdempotencyKey)
		if err := p.reserveKey(ctx, key); err != nil {
			return nil, e.Wrap(op, err)
		}
		defer func() {
			if err != nil {
				p.releaseKey(key)
			}
		}()
	}

	var res *RegisterPaymentRes
	err = p.trm.Do(ctx, func(ctx context.Context) error {
		order, err := p.orderRepo.GetForUpdate(ctx, req.OrderID)
		if err != nil {
			return err
		}
		if !order.IsOpen() {
			return e.ErrOrderClosed
		}

		valid, err := p.ValidateNewPayment(order, &PaymentInput{
			Amount:       req.Amount,
			Type:         paymentType,
			Installments: req.Installments,
		})
		if err != nil {
			return err
		}

		payment, err := p.paymentRepo.Create(ctx, domain.NewPayment(order.ID, valid.Amount, method, valid.Type, valid.Installments))
		if err != nil {
			return err
		}
		order.Payments = append(order.Payments, payment)

		settled, err := p.settler.Evaluate(ctx, order)
		if err != nil {
			return err
		}

		res = &RegisterPaymentRes{Payment: payment, Summary: NewOrderSummary(order), Settled: settled}
		return nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.logger.Infof("payment %d registered for order %d: amount=%s remaining=%s",
		res.Payment.ID, req.OrderID, res.Payment.Amount.StringFixed(money.Places), res.Summary.RemainingDebt.StringFixed(money.Places))
	return res, nil
}

// reserveKey занимает ключ идемпотентности. При недоступности Redis запрос пропускается.
func (p *PaymentUseCase) reserveKey(ctx context.Context, key string) error {
	ok, err := p.idempotencyRepo.Reserve(ctx, key)
	if err != nil {
		p.logger.Warnf("idempotency store unavailable, key %s not reserved: %v", key, err)
		return nil
	}
	if !ok {
		return e.ErrDuplicateRequest
	}
	return nil
}

func (p *PaymentUseCase) releaseKey(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
	defer cancel()

	if err := p.idempotencyRepo.Release(ctx, key); err != nil {
		p.logger.Warnf("failed to release idempotency key %s: %v", key, err)
	}
}
