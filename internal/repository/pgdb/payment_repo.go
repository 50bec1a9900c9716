package pgdb

import (
	"context"

	"github.com/DRSN-tech/order-backoffice/internal/domain"
	"github.com/DRSN-tech/order-backoffice/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/order-backoffice/pkg/e"
	"github.com/DRSN-tech/order-backoffice/pkg/tr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const paymentColumns = `id, order_id, amount, method, type, installments, created_at`

type PaymentRepo struct {
	pool *pgxpool.Pool
	conv converter.OrderConverter
}

func NewPaymentRepo(pool *pgxpool.Pool, conv converter.OrderConverter) *PaymentRepo {
	return &PaymentRepo{pool: pool, conv: conv}
}

func scanPayment(row interface{ Scan(dest ...any) error }) (*converter.PaymentModel, error) {
	var model converter.PaymentModel
	if err := row.Scan(
		&model.ID, &model.OrderID, &model.Amount, &model.Method,
		&model.Type, &model.Installments, &model.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &model, nil
}

// Create сохраняет платёж. Платежи не изменяются и не удаляются отдельно от заказа.
func (p *PaymentRepo) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	query := `
		INSERT INTO payments (order_id, amount, method, type, installments)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + paymentColumns

	model, err := scanPayment(tr.Conn(ctx, p.pool).QueryRow(ctx, query,
		payment.OrderID, payment.Amount, string(payment.Method), string(payment.Type), payment.Installments,
	))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), writeErr(err))
	}

	return p.conv.PaymentToEntity(model), nil
}

func (p *PaymentRepo) ListByOrder(ctx context.Context, orderID int64) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE order_id = $1 ORDER BY id`

	rows, err := tr.Conn(ctx, p.pool).Query(ctx, query, orderID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]*domain.Payment, 0)
	for rows.Next() {
		model, err := scanPayment(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, p.conv.PaymentToEntity(model))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
