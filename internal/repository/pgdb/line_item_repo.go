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

type LineItemRepo struct {
	pool *pgxpool.Pool
	conv converter.OrderConverter
}

func NewLineItemRepo(pool *pgxpool.Pool, conv converter.OrderConverter) *LineItemRepo {
	return &LineItemRepo{pool: pool, conv: conv}
}

func (l *LineItemRepo) Create(ctx context.Context, item *domain.LineItem) (*domain.LineItem, error) {
	query := `
		INSERT INTO line_items (order_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, order_id, product_id, quantity, unit_price, created_at
	`

	var model converter.LineItemModel
	if err := tr.Conn(ctx, l.pool).QueryRow(ctx, query,
		item.OrderID, item.ProductID, item.Quantity, item.UnitPrice,
	).Scan(
		&model.ID, &model.OrderID, &model.ProductID, &model.Quantity, &model.UnitPrice, &model.CreatedAt,
	); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), writeErr(err))
	}

	return l.conv.LineItemToEntity(&model), nil
}

func (l *LineItemRepo) GetByID(ctx context.Context, id int64) (*domain.LineItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, unit_price, created_at
		FROM line_items
		WHERE id = $1
	`

	var model converter.LineItemModel
	if err := tr.Conn(ctx, l.pool).QueryRow(ctx, query, id).Scan(
		&model.ID, &model.OrderID, &model.ProductID, &model.Quantity, &model.UnitPrice, &model.CreatedAt,
	); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), readErr(err))
	}

	return l.conv.LineItemToEntity(&model), nil
}

func (l *LineItemRepo) Delete(ctx context.Context, id int64) error {
	tag, err := tr.Conn(ctx, l.pool).Exec(ctx, `DELETE FROM line_items WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), deleteErr(err))
	}

	if err := rowsAffectedOrNotFound(tag); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
