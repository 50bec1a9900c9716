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

// StockRepo хранит остатки товаров и журнал их движения.
type StockRepo struct {
	pool *pgxpool.Pool
	conv converter.StockConverter
}

func NewStockRepo(pool *pgxpool.Pool, conv converter.StockConverter) *StockRepo {
	return &StockRepo{pool: pool, conv: conv}
}

// GetOrCreateForUpdate создаёт нулевую запись остатка при необходимости и блокирует её
// до конца транзакции. Вызывается только внутри TxManager.Do.
func (s *StockRepo) GetOrCreateForUpdate(ctx context.Context, productID int64) (*domain.StockEntry, error) {
	conn := tr.Conn(ctx, s.pool)

	if _, err := conn.Exec(ctx, `
		INSERT INTO stock_entries (product_id) VALUES ($1)
		ON CONFLICT (product_id) DO NOTHING
	`, productID); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), writeErr(err))
	}

	query := `
		SELECT product_id, quantity, reserved, updated_at
		FROM stock_entries
		WHERE product_id = $1
		FOR UPDATE
	`

	var model converter.StockEntryModel
	if err := conn.QueryRow(ctx, query, productID).
		Scan(&model.ProductID, &model.Quantity, &model.Reserved, &model.UpdatedAt); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), readErr(err))
	}

	return s.conv.ToEntity(&model), nil
}

func (s *StockRepo) Save(ctx context.Context, entry *domain.StockEntry) error {
	query := `
		UPDATE stock_entries
		SET quantity = $2, reserved = $3, updated_at = NOW()
		WHERE product_id = $1
	`

	tag, err := tr.Conn(ctx, s.pool).Exec(ctx, query, entry.ProductID, entry.Quantity, entry.Reserved)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), writeErr(err))
	}

	if err := rowsAffectedOrNotFound(tag); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (s *StockRepo) AddMovement(ctx context.Context, movement *domain.StockMovement) error {
	model := s.conv.MovementToModel(movement)
	query := `
		INSERT INTO stock_movements (product_id, kind, delta, quantity_after, reserved_after, order_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	if err := tr.Conn(ctx, s.pool).QueryRow(ctx, query,
		model.ProductID, model.Kind, model.Delta, model.QuantityAfter, model.ReservedAfter, model.OrderID,
	).Scan(&movement.ID, &movement.CreatedAt); err != nil {
		return e.Wrap(whereami.WhereAmI(), writeErr(err))
	}

	return nil
}

// ListMovements возвращает последние движения по товару, новые первыми.
func (s *StockRepo) ListMovements(ctx context.Context, productID int64, limit int) ([]*domain.StockMovement, error) {
	query := `
		SELECT id, product_id, kind, delta, quantity_after, reserved_after, order_id, created_at
		FROM stock_movements
		WHERE product_id = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := tr.Conn(ctx, s.pool).Query(ctx, query, productID, limit)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]*domain.StockMovement, 0)
	for rows.Next() {
		var model converter.StockMovementModel
		if err := rows.Scan(
			&model.ID, &model.ProductID, &model.Kind, &model.Delta,
			&model.QuantityAfter, &model.ReservedAfter, &model.OrderID, &model.CreatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, s.conv.MovementToEntity(&model))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

func (s *StockRepo) CommittedQuantity(ctx context.Context, orderID, productID int64) (int64, error) {
	query := `
		SELECT COALESCE(-SUM(delta), 0)
		FROM stock_movements
		WHERE order_id = $1 AND product_id = $2 AND kind = $3
	`

	var committed int64
	if err := tr.Conn(ctx, s.pool).QueryRow(ctx, query, orderID, productID, string(domain.MovementCommit)).
		Scan(&committed); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return committed, nil
}
