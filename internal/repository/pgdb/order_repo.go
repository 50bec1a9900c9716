package pgdb

import (
	"context"

	"github.com/DRSN-tech/order-backoffice/internal/domain"
	"github.com/DRSN-tech/order-backoffice/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/order-backoffice/internal/usecase"
	"github.com/DRSN-tech/order-backoffice/pkg/e"
	"github.com/DRSN-tech/order-backoffice/pkg/tr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const orderColumns = `id, customer_id, status, created_at, updated_at`

// OrderRepo загружает заказ целиком: строка orders, строки заказа и платежи.
type OrderRepo struct {
	pool *pgxpool.Pool
	conv converter.OrderConverter
}

func NewOrderRepo(pool *pgxpool.Pool, conv converter.OrderConverter) *OrderRepo {
	return &OrderRepo{pool: pool, conv: conv}
}

func scanOrder(row interface{ Scan(dest ...any) error }) (*converter.OrderModel, error) {
	var model converter.OrderModel
	if err := row.Scan(&model.ID, &model.CustomerID, &model.Status, &model.CreatedAt, &model.UpdatedAt); err != nil {
		return nil, err
	}
	return &model, nil
}

// Create создаёт заказ. Несуществующий клиент даёт ErrNotFound.
func (o *OrderRepo) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	query := `
		INSERT INTO orders (customer_id, status)
		VALUES ($1, $2)
		RETURNING ` + orderColumns

	model, err := scanOrder(tr.Conn(ctx, o.pool).QueryRow(ctx, query, order.CustomerID, string(order.Status)))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), writeErr(err))
	}

	return o.conv.ToEntity(model, nil, nil), nil
}

func (o *OrderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	return o.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUpdate блокирует строку заказа до конца транзакции. Параллельные
// платежи и отмена по одному заказу выполняются строго по очереди.
func (o *OrderRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Order, error) {
	return o.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (o *OrderRepo) get(ctx context.Context, query string, id int64) (*domain.Order, error) {
	model, err := scanOrder(tr.Conn(ctx, o.pool).QueryRow(ctx, query, id))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), readErr(err))
	}

	items, err := o.items(ctx, []int64{id})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	payments, err := o.payments(ctx, []int64{id})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToEntity(model, items[id], payments[id]), nil
}

// List возвращает заказы по фильтру, новые первыми.
func (o *OrderRepo) List(ctx context.Context, filter usecase.OrderFilter) ([]*domain.Order, error) {
	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}

	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE ($1::TEXT IS NULL OR status = $1)
		  AND ($2::BIGINT IS NULL OR customer_id = $2)
		ORDER BY id DESC
	`

	rows, err := tr.Conn(ctx, o.pool).Query(ctx, query, status, filter.CustomerID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var (
		models []*converter.OrderModel
		ids    []int64
	)
	for rows.Next() {
		model, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		models = append(models, model)
		ids = append(ids, model.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	result := make([]*domain.Order, 0, len(models))
	if len(models) == 0 {
		return result, nil
	}

	items, err := o.items(ctx, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	payments, err := o.payments(ctx, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	for _, model := range models {
		result = append(result, o.conv.ToEntity(model, items[model.ID], payments[model.ID]))
	}

	return result, nil
}

// UpdateStatus меняет статус, только если текущий равен from.
func (o *OrderRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus) (bool, error) {
	query := `
		UPDATE orders
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	tag, err := tr.Conn(ctx, o.pool).Exec(ctx, query, id, string(from), string(to))
	if err != nil {
		return false, e.Wrap(whereami.WhereAmI(), writeErr(err))
	}

	return tag.RowsAffected() == 1, nil
}

// Delete удаляет заказ вместе со строками и платежами (ON DELETE CASCADE).
func (o *OrderRepo) Delete(ctx context.Context, id int64) error {
	tag, err := tr.Conn(ctx, o.pool).Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), deleteErr(err))
	}

	if err := rowsAffectedOrNotFound(tag); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (o *OrderRepo) items(ctx context.Context, orderIDs []int64) (map[int64][]*converter.LineItemModel, error) {
	query := `
		SELECT id, order_id, product_id, quantity, unit_price, created_at
		FROM line_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`

	rows, err := tr.Conn(ctx, o.pool).Query(ctx, query, orderIDs)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make(map[int64][]*converter.LineItemModel, len(orderIDs))
	for rows.Next() {
		var model converter.LineItemModel
		if err := rows.Scan(
			&model.ID, &model.OrderID, &model.ProductID, &model.Quantity, &model.UnitPrice, &model.CreatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result[model.OrderID] = append(result[model.OrderID], &model)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

func (o *OrderRepo) payments(ctx context.Context, orderIDs []int64) (map[int64][]*converter.PaymentModel, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE order_id = ANY($1)
		ORDER BY id
	`

	rows, err := tr.Conn(ctx, o.pool).Query(ctx, query, orderIDs)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make(map[int64][]*converter.PaymentModel, len(orderIDs))
	for rows.Next() {
		model, err := scanPayment(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result[model.OrderID] = append(result[model.OrderID], model)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
