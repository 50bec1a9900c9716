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

const customerColumns = `id, name, tax_id, birth_date, created_at, updated_at`

type CustomerRepo struct {
	pool *pgxpool.Pool
	conv converter.CustomerConverter
}

func NewCustomerRepo(pool *pgxpool.Pool, conv converter.CustomerConverter) *CustomerRepo {
	return &CustomerRepo{pool: pool, conv: conv}
}

func scanCustomer(row interface{ Scan(dest ...any) error }) (*converter.CustomerModel, error) {
	var model converter.CustomerModel
	if err := row.Scan(
		&model.ID, &model.Name, &model.TaxID, &model.BirthDate, &model.CreatedAt, &model.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &model, nil
}

func (c *CustomerRepo) Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	model := c.conv.ToModel(customer)
	query := `
		INSERT INTO customers (name, tax_id, birth_date)
		VALUES ($1, $2, $3)
		RETURNING ` + customerColumns

	created, err := scanCustomer(tr.Conn(ctx, c.pool).QueryRow(ctx, query, model.Name, model.TaxID, model.BirthDate))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), writeErr(err))
	}

	return c.conv.ToEntity(created), nil
}

func (c *CustomerRepo) Update(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	model := c.conv.ToModel(customer)
	query := `
		UPDATE customers
		SET name = $2, tax_id = $3, birth_date = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + customerColumns

	updated, err := scanCustomer(tr.Conn(ctx, c.pool).QueryRow(ctx, query,
		model.ID, model.Name, model.TaxID, model.BirthDate,
	))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), writeErr(err))
	}

	return c.conv.ToEntity(updated), nil
}

// Delete удаляет клиента. Клиент с заказами не удаляется (ErrInUse).
func (c *CustomerRepo) Delete(ctx context.Context, id int64) error {
	tag, err := tr.Conn(ctx, c.pool).Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), deleteErr(err))
	}

	if err := rowsAffectedOrNotFound(tag); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *CustomerRepo) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	model, err := scanCustomer(tr.Conn(ctx, c.pool).QueryRow(ctx, query, id))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), readErr(err))
	}

	return c.conv.ToEntity(model), nil
}

func (c *CustomerRepo) List(ctx context.Context) ([]*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY name, id`

	rows, err := tr.Conn(ctx, c.pool).Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]*domain.Customer, 0)
	for rows.Next() {
		model, err := scanCustomer(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, c.conv.ToEntity(model))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

// Search ищет клиентов по имени или ИНН.
func (c *CustomerRepo) Search(ctx context.Context, query string, limit int) ([]usecase.SearchResult, error) {
	sql := `
		SELECT id, name
		FROM customers
		WHERE name ILIKE $1 OR tax_id ILIKE $1
		ORDER BY name
		LIMIT $2
	`

	rows, err := tr.Conn(ctx, c.pool).Query(ctx, sql, likePattern(query), limit)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]usecase.SearchResult, 0)
	for rows.Next() {
		var r usecase.SearchResult
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
