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
	"github.com/shopspring/decimal"
)

const productColumns = `id, name, price, category_id, image_key, created_at, updated_at`

// ProductRepo реализует репозиторий продуктов поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

func scanProduct(row interface{ Scan(dest ...any) error }) (*converter.ProductModel, error) {
	var model converter.ProductModel
	if err := row.Scan(
		&model.ID, &model.Name, &model.Price, &model.CategoryID,
		&model.ImageKey, &model.CreatedAt, &model.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &model, nil
}

// Create сохраняет продукт. Несуществующая категория даёт ErrNotFound.
func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	model := p.conv.ToModel(product)
	query := `
		INSERT INTO products (name, price, category_id)
		VALUES ($1, $2, $3)
		RETURNING ` + productColumns

	created, err := scanProduct(tr.Conn(ctx, p.pool).QueryRow(ctx, query, model.Name, model.Price, model.CategoryID))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), writeErr(err))
	}

	return p.conv.ToEntity(created), nil
}

func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	model := p.conv.ToModel(product)
	query := `
		UPDATE products
		SET name = $2, price = $3, category_id = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + productColumns

	updated, err := scanProduct(tr.Conn(ctx, p.pool).QueryRow(ctx, query,
		model.ID, model.Name, model.Price, model.CategoryID,
	))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), writeErr(err))
	}

	return p.conv.ToEntity(updated), nil
}

// Delete удаляет продукт. Если товар есть в строках заказов, возвращается ErrInUse.
func (p *ProductRepo) Delete(ctx context.Context, id int64) error {
	tag, err := tr.Conn(ctx, p.pool).Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), deleteErr(err))
	}

	if err := rowsAffectedOrNotFound(tag); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	model, err := scanProduct(tr.Conn(ctx, p.pool).QueryRow(ctx, query, id))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), readErr(err))
	}

	return p.conv.ToEntity(model), nil
}

// List возвращает продукты, при заданном categoryID только из этой категории.
func (p *ProductRepo) List(ctx context.Context, categoryID *int64) ([]*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE $1::BIGINT IS NULL OR category_id = $1
		ORDER BY name
	`

	rows, err := tr.Conn(ctx, p.pool).Query(ctx, query, categoryID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]*domain.Product, 0)
	for rows.Next() {
		model, err := scanProduct(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, p.conv.ToEntity(model))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

func (p *ProductRepo) SetImageKey(ctx context.Context, id int64, key *string) error {
	tag, err := tr.Conn(ctx, p.pool).Exec(ctx,
		`UPDATE products SET image_key = $2, updated_at = NOW() WHERE id = $1`, id, key,
	)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := rowsAffectedOrNotFound(tag); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// GetProductsInfo возвращает информацию о продуктах по их идентификаторам.
// Отсутствующие идентификаторы молча пропускаются.
func (p *ProductRepo) GetProductsInfo(ctx context.Context, ids []int64) ([]*domain.ProductInfo, error) {
	query := `
		SELECT id, name, price, category_id, image_key
		FROM products
		WHERE id = ANY($1)
	`

	rows, err := tr.Conn(ctx, p.pool).Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]*domain.ProductInfo, 0, len(ids))
	for rows.Next() {
		var info domain.ProductInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.Price, &info.CategoryID, &info.ImageKey); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, &info)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

func (p *ProductRepo) Search(ctx context.Context, query string, limit int) ([]usecase.SearchResult, error) {
	sql := `
		SELECT id, name, price, image_key
		FROM products
		WHERE name ILIKE $1
		ORDER BY name
		LIMIT $2
	`

	rows, err := tr.Conn(ctx, p.pool).Query(ctx, sql, likePattern(query), limit)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]usecase.SearchResult, 0)
	for rows.Next() {
		var (
			r     usecase.SearchResult
			price decimal.Decimal
		)
		if err := rows.Scan(&r.ID, &r.Name, &price, &r.Image); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		r.Price = &price
		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
