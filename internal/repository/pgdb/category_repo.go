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

const categoryColumns = `id, name, display_order, created_at, updated_at`

// CategoryRepo реализует репозиторий категорий поверх PostgreSQL.
type CategoryRepo struct {
	pool *pgxpool.Pool
	conv converter.CategoryConverter
}

func NewCategoryRepo(pool *pgxpool.Pool, conv converter.CategoryConverter) *CategoryRepo {
	return &CategoryRepo{pool: pool, conv: conv}
}

func scanCategory(row interface{ Scan(dest ...any) error }) (*converter.CategoryModel, error) {
	var model converter.CategoryModel
	if err := row.Scan(&model.ID, &model.Name, &model.DisplayOrder, &model.CreatedAt, &model.UpdatedAt); err != nil {
		return nil, err
	}
	return &model, nil
}

func (c *CategoryRepo) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	model := c.conv.ToModel(category)
	query := `
		INSERT INTO categories (name, display_order)
		VALUES ($1, $2)
		RETURNING ` + categoryColumns

	created, err := scanCategory(tr.Conn(ctx, c.pool).QueryRow(ctx, query, model.Name, model.DisplayOrder))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), writeErr(err))
	}

	return c.conv.ToEntity(created), nil
}

func (c *CategoryRepo) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	model := c.conv.ToModel(category)
	query := `
		UPDATE categories
		SET name = $2, display_order = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + categoryColumns

	updated, err := scanCategory(tr.Conn(ctx, c.pool).QueryRow(ctx, query, model.ID, model.Name, model.DisplayOrder))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), writeErr(err))
	}

	return c.conv.ToEntity(updated), nil
}

// Delete удаляет категорию вместе с её товарами (ON DELETE CASCADE).
func (c *CategoryRepo) Delete(ctx context.Context, id int64) error {
	tag, err := tr.Conn(ctx, c.pool).Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), deleteErr(err))
	}

	if err := rowsAffectedOrNotFound(tag); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *CategoryRepo) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	model, err := scanCategory(tr.Conn(ctx, c.pool).QueryRow(ctx, query, id))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), readErr(err))
	}

	return c.conv.ToEntity(model), nil
}

// List возвращает категории в порядке отображения.
func (c *CategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY display_order, name`

	rows, err := tr.Conn(ctx, c.pool).Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]*domain.Category, 0)
	for rows.Next() {
		model, err := scanCategory(rows)
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

func (c *CategoryRepo) Search(ctx context.Context, query string, limit int) ([]usecase.SearchResult, error) {
	sql := `
		SELECT id, name
		FROM categories
		WHERE name ILIKE $1
		ORDER BY display_order, name
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
