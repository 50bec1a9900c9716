package pgdb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/DRSN-tech/order-backoffice/pkg/e"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// writeErr переводит ошибки INSERT/UPDATE в доменные: нарушение внешнего ключа
// означает, что связанная запись не найдена.
func writeErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %w", e.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%w: %s", e.ErrNotFound, pgErr.ConstraintName)
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return fmt.Errorf("%w: %s", e.ErrValidation, pgErr.ConstraintName)
		}
	}

	return err
}

// deleteErr переводит ошибки DELETE: на запись ссылаются другие (ON DELETE RESTRICT).
func deleteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
		return fmt.Errorf("%w: %s", e.ErrInUse, pgErr.ConstraintName)
	}

	return err
}

func readErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %w", e.ErrNotFound, err)
	}
	return err
}

func postgresDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// rowsAffectedOrNotFound возвращает ErrNotFound, если запрос не затронул ни одной строки.
func rowsAffectedOrNotFound(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return e.ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern строит шаблон ILIKE для поиска подстроки.
func likePattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}
