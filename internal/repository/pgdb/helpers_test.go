package pgdb

import (
	"errors"
	"testing"

	"github.com/DRSN-tech/order-backoffice/pkg/e"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWriteErr(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{name: "no rows", err: pgx.ErrNoRows, target: e.ErrNotFound},
		{name: "foreign key", err: &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "products_category_id_fkey"}, target: e.ErrNotFound},
		{name: "check", err: &pgconn.PgError{Code: pgerrcode.CheckViolation}, target: e.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, writeErr(tt.err), tt.target)
		})
	}
}

func TestWriteErrPassesThroughUnknown(t *testing.T) {
	boom := errors.New("boom")
	assert.Equal(t, boom, writeErr(boom))
}

func TestDeleteErrRestrict(t *testing.T) {
	err := deleteErr(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "orders_customer_id_fkey"})

	assert.ErrorIs(t, err, e.ErrInUse)
	assert.Contains(t, err.Error(), "orders_customer_id_fkey")
}

func TestReadErr(t *testing.T) {
	assert.ErrorIs(t, readErr(pgx.ErrNoRows), e.ErrNotFound)
	assert.False(t, errors.Is(readErr(errors.New("conn reset")), e.ErrNotFound))
}

func TestPostgresDuplicate(t *testing.T) {
	assert.True(t, postgresDuplicate(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
	assert.False(t, postgresDuplicate(errors.New("x")))
}

func TestRowsAffectedOrNotFound(t *testing.T) {
	assert.ErrorIs(t, rowsAffectedOrNotFound(pgconn.NewCommandTag("DELETE 0")), e.ErrNotFound)
	assert.NoError(t, rowsAffectedOrNotFound(pgconn.NewCommandTag("DELETE 1")))
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, `%caf\%\_1%`, likePattern("caf%_1"))
	assert.Equal(t, "%bolo%", likePattern("bolo"))
}
