package domain

import (
	"errors"
	"testing"

	"github.com/DRSN-tech/order-backoffice/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockAdjustClampsAtZero(t *testing.T) {
	tests := []struct {
		name  string
		start int64
		delta int64
		want  int64
	}{
		{name: "increment", start: 2, delta: 3, want: 5},
		{name: "decrement", start: 5, delta: -2, want: 3},
		{name: "decrement to zero", start: 2, delta: -2, want: 0},
		{name: "excess decrement clamps", start: 2, delta: -10, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &StockEntry{ProductID: 1, Quantity: tt.start}
			s.Adjust(tt.delta)
			assert.Equal(t, tt.want, s.Quantity)
		})
	}
}

func TestStockSetAbsolute(t *testing.T) {
	s := &StockEntry{ProductID: 1, Quantity: 4}

	require.NoError(t, s.SetAbsolute(10))
	assert.Equal(t, int64(10), s.Quantity)

	err := s.SetAbsolute(-1)
	assert.ErrorIs(t, err, e.ErrValidation)
	assert.Equal(t, int64(10), s.Quantity)
}

func TestStockReserveRejectsOverAvailable(t *testing.T) {
	s := &StockEntry{ProductID: 7, Quantity: 3}

	err := s.Reserve(5)
	require.ErrorIs(t, err, e.ErrInsufficientStock)

	var stockErr *e.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, int64(7), stockErr.ProductID)
	assert.Equal(t, int64(5), stockErr.Requested)
	assert.Equal(t, int64(3), stockErr.Available)

	assert.Equal(t, int64(3), s.Quantity)
	assert.Equal(t, int64(0), s.Reserved)
}

func TestStockReserveReleaseRoundTrip(t *testing.T) {
	s := &StockEntry{ProductID: 1, Quantity: 10}
	before := s.Available()

	require.NoError(t, s.Reserve(4))
	assert.Equal(t, int64(6), s.Available())

	s.Release(4)
	assert.Equal(t, before, s.Available())
	assert.Equal(t, int64(0), s.Reserved)
}

func TestStockCommitAndReturn(t *testing.T) {
	s := &StockEntry{ProductID: 1, Quantity: 10}
	require.NoError(t, s.Reserve(3))

	s.Commit(3)
	assert.Equal(t, int64(7), s.Quantity)
	assert.Equal(t, int64(0), s.Reserved)
	assert.Equal(t, int64(7), s.Available())

	s.Return(3)
	assert.Equal(t, int64(10), s.Quantity)
}

func TestStockNeverNegative(t *testing.T) {
	s := &StockEntry{ProductID: 1, Quantity: 1, Reserved: 1}

	s.Release(5)
	s.Commit(5)
	s.Adjust(-5)

	assert.Equal(t, int64(0), s.Quantity)
	assert.Equal(t, int64(0), s.Reserved)
	assert.Equal(t, int64(0), s.Available())
}

func TestStockAvailableWhenOverReserved(t *testing.T) {
	s := &StockEntry{ProductID: 1, Quantity: 2, Reserved: 5}
	assert.Equal(t, int64(0), s.Available())
}

func TestStockMovementSnapshot(t *testing.T) {
	orderID := int64(42)
	s := &StockEntry{ProductID: 3, Quantity: 5}
	require.NoError(t, s.Reserve(2))

	m := s.Movement(MovementReserve, 2, &orderID)
	assert.Equal(t, int64(3), m.ProductID)
	assert.Equal(t, MovementReserve, m.Kind)
	assert.Equal(t, int64(5), m.QuantityAfter)
	assert.Equal(t, int64(2), m.ReservedAfter)
	assert.Equal(t, &orderID, m.OrderID)
}
