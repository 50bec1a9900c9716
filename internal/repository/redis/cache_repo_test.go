package redis

import (
	"testing"

	"github.com/DRSN-tech/order-backoffice/internal/domain"
	"github.com/DRSN-tech/order-backoffice/internal/repository/redis/converter"
	"github.com/DRSN-tech/order-backoffice/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductKeys(t *testing.T) {
	assert.Equal(t, "product:42", productKey(42))
	assert.Equal(t, []string{"product:1", "product:2"}, buildProductCacheKeys([]int64{1, 2}))
}

func TestRedisValueToBytes(t *testing.T) {
	data, err := redisValueToBytes("abc", "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), data)

	data, err = redisValueToBytes(nil, "k")
	require.NoError(t, err)
	assert.Nil(t, data)

	_, err = redisValueToBytes(42, "k")
	assert.Error(t, err)
}

func TestDecodeKeepsDecimalPrecision(t *testing.T) {
	repo := &CacheRepo{conv: converter.ProductInfoConv{}, logger: logger.NewNop()}

	info, err := repo.decode([]byte(`{"id":7,"name":"Café","price":"19.99","category_id":3}`))
	require.NoError(t, err)

	assert.Equal(t, int64(7), info.ID)
	assert.True(t, decimal.RequireFromString("19.99").Equal(info.Price))
	assert.Nil(t, info.ImageKey)
}

func TestDecodeRejectsBrokenPrice(t *testing.T) {
	repo := &CacheRepo{conv: converter.ProductInfoConv{}, logger: logger.NewNop()}

	_, err := repo.decode([]byte(`{"id":7,"name":"x","price":"abc"}`))
	assert.Error(t, err)
}

func TestConverterRoundTripsImageKey(t *testing.T) {
	key := "products/a.png"
	model := converter.ProductInfoConv{}.ToRedisModel(&domain.ProductInfo{
		ID: 1, Name: "Bolo", Price: decimal.RequireFromString("0.10"), CategoryID: 2, ImageKey: &key,
	})

	assert.Equal(t, "0.1", model.Price)
	require.NotNil(t, model.ImageKey)
	assert.Equal(t, key, *model.ImageKey)
}
