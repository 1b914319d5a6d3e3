package cache

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance-tracker-backend/internal/log"
)

type entry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestDisabledCache(t *testing.T) {
	ctx := context.Background()
	c := New(nil, log.Nop())

	assert.False(t, c.Enabled())
	c.SetJSON(ctx, "k", entry{Name: "x"}, TransactionsTTL)

	var got entry
	assert.False(t, c.GetJSON(ctx, "k", &got))
	c.Invalidate(ctx, "k")
	assert.NoError(t, c.Close())

	var nilCache *Cache
	assert.False(t, nilCache.Enabled())
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "categories", CategoriesKey())
	assert.Equal(t, []string{"transactions:u1", "budgets:u1", "analytics:u1"}, UserKeys("u1"))
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(context.Background(), "127.0.0.1:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to redis")
}

func TestRedisRoundTrip(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	client, err := Connect(ctx, url)
	require.NoError(t, err)

	c := New(client, log.Nop())
	defer c.Close()

	key := TransactionsKey("cache-test")
	c.SetJSON(ctx, key, entry{Name: "groceries", Count: 3}, TransactionsTTL)

	var got entry
	require.True(t, c.GetJSON(ctx, key, &got))
	assert.Equal(t, entry{Name: "groceries", Count: 3}, got)

	c.Invalidate(ctx, key)
	assert.False(t, c.GetJSON(ctx, key, &got))
}
