package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	t.Run("empty cache misses", func(t *testing.T) {
		c := New()

		_, ok := c.Get(FamilyReceipts, ReceiptsKey(1, 10))
		assert.False(t, ok)
	})

	t.Run("reads are idempotent without intervening writes", func(t *testing.T) {
		c := New()
		c.Put(FamilyReceipts, ReceiptsKey(1, 10), "payload")

		for i := 0; i < 5; i++ {
			data, ok := c.Get(FamilyReceipts, ReceiptsKey(1, 10))
			require.True(t, ok)
			assert.Equal(t, "payload", data)
		}
	})

	t.Run("different key misses", func(t *testing.T) {
		c := New()
		c.Put(FamilyReceipts, ReceiptsKey(1, 10), "page one")

		_, ok := c.Get(FamilyReceipts, ReceiptsKey(2, 10))
		assert.False(t, ok)
	})

	t.Run("put replaces rather than accumulates", func(t *testing.T) {
		c := New()
		c.Put(FamilyReceipts, ReceiptsKey(1, 10), "page one")
		c.Put(FamilyReceipts, ReceiptsKey(2, 10), "page two")

		_, ok := c.Get(FamilyReceipts, ReceiptsKey(1, 10))
		assert.False(t, ok, "old key should be gone")

		data, ok := c.Get(FamilyReceipts, ReceiptsKey(2, 10))
		require.True(t, ok)
		assert.Equal(t, "page two", data)
	})

	t.Run("families are independent", func(t *testing.T) {
		c := New()
		c.Put(FamilyReceipts, ReceiptsKey(1, 10), "receipts")
		c.Put(FamilySpending, SpendingKey("", ""), "spending")

		data, ok := c.Get(FamilyReceipts, ReceiptsKey(1, 10))
		require.True(t, ok)
		assert.Equal(t, "receipts", data)

		data, ok = c.Get(FamilySpending, SpendingKey("", ""))
		require.True(t, ok)
		assert.Equal(t, "spending", data)
	})

	t.Run("invalidate all clears every family", func(t *testing.T) {
		c := New()
		c.Put(FamilyReceipts, ReceiptsKey(1, 10), "receipts")
		c.Put(FamilySpending, SpendingKey("2025-01-01", "2025-12-31"), "spending")

		c.InvalidateAll()

		_, ok := c.Get(FamilyReceipts, ReceiptsKey(1, 10))
		assert.False(t, ok)
		_, ok = c.Get(FamilySpending, SpendingKey("2025-01-01", "2025-12-31"))
		assert.False(t, ok)
	})
}

func TestKeys(t *testing.T) {
	t.Run("receipts key is deterministic", func(t *testing.T) {
		assert.Equal(t, ReceiptsKey(1, 10), ReceiptsKey(1, 10))
		assert.NotEqual(t, ReceiptsKey(1, 10), ReceiptsKey(2, 10))
		assert.NotEqual(t, ReceiptsKey(1, 10), ReceiptsKey(1, 20))
	})

	t.Run("spending key distinguishes open ranges", func(t *testing.T) {
		assert.Equal(t, SpendingKey("", ""), SpendingKey("", ""))
		assert.NotEqual(t, SpendingKey("2025-01-01", ""), SpendingKey("", "2025-01-01"))
	})
}
