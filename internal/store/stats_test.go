package store

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/safar/armigera-store/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	_, err := db.Users().Create(ctx, models.User{Email: "admin@x", Role: models.RoleAdmin})
	require.NoError(t, err)
	_, err = db.Users().Create(ctx, models.User{Email: "buyer@x", Role: models.RoleUser})
	require.NoError(t, err)

	for i := 1; i <= 7; i++ {
		_, err := db.Products().Create(ctx, painting(string(rune('A'+i-1)), int64(i*10)))
		require.NoError(t, err)
	}
	for _, total := range []string{"150.50", "300", "49.50"} {
		_, err := db.Orders().Create(ctx, models.Order{Total: decimal.RequireFromString(total), Status: models.OrderPending})
		require.NoError(t, err)
	}
	_, err = db.BlogPosts().Create(ctx, models.BlogPost{Title: "Out", Status: models.PostPublished})
	require.NoError(t, err)
	_, err = db.BlogPosts().Create(ctx, models.BlogPost{Title: "Soon", Status: models.PostDraft})
	require.NoError(t, err)

	s, err := db.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 7, s.TotalProducts)
	assert.Equal(t, 1, s.TotalUsers)
	assert.Equal(t, 3, s.TotalOrders)
	assert.Equal(t, 1, s.TotalPosts)
	assert.Equal(t, "500", s.TotalRevenue.String())

	require.Len(t, s.RecentProducts, 5)
	assert.Equal(t, "G", s.RecentProducts[0].Title)
	assert.Equal(t, "C", s.RecentProducts[4].Title)
	require.Len(t, s.RecentOrders, 3)
	assert.Equal(t, "49.5", s.RecentOrders[0].Total.String())
}

func TestStatsEmptyStore(t *testing.T) {
	db, _ := newTestDB(t)

	s, err := db.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, s.TotalProducts)
	assert.True(t, s.TotalRevenue.IsZero())
	assert.Empty(t, s.RecentOrders)
}

func TestExport(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	_, err := db.Products().Create(ctx, painting("Aragats", 420))
	require.NoError(t, err)
	_, err = db.Users().Create(ctx, models.User{Name: "Gor", Email: "gor@example.com", Role: models.RoleUser})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, db.Export(ctx, &buf))

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.ElementsMatch(t, []string{"users", "products", "posts", "orders", "timestamp"}, keys(doc))
	assert.JSONEq(t, `[]`, string(doc["posts"]))
	assert.Contains(t, buf.String(), "\n  \"users\": [", "two-space indent")

	var b Backup
	require.NoError(t, json.Unmarshal(buf.Bytes(), &b))
	require.Len(t, b.Products, 1)
	assert.Equal(t, "Aragats", b.Products[0].Title)
	require.Len(t, b.Users, 1)
	assert.False(t, b.Timestamp.IsZero())
}

func TestBackupFileName(t *testing.T) {
	name := BackupFileName(time.Date(2025, 1, 9, 23, 30, 0, 0, time.UTC))
	assert.Equal(t, "armigera-backup-2025-01-09.json", name)
}

func TestNewID(t *testing.T) {
	re := regexp.MustCompile(`^[0-9a-z]+$`)
	now := time.Now()
	a, b := NewID(now), NewID(now)

	assert.NotEqual(t, a, b)
	assert.Regexp(t, re, a)
	assert.Len(t, RandomSuffix(9), 9)
	assert.Len(t, a, len(NewID(now.Add(time.Millisecond))))
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
