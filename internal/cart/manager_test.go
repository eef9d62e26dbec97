package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/safar/armigera-store/internal/models"
	"github.com/safar/armigera-store/internal/storage"
	"github.com/safar/armigera-store/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id string, price int64) models.Product {
	return models.Product{
		ID:     id,
		Title:  "Work " + id,
		Artist: "Mariam Aslamazyan",
		Price:  decimal.NewFromInt(price),
		Images: []string{"/img/" + id + ".jpg"},
		Status: models.ProductActive,
	}
}

func newManager(t *testing.T) (*Manager, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory()
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	return NewManager(mem, WithClock(func() time.Time { return now })), mem
}

func TestEmptyCart(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	items, err := m.GetCart(ctx)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	total, err := m.Total(ctx)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestAddToCartMergesByProduct(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	p := product("p1", 150)

	first, err := m.AddToCart(ctx, p)
	require.NoError(t, err)
	assert.Regexp(t, `^cart_\d+_[0-9a-z]{9}$`, first.ID)
	assert.Equal(t, 1, first.Quantity)
	assert.Equal(t, "/img/p1.jpg", first.Image)

	second, err := m.AddToCart(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.Quantity)

	items, err := m.GetCart(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestAddToCartSnapshotsProduct(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	p := product("p1", 150)
	p.Images = nil

	line, err := m.AddToCart(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, PlaceholderImage, line.Image)

	p.Price = decimal.NewFromInt(999)
	p.Title = "Renamed"
	_, err = m.AddToCart(ctx, p)
	require.NoError(t, err)

	items, err := m.GetCart(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Work p1", items[0].Title, "lines are never refreshed")
	assert.True(t, items[0].Price.Equal(decimal.NewFromInt(150)))
}

func TestUpdateQuantityFloor(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	line, err := m.AddToCart(ctx, product("p1", 100))
	require.NoError(t, err)

	ok, err := m.UpdateQuantity(ctx, line.ID, 4)
	require.NoError(t, err)
	assert.True(t, ok)
	count, err := m.ItemsCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	ok, err = m.UpdateQuantity(ctx, line.ID, 0)
	require.NoError(t, err)
	assert.True(t, ok)

	items, err := m.GetCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	ok, err = m.UpdateQuantity(ctx, "cart_missing", 3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateQuantityNegativeRemoves(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	line, err := m.AddToCart(ctx, product("p1", 100))
	require.NoError(t, err)

	ok, err := m.UpdateQuantity(ctx, line.ID, -2)
	require.NoError(t, err)
	assert.True(t, ok)

	count, err := m.ItemsCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRemoveFromCart(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	a, err := m.AddToCart(ctx, product("p1", 100))
	require.NoError(t, err)
	_, err = m.AddToCart(ctx, product("p2", 200))
	require.NoError(t, err)

	removed, err := m.RemoveFromCart(ctx, "p2")
	require.NoError(t, err)
	assert.False(t, removed, "lines are removed by line id, not product id")

	removed, err = m.RemoveFromCart(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	items, err := m.GetCart(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ProductID)
}

func TestTotalsAndCount(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	line, err := m.AddToCart(ctx, product("a", 150))
	require.NoError(t, err)
	_, err = m.UpdateQuantity(ctx, line.ID, 2)
	require.NoError(t, err)
	_, err = m.AddToCart(ctx, product("b", 300))
	require.NoError(t, err)

	total, err := m.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, "600", total.String())

	count, err := m.ItemsCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestClearCart(t *testing.T) {
	m, mem := newManager(t)
	ctx := context.Background()

	_, err := m.AddToCart(ctx, product("a", 1))
	require.NoError(t, err)
	require.NoError(t, m.ClearCart(ctx))

	assert.Equal(t, 0, mem.Keys())
	items, err := m.GetCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSubscribersSeeEveryMutation(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	var badge, page []int
	unsubBadge := m.Subscribe(func(items []models.CartItem) { badge = append(badge, ItemsCount(items)) })
	m.Subscribe(func(items []models.CartItem) { page = append(page, len(items)) })

	line, err := m.AddToCart(ctx, product("a", 10))
	require.NoError(t, err)
	_, err = m.AddToCart(ctx, product("a", 10))
	require.NoError(t, err)
	_, err = m.AddToCart(ctx, product("b", 10))
	require.NoError(t, err)

	unsubBadge()
	unsubBadge()

	_, err = m.UpdateQuantity(ctx, line.ID, 5)
	require.NoError(t, err)
	require.NoError(t, m.ClearCart(ctx))

	assert.Equal(t, []int{1, 2, 3}, badge)
	assert.Equal(t, []int{1, 1, 2, 2, 0}, page)
}

func TestNoNotificationWithoutChange(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	calls := 0
	m.Subscribe(func([]models.CartItem) { calls++ })

	_, err := m.RemoveFromCart(ctx, "cart_nothing")
	require.NoError(t, err)
	_, err = m.UpdateQuantity(ctx, "cart_nothing", 2)
	require.NoError(t, err)

	assert.Zero(t, calls)
}

func TestSubscriberMayReadCart(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	var seen int
	m.Subscribe(func([]models.CartItem) {
		n, err := m.ItemsCount(ctx)
		require.NoError(t, err)
		seen = n
	})

	_, err := m.AddToCart(ctx, product("a", 10))
	require.NoError(t, err)
	assert.Equal(t, 1, seen)
}

func TestSubscribersSeeMutationsInOrder(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	var (
		mu    sync.Mutex
		calls int
		last  int
	)
	m.Subscribe(func(items []models.CartItem) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			close(entered)
			<-release
		}
		mu.Lock()
		last = ItemsCount(items)
		mu.Unlock()
	})

	done := make(chan error, 1)
	go func() {
		_, err := m.AddToCart(ctx, product("a", 10))
		done <- err
	}()
	<-entered

	_, err := m.AddToCart(ctx, product("b", 10))
	require.NoError(t, err)
	close(release)
	require.NoError(t, <-done)

	count, err := m.ItemsCount(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, calls)
	assert.Equal(t, count, last)
}

func TestSubscriberMayMutateCart(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	var seen []int
	m.Subscribe(func(items []models.CartItem) {
		seen = append(seen, ItemsCount(items))
		if len(items) == 1 && items[0].Quantity == 1 {
			_, err := m.UpdateQuantity(ctx, items[0].ID, 3)
			require.NoError(t, err)
		}
	})

	_, err := m.AddToCart(ctx, product("a", 10))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, seen)
}

func TestCartStorageFailure(t *testing.T) {
	m, mem := newManager(t)
	ctx := context.Background()
	calls := 0
	m.Subscribe(func([]models.CartItem) { calls++ })

	cause := errors.New("disk full")
	mem.Fail(cause)

	_, err := m.AddToCart(ctx, product("a", 10))
	assert.ErrorIs(t, err, store.ErrStorageUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Zero(t, calls)

	_, err = m.GetCart(ctx)
	assert.ErrorIs(t, err, store.ErrStorageUnavailable)
	assert.ErrorIs(t, m.ClearCart(ctx), store.ErrStorageUnavailable)
}

func TestCartNamespace(t *testing.T) {
	mem := storage.NewMemory()
	m := NewManager(mem, WithNamespace("shop_"))
	assert.Equal(t, "shop_cart", m.Key())

	_, err := m.AddToCart(context.Background(), product("a", 1))
	require.NoError(t, err)
	_, ok, err := mem.Read(context.Background(), "shop_cart")
	require.NoError(t, err)
	assert.True(t, ok)
}
