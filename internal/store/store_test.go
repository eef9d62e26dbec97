package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/safar/armigera-store/internal/models"
	"github.com/safar/armigera-store/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

// newTestDB returns a store over a fresh memory medium with a clock that
// advances one second per reading and sequential ids.
func newTestDB(t *testing.T, opts ...Option) (*DB, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory()

	var (
		mu    sync.Mutex
		tick  int
		count int
	)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick++
		return epoch.Add(time.Duration(tick) * time.Second)
	}
	ids := func() string {
		mu.Lock()
		defer mu.Unlock()
		count++
		return fmt.Sprintf("id%03d", count)
	}

	base := []Option{WithClock(clock), WithIDs(ids)}
	return New(mem, append(base, opts...)...), mem
}

func painting(title string, price int64) models.Product {
	return models.Product{
		Title:    title,
		Price:    decimal.NewFromInt(price),
		Category: "paintings",
		Artist:   "Aram Hakobyan",
		Status:   models.ProductActive,
		Images:   []string{"/img/" + title + ".jpg"},
	}
}

func TestCreateThenGetByID(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()
	users := db.Users()

	created, err := users.Create(ctx, models.User{
		ID:    "ignored",
		Name:  "Ani",
		Email: "ani@example.com",
		Role:  models.RoleUser,
	})
	require.NoError(t, err)
	assert.Equal(t, "id001", created.ID, "caller ids are replaced")
	assert.False(t, created.CreatedAt.IsZero())

	got, err := users.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreateKeepsCallerTimestamps(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	p := painting("Ararat", 100)
	p.CreatedAt = epoch.Add(-time.Hour)
	created, err := db.Products().Create(ctx, p)
	require.NoError(t, err)

	assert.Equal(t, p.CreatedAt, created.CreatedAt)
	assert.Equal(t, p.CreatedAt, created.UpdatedAt, "zero UpdatedAt follows CreatedAt")
}

func TestGetAllPreservesInsertionOrder(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()
	products := db.Products()

	empty, err := products.GetAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, title := range []string{"Dawn", "Noon", "Dusk"} {
		_, err := products.Create(ctx, painting(title, 10))
		require.NoError(t, err)
	}

	all, err := products.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Dawn", all[0].Title)
	assert.Equal(t, "Noon", all[1].Title)
	assert.Equal(t, "Dusk", all[2].Title)
}

func TestUpdateMergesPatch(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()
	products := db.Products()

	p, err := products.Create(ctx, painting("Sevan", 250))
	require.NoError(t, err)

	updated, err := products.Update(ctx, p.ID, models.ProductPatch{
		Price: models.Ptr(decimal.NewFromInt(300)),
	})
	require.NoError(t, err)
	assert.Equal(t, p.ID, updated.ID)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, "Sevan", updated.Title)
	assert.Equal(t, p.Images, updated.Images)

	got, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, "Sevan", got.Title)
	assert.Equal(t, "Aram Hakobyan", got.Artist)
}

func TestUpdateMissingRecord(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	_, err := db.Orders().Update(ctx, "nope", models.OrderPatch{Status: models.Ptr(models.OrderShipped)})
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := db.Orders().GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "update never creates records")
}

func TestDeleteIsIdempotent(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()
	posts := db.BlogPosts()

	post, err := posts.Create(ctx, models.BlogPost{Title: "Studio notes", Status: models.PostDraft})
	require.NoError(t, err)

	removed, err := posts.Delete(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = posts.Delete(ctx, post.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = posts.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteKeepsOtherRecords(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()
	products := db.Products()

	a, _ := products.Create(ctx, painting("A", 1))
	b, _ := products.Create(ctx, painting("B", 2))
	c, _ := products.Create(ctx, painting("C", 3))

	removed, err := products.Delete(ctx, b.ID)
	require.NoError(t, err)
	require.True(t, removed)

	all, err := products.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)
	assert.Equal(t, c.ID, all[1].ID)
}

func TestClearRemovesTable(t *testing.T) {
	db, mem := newTestDB(t)
	ctx := context.Background()

	_, err := db.Inquiries().Create(ctx, models.ServiceInquiry{Service: "framing"})
	require.NoError(t, err)
	require.Equal(t, 1, mem.Keys())

	require.NoError(t, db.Inquiries().Clear(ctx))
	assert.Equal(t, 0, mem.Keys())

	all, err := db.Inquiries().GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = db.Products().Create(ctx, painting("X", 1))
	require.NoError(t, err)
	require.NoError(t, db.ClearTable(ctx, TableProducts))
	assert.Equal(t, 0, mem.Keys())
}

func TestStorageUnavailable(t *testing.T) {
	db, mem := newTestDB(t)
	ctx := context.Background()
	cause := errors.New("quota exceeded")
	mem.Fail(cause)

	_, err := db.Products().Create(ctx, painting("Lost", 1))
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, cause)

	_, err = db.Products().GetAll(ctx)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	_, err = db.Products().GetByID(ctx, "x")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.NotErrorIs(t, err, ErrNotFound)

	mem.Fail(nil)
	all, err := db.Products().GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "failed create left nothing behind")
}

func TestCorruptTable(t *testing.T) {
	db, mem := newTestDB(t)
	ctx := context.Background()
	require.NoError(t, mem.Write(ctx, db.Key(TableUsers), []byte(`{"not":"a list"}`)))

	_, err := db.Users().GetAll(ctx)
	assert.ErrorIs(t, err, ErrCorruptTable)

	_, err = db.Users().Create(ctx, models.User{Email: "a@b.c"})
	assert.ErrorIs(t, err, ErrCorruptTable)
}

func TestNamespaceIsolation(t *testing.T) {
	mem := storage.NewMemory()
	ctx := context.Background()
	shop := New(mem, WithNamespace("shop_"))
	staging := New(mem, WithNamespace("staging_"))

	_, err := shop.Products().Create(ctx, painting("Only here", 5))
	require.NoError(t, err)

	got, err := staging.Products().GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, "shop_products", shop.Key(TableProducts))
}

func TestUserByEmailIsCaseSensitive(t *testing.T) {
	db, _ := newTestDB(t)
	ctx := context.Background()

	u, err := db.Users().Create(ctx, models.User{Name: "Lilit", Email: "lilit@example.com", Role: models.RoleUser})
	require.NoError(t, err)

	got, err := db.UserByEmail(ctx, "lilit@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = db.UserByEmail(ctx, "Lilit@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentCreatesObserveEachOther(t *testing.T) {
	db := New(storage.NewMemory())
	ctx := context.Background()
	products := db.Products()

	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := products.Create(ctx, painting(fmt.Sprintf("P%d", i), int64(i))); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("create: %v", err)
	}

	all, err := products.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, n)

	seen := make(map[string]bool)
	for _, p := range all {
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
}

func TestTablesListsRegisteredNames(t *testing.T) {
	db, _ := newTestDB(t)
	NewTable[models.CartItem](db, "wishlist")

	assert.Equal(t, []string{
		"blog_posts", "orders", "products", "service_inquiries", "users", "wishlist",
	}, db.Tables())
}
