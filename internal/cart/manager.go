// Package cart keeps the shopper's line items under a single medium key,
// outside the record store's table set.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/safar/armigera-store/internal/logkey"
	"github.com/safar/armigera-store/internal/models"
	"github.com/safar/armigera-store/internal/storage"
	"github.com/safar/armigera-store/internal/store"
	"github.com/shopspring/decimal"
)

const PlaceholderImage = "/placeholder.svg"

type Manager struct {
	medium storage.Medium
	key    string
	now    func() time.Time
	log    *slog.Logger

	mu sync.Mutex
	// pending and delivering are guarded by mu.
	pending    [][]models.CartItem
	delivering bool

	subMu  sync.Mutex
	nextID int
	subs   map[int]func([]models.CartItem)
}

type Option func(*Manager)

func WithNamespace(ns string) Option {
	return func(m *Manager) { m.key = ns + "cart" }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

func NewManager(medium storage.Medium, opts ...Option) *Manager {
	m := &Manager{
		medium: medium,
		key:    store.DefaultNamespace + "cart",
		now:    time.Now,
		log:    slog.Default(),
		subs:   make(map[int]func([]models.CartItem)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Key returns the medium key holding the cart.
func (m *Manager) Key() string { return m.key }

func (m *Manager) load(ctx context.Context) ([]models.CartItem, error) {
	data, ok, err := m.medium.Read(ctx, m.key)
	if err != nil {
		return nil, m.unavailable("read", err)
	}
	items := []models.CartItem{}
	if !ok {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %v", m.key, store.ErrCorruptTable, err)
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return items, nil
}

func (m *Manager) save(ctx context.Context, items []models.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", m.key, err)
	}
	if err := m.medium.Write(ctx, m.key, data); err != nil {
		return m.unavailable("write", err)
	}
	return nil
}

func (m *Manager) unavailable(op string, err error) error {
	m.log.Error("cart medium failure",
		slog.String("op", op),
		slog.String(logkey.Key, m.key),
		slog.String("class", storage.ClassifyError(err).String()),
		slog.String(logkey.ERROR, err.Error()))
	return fmt.Errorf("%s %s: %w: %w", op, m.key, store.ErrStorageUnavailable, err)
}

// mutate runs fn on the current cart under the lock, persists the result when
// fn reports a change and then notifies subscribers outside the lock.
func (m *Manager) mutate(ctx context.Context, fn func([]models.CartItem) ([]models.CartItem, bool)) (bool, error) {
	m.mu.Lock()
	items, err := m.load(ctx)
	if err != nil {
		m.mu.Unlock()
		return false, err
	}
	items, changed := fn(items)
	if !changed {
		m.mu.Unlock()
		return false, nil
	}
	if err := m.save(ctx, items); err != nil {
		m.mu.Unlock()
		return false, err
	}
	deliver := m.enqueue(items)
	m.mu.Unlock()

	if deliver {
		m.drain()
	}
	return true, nil
}

// GetCart returns the lines in the order they were added.
func (m *Manager) GetCart(ctx context.Context) ([]models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(ctx)
}

// AddToCart bumps the quantity of the line already holding p, or appends a
// new line snapshotting p's title, artist, price and primary image.
func (m *Manager) AddToCart(ctx context.Context, p models.Product) (models.CartItem, error) {
	var line models.CartItem
	_, err := m.mutate(ctx, func(items []models.CartItem) ([]models.CartItem, bool) {
		for i := range items {
			if items[i].ProductID == p.ID {
				items[i].Quantity++
				line = items[i]
				return items, true
			}
		}

		now := m.now()
		line = models.CartItem{
			ID:        lineID(now),
			ProductID: p.ID,
			Title:     p.Title,
			Artist:    p.Artist,
			Price:     p.Price,
			Image:     p.PrimaryImage(),
			Quantity:  1,
			AddedAt:   now,
		}
		if line.Image == "" {
			line.Image = PlaceholderImage
		}
		return append(items, line), true
	})
	if err != nil {
		return models.CartItem{}, err
	}

	m.log.Debug("cart line added",
		slog.String(logkey.LineID, line.ID),
		slog.String(logkey.Product, p.ID),
		slog.Int("quantity", line.Quantity))
	return line, nil
}

// RemoveFromCart drops the line with id and reports whether one existed.
func (m *Manager) RemoveFromCart(ctx context.Context, id string) (bool, error) {
	removed, err := m.mutate(ctx, func(items []models.CartItem) ([]models.CartItem, bool) {
		kept := items[:0]
		for _, it := range items {
			if it.ID != id {
				kept = append(kept, it)
			}
		}
		return kept, len(kept) != len(items)
	})
	if err == nil && removed {
		m.log.Debug("cart line removed", slog.String(logkey.LineID, id))
	}
	return removed, err
}

// UpdateQuantity sets the line's quantity to n. A quantity of zero or less
// removes the line.
func (m *Manager) UpdateQuantity(ctx context.Context, id string, n int) (bool, error) {
	if n <= 0 {
		return m.RemoveFromCart(ctx, id)
	}
	return m.mutate(ctx, func(items []models.CartItem) ([]models.CartItem, bool) {
		for i := range items {
			if items[i].ID == id {
				items[i].Quantity = n
				return items, true
			}
		}
		return items, false
	})
}

func (m *Manager) ClearCart(ctx context.Context) error {
	m.mu.Lock()
	if err := m.medium.Remove(ctx, m.key); err != nil {
		m.mu.Unlock()
		return m.unavailable("remove", err)
	}
	deliver := m.enqueue([]models.CartItem{})
	m.mu.Unlock()

	m.log.Debug("cart cleared")
	if deliver {
		m.drain()
	}
	return nil
}

// Total is the sum of price times quantity over all lines.
func (m *Manager) Total(ctx context.Context) (decimal.Decimal, error) {
	items, err := m.GetCart(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return Total(items), nil
}

// ItemsCount is the sum of quantities, not the number of lines.
func (m *Manager) ItemsCount(ctx context.Context) (int, error) {
	items, err := m.GetCart(ctx)
	if err != nil {
		return 0, err
	}
	return ItemsCount(items), nil
}

func Total(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

func ItemsCount(items []models.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func lineID(now time.Time) string {
	return "cart_" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + store.RandomSuffix(9)
}
