package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/safar/armigera-store/internal/models"
	"github.com/shopspring/decimal"
)

const recentLimit = 5

// Stats is the admin dashboard summary.
type Stats struct {
	TotalProducts  int              `json:"totalProducts"`
	TotalUsers     int              `json:"totalUsers"`
	TotalOrders    int              `json:"totalOrders"`
	TotalPosts     int              `json:"totalPosts"`
	TotalRevenue   decimal.Decimal  `json:"totalRevenue"`
	RecentOrders   []models.Order   `json:"recentOrders"`
	RecentProducts []models.Product `json:"recentProducts"`
}

// Stats counts customers (not admins), published posts and all orders and
// products. Recent lists hold the last five records, newest first.
func (db *DB) Stats(ctx context.Context) (Stats, error) {
	var s Stats

	products, err := db.Products().GetAll(ctx)
	if err != nil {
		return s, fmt.Errorf("stats products: %w", err)
	}
	users, err := db.Users().GetAll(ctx)
	if err != nil {
		return s, fmt.Errorf("stats users: %w", err)
	}
	orders, err := db.Orders().GetAll(ctx)
	if err != nil {
		return s, fmt.Errorf("stats orders: %w", err)
	}
	posts, err := db.BlogPosts().GetAll(ctx)
	if err != nil {
		return s, fmt.Errorf("stats posts: %w", err)
	}

	s.TotalProducts = len(products)
	s.TotalOrders = len(orders)
	for _, u := range users {
		if u.Role == models.RoleUser {
			s.TotalUsers++
		}
	}
	for _, p := range posts {
		if p.Status == models.PostPublished {
			s.TotalPosts++
		}
	}
	s.TotalRevenue = decimal.Zero
	for _, o := range orders {
		s.TotalRevenue = s.TotalRevenue.Add(o.Total)
	}
	s.RecentOrders = lastReversed(orders, recentLimit)
	s.RecentProducts = lastReversed(products, recentLimit)
	return s, nil
}

func lastReversed[T any](items []T, n int) []T {
	if len(items) > n {
		items = items[len(items)-n:]
	}
	out := slices.Clone(items)
	slices.Reverse(out)
	return out
}
