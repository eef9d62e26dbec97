package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/safar/armigera-store/internal/cart"
	"github.com/safar/armigera-store/internal/logkey"
	"github.com/safar/armigera-store/internal/models"
	"github.com/safar/armigera-store/internal/store"
)

type customerRules struct {
	Name    string `validate:"required"`
	Email   string `validate:"required,email"`
	Phone   string `validate:"required"`
	Address string `validate:"required"`
}

type OrderService struct {
	db   *store.DB
	cart *cart.Manager
	log  *slog.Logger
}

func NewOrderService(db *store.DB, c *cart.Manager, log *slog.Logger) *OrderService {
	return &OrderService{db: db, cart: c, log: log}
}

// Checkout turns the current cart into a pending order for userID and then
// empties the cart. The order keeps the cart's price snapshots, so later
// product edits do not change it. userID is not checked against the users
// table.
func (s *OrderService) Checkout(ctx context.Context, userID string, customer models.CustomerInfo) (models.Order, error) {
	if err := check(customerRules(customer)); err != nil {
		return models.Order{}, err
	}

	lines, err := s.cart.GetCart(ctx)
	if err != nil {
		return models.Order{}, fmt.Errorf("checkout: %w", err)
	}
	if len(lines) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	items := make([]models.OrderItem, len(lines))
	for i, l := range lines {
		items[i] = models.OrderItem{
			ProductID: l.ProductID,
			Title:     l.Title,
			Price:     l.Price,
			Quantity:  l.Quantity,
		}
	}

	order, err := s.db.Orders().Create(ctx, models.Order{
		UserID:       userID,
		Items:        items,
		Total:        cart.Total(lines),
		Status:       models.OrderPending,
		CustomerInfo: customer,
	})
	if err != nil {
		return models.Order{}, fmt.Errorf("checkout: %w", err)
	}

	s.log.Info("order placed",
		slog.String(logkey.ID, order.ID),
		slog.String("user_id", userID),
		slog.String("total", order.Total.String()))

	if err := s.cart.ClearCart(ctx); err != nil {
		return order, fmt.Errorf("checkout clear cart: %w", err)
	}
	return order, nil
}

func (s *OrderService) SetStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	if !status.Valid() {
		return models.Order{}, &ValidationError{Fields: []FieldError{{Field: "Status", Tag: "oneof", Param: "pending processing shipped completed cancelled"}}}
	}
	now := s.db.Now()
	order, err := s.db.Orders().Update(ctx, id, models.OrderPatch{Status: &status, UpdatedAt: &now})
	if err != nil {
		return models.Order{}, fmt.Errorf("order %s status: %w", id, err)
	}
	s.log.Info("order status changed", slog.String(logkey.ID, id), slog.String("status", string(status)))
	return order, nil
}

// ForUser returns the orders placed by userID, newest first.
func (s *OrderService) ForUser(ctx context.Context, userID string) ([]models.Order, error) {
	all, err := s.db.Orders().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := make([]models.Order, 0, len(all))
	for _, o := range all {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Order) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}
