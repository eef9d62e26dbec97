package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/safar/armigera-store/internal/catalog"
	"github.com/safar/armigera-store/internal/logkey"
	"github.com/safar/armigera-store/internal/models"
	"github.com/safar/armigera-store/internal/store"
	"github.com/shopspring/decimal"
)

type ProductInput struct {
	Title            string          `validate:"required"`
	Description      string          `validate:"max=5000"`
	Price            decimal.Decimal `validate:"gte=0"`
	Category         string          `validate:"required"`
	Artist           string          `validate:"required"`
	Dimensions       string
	DimensionsInches string
	Materials        string
	Technique        string
	Status           models.ProductStatus `validate:"omitempty,oneof=active draft sold"`
	Images           []string             `validate:"dive,required"`
}

type productPatchRules struct {
	Title    *string               `validate:"omitempty,min=1"`
	Price    *decimal.Decimal      `validate:"omitempty,gte=0"`
	Category *string               `validate:"omitempty,min=1"`
	Artist   *string               `validate:"omitempty,min=1"`
	Status   *models.ProductStatus `validate:"omitempty,oneof=active draft sold"`
	Images   []string              `validate:"omitempty,dive,required"`
}

type ProductService struct {
	db  *store.DB
	log *slog.Logger
}

func NewProductService(db *store.DB, log *slog.Logger) *ProductService {
	return &ProductService{db: db, log: log}
}

// Create validates in and stores it. Status defaults to active.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (models.Product, error) {
	if err := check(in); err != nil {
		return models.Product{}, err
	}
	if in.Status == "" {
		in.Status = models.ProductActive
	}

	p, err := s.db.Products().Create(ctx, models.Product{
		Title:            in.Title,
		Description:      in.Description,
		Price:            in.Price,
		Category:         in.Category,
		Artist:           in.Artist,
		Dimensions:       in.Dimensions,
		DimensionsInches: in.DimensionsInches,
		Materials:        in.Materials,
		Technique:        in.Technique,
		Status:           in.Status,
		Images:           append([]string{}, in.Images...),
	})
	if err != nil {
		return models.Product{}, fmt.Errorf("create product: %w", err)
	}

	s.log.Info("product created", slog.String(logkey.ID, p.ID), slog.String("title", p.Title))
	return p, nil
}

// Update applies patch after checking the fields it sets and stamps
// UpdatedAt.
func (s *ProductService) Update(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error) {
	rules := productPatchRules{
		Title:    patch.Title,
		Price:    patch.Price,
		Category: patch.Category,
		Artist:   patch.Artist,
		Status:   patch.Status,
		Images:   patch.Images,
	}
	if err := check(rules); err != nil {
		return models.Product{}, err
	}

	now := s.db.Now()
	patch.UpdatedAt = &now
	p, err := s.db.Products().Update(ctx, id, patch)
	if err != nil {
		return models.Product{}, fmt.Errorf("update product %s: %w", id, err)
	}
	return p, nil
}

func (s *ProductService) SetStatus(ctx context.Context, id string, status models.ProductStatus) (models.Product, error) {
	return s.Update(ctx, id, models.ProductPatch{Status: &status})
}

func (s *ProductService) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := s.db.Products().Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete product %s: %w", id, err)
	}
	if ok {
		s.log.Info("product deleted", slog.String(logkey.ID, id))
	}
	return ok, nil
}

// RecordView bumps the view counter the popular sort reads.
func (s *ProductService) RecordView(ctx context.Context, id string) (models.Product, error) {
	p, err := s.db.Products().GetByID(ctx, id)
	if err != nil {
		return models.Product{}, fmt.Errorf("view product %s: %w", id, err)
	}
	views := p.Views + 1
	p, err = s.db.Products().Update(ctx, id, models.ProductPatch{Views: &views})
	if err != nil {
		return models.Product{}, fmt.Errorf("view product %s: %w", id, err)
	}
	return p, nil
}

// Catalog returns the active products matching c.
func (s *ProductService) Catalog(ctx context.Context, c catalog.Criteria) ([]models.Product, error) {
	all, err := s.Active(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Query(all, c), nil
}

// Active returns every active product in storage order, the base list for
// facets and the catalog.
func (s *ProductService) Active(ctx context.Context) ([]models.Product, error) {
	all, err := s.db.Products().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	active := all[:0]
	for _, p := range all {
		if p.Status == models.ProductActive {
			active = append(active, p)
		}
	}
	return active, nil
}
