package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/safar/armigera-store/internal/logkey"
	"github.com/safar/armigera-store/internal/models"
	"github.com/safar/armigera-store/internal/store"
)

type InquiryInput struct {
	Service       string `validate:"required"`
	CustomerName  string `validate:"required"`
	CustomerEmail string `validate:"required,email"`
	CustomerPhone string
	Message       string `validate:"max=5000"`
}

type InquiryService struct {
	db  *store.DB
	log *slog.Logger
}

func NewInquiryService(db *store.DB, log *slog.Logger) *InquiryService {
	return &InquiryService{db: db, log: log}
}

// Submit stores a new inquiry with status new.
func (s *InquiryService) Submit(ctx context.Context, in InquiryInput) (models.ServiceInquiry, error) {
	if err := check(in); err != nil {
		return models.ServiceInquiry{}, err
	}

	inq, err := s.db.Inquiries().Create(ctx, models.ServiceInquiry{
		Service:       in.Service,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		CustomerPhone: in.CustomerPhone,
		Message:       in.Message,
		Status:        models.InquiryNew,
	})
	if err != nil {
		return models.ServiceInquiry{}, fmt.Errorf("submit inquiry: %w", err)
	}

	s.log.Info("inquiry submitted", slog.String(logkey.ID, inq.ID), slog.String("service", inq.Service))
	return inq, nil
}

func (s *InquiryService) SetStatus(ctx context.Context, id string, status models.InquiryStatus) (models.ServiceInquiry, error) {
	if err := checkVar("Status", string(status), "oneof=new contacted completed"); err != nil {
		return models.ServiceInquiry{}, err
	}
	inq, err := s.db.Inquiries().Update(ctx, id, models.InquiryPatch{Status: &status})
	if err != nil {
		return models.ServiceInquiry{}, fmt.Errorf("inquiry %s status: %w", id, err)
	}
	return inq, nil
}

// List returns every inquiry, newest first.
func (s *InquiryService) List(ctx context.Context) ([]models.ServiceInquiry, error) {
	all, err := s.db.Inquiries().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	slices.SortStableFunc(all, func(a, b models.ServiceInquiry) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return all, nil
}
