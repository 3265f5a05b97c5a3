package reports

import (
	"context"
	"time"

	"almacen/internal/core/apperror"
	"almacen/internal/domain/catalogs/customer"
	"almacen/pkg/logger"
)

// Top-products list limits.
const (
	DefaultTopLimit = 10
	MaxTopLimit     = 50
)

// Service exposes the read-only reports.
type Service struct {
	repo      Repository
	customers customer.Repository
	loc       *time.Location
	log       *logger.Logger
}

// NewService creates a reports service. loc sets the calendar-day boundary
// for the today report; nil means UTC.
func NewService(repo Repository, customers customer.Repository, loc *time.Location, log *logger.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:      repo,
		customers: customers,
		loc:       loc,
		log:       log,
	}
}

func validateRange(r DateRange) error {
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return apperror.NewValidation("date range end precedes start").
			WithDetail("from", r.From).
			WithDetail("to", r.To)
	}
	return nil
}

// SalesSummary aggregates sales in the range, split by payment method.
func (s *Service) SalesSummary(ctx context.Context, r DateRange) (*SalesSummary, error) {
	if err := validateRange(r); err != nil {
		return nil, err
	}
	return s.repo.SalesSummary(ctx, r)
}

// SalesByDay returns the per-day series for the range.
func (s *Service) SalesByDay(ctx context.Context, r DateRange) ([]*DailySales, error) {
	if err := validateRange(r); err != nil {
		return nil, err
	}
	return s.repo.SalesByDay(ctx, r)
}

// TopProducts returns the best sellers by quantity. The limit is clamped to
// [1, MaxTopLimit]; zero or negative values get the default.
func (s *Service) TopProducts(ctx context.Context, r DateRange, limit int) ([]*TopProduct, error) {
	if err := validateRange(r); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	if limit > MaxTopLimit {
		limit = MaxTopLimit
	}
	return s.repo.TopProducts(ctx, r, limit)
}

// SalesByCategory aggregates sales per product category.
func (s *Service) SalesByCategory(ctx context.Context, r DateRange) ([]*CategorySales, error) {
	if err := validateRange(r); err != nil {
		return nil, err
	}
	return s.repo.SalesByCategory(ctx, r)
}

// TodayStats aggregates the current calendar day.
func (s *Service) TodayStats(ctx context.Context) (*SalesSummary, error) {
	return s.repo.SalesSummary(ctx, Today(s.loc))
}

// Debtors returns customers with outstanding debt, largest first.
func (s *Service) Debtors(ctx context.Context) ([]*customer.Customer, error) {
	return s.customers.ListDebtors(ctx)
}
