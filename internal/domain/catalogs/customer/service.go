package customer

import (
	"context"

	"almacen/internal/core/apperror"
	"almacen/internal/core/id"
	"almacen/internal/core/tx"
	"almacen/internal/domain"
	"almacen/pkg/logger"
)

// Service provides customer catalog operations.
type Service struct {
	*domain.CatalogService[*Customer]
	repo Repository
}

// NewService creates a customer service with RUT uniqueness enforcement.
func NewService(repo Repository, txManager tx.Manager, log *logger.Logger) *Service {
	s := &Service{
		CatalogService: domain.NewCatalogService[*Customer]("customer", repo, txManager, log),
		repo:           repo,
	}

	s.Hooks().OnBeforeCreate(s.checkRUTUnique)
	s.Hooks().OnBeforeUpdate(s.checkRUTUnique)

	return s
}

// checkRUTUnique rejects a second customer with the same tax identifier.
func (s *Service) checkRUTUnique(ctx context.Context, c *Customer) error {
	c.RUT = NormalizeRUT(c.RUT)

	existing, err := s.repo.GetByRUT(ctx, c.RUT)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != c.ID {
		return apperror.NewDuplicate("customer", "rut", c.RUT)
	}
	return nil
}

// GetByRUT retrieves a customer by its tax identifier, accepting the common
// written forms (with or without dots, lower-case check digit).
func (s *Service) GetByRUT(ctx context.Context, rut string) (*Customer, error) {
	return s.repo.GetByRUT(ctx, NormalizeRUT(rut))
}

// Resolve finds a customer either by ID or by RUT, whichever is provided.
// Exactly one of the two must be non-empty.
func (s *Service) Resolve(ctx context.Context, customerID id.ID, rut string) (*Customer, error) {
	switch {
	case !id.IsNil(customerID):
		return s.GetByID(ctx, customerID)
	case rut != "":
		return s.GetByRUT(ctx, rut)
	default:
		return nil, apperror.NewValidation("either customer id or rut is required")
	}
}

// ListDebtors returns customers that currently owe money, largest debt first.
func (s *Service) ListDebtors(ctx context.Context) ([]*Customer, error) {
	return s.repo.ListDebtors(ctx)
}
