// Package supplier provides the supplier catalog.
package supplier

import (
	"context"
	"strings"

	"almacen/internal/core/apperror"
	"almacen/internal/core/entity"
	"almacen/internal/core/tx"
	"almacen/internal/domain"
	"almacen/pkg/logger"
)

// Supplier is a vendor the store buys merchandise from. Purchase orders may
// also name an ad-hoc vendor by free text, so suppliers here are the
// recurring ones worth keeping contact data for.
type Supplier struct {
	entity.Catalog

	// RUT is the supplier's tax identifier, unique when present
	RUT string `db:"rut" json:"rut,omitempty"`

	ContactName string `db:"contact_name" json:"contactName,omitempty"`
	Phone       string `db:"phone" json:"phone,omitempty"`
	Email       string `db:"email" json:"email,omitempty"`
	Address     string `db:"address" json:"address,omitempty"`
}

// New creates a supplier with generated ID.
func New(name string) *Supplier {
	return &Supplier{Catalog: entity.NewCatalog(name)}
}

// Validate implements entity.Validatable.
func (s *Supplier) Validate(ctx context.Context) error {
	if err := s.Catalog.Validate(ctx); err != nil {
		return err
	}
	s.RUT = strings.TrimSpace(s.RUT)
	return nil
}

// Repository extends the generic catalog repository with RUT lookup.
type Repository interface {
	domain.CatalogRepository[*Supplier]

	// GetByRUT retrieves a supplier by tax identifier.
	GetByRUT(ctx context.Context, rut string) (*Supplier, error)
}

// Service provides supplier catalog operations.
type Service struct {
	*domain.CatalogService[*Supplier]
	repo Repository
}

// NewService creates a supplier service with RUT uniqueness enforcement.
func NewService(repo Repository, txManager tx.Manager, log *logger.Logger) *Service {
	s := &Service{
		CatalogService: domain.NewCatalogService[*Supplier]("supplier", repo, txManager, log),
		repo:           repo,
	}

	s.Hooks().OnBeforeCreate(s.checkRUTUnique)
	s.Hooks().OnBeforeUpdate(s.checkRUTUnique)

	return s
}

func (s *Service) checkRUTUnique(ctx context.Context, sup *Supplier) error {
	if sup.RUT == "" {
		return nil
	}

	existing, err := s.repo.GetByRUT(ctx, sup.RUT)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != sup.ID {
		return apperror.NewDuplicate("supplier", "rut", sup.RUT)
	}
	return nil
}
