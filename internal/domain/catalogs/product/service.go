package product

import (
	"context"

	"almacen/internal/core/apperror"
	"almacen/internal/core/tx"
	"almacen/internal/domain"
	"almacen/pkg/logger"
)

// Service provides product catalog operations.
type Service struct {
	*domain.CatalogService[*Product]
	repo Repository
}

// NewService creates a product service with barcode uniqueness enforcement.
func NewService(repo Repository, txManager tx.Manager, log *logger.Logger) *Service {
	s := &Service{
		CatalogService: domain.NewCatalogService[*Product]("product", repo, txManager, log),
		repo:           repo,
	}

	s.Hooks().OnBeforeCreate(s.checkBarcodeUnique)
	s.Hooks().OnBeforeUpdate(s.checkBarcodeUnique)

	return s
}

// checkBarcodeUnique rejects a second product with the same scan code.
// Products without a barcode are always allowed.
func (s *Service) checkBarcodeUnique(ctx context.Context, p *Product) error {
	if p.Barcode == "" {
		return nil
	}

	existing, err := s.repo.GetByBarcode(ctx, p.Barcode)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != p.ID {
		return apperror.NewDuplicate("product", "barcode", p.Barcode)
	}
	return nil
}

// GetByBarcode retrieves a product by scan code.
func (s *Service) GetByBarcode(ctx context.Context, barcode string) (*Product, error) {
	if barcode == "" {
		return nil, apperror.NewValidation("barcode is required")
	}
	return s.repo.GetByBarcode(ctx, barcode)
}

// ListLowStock returns products at or below their reorder threshold.
func (s *Service) ListLowStock(ctx context.Context) ([]*Product, error) {
	return s.repo.ListLowStock(ctx)
}
