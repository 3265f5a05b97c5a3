// Package category provides the product category catalog.
package category

import (
	"almacen/internal/core/entity"
	"almacen/internal/core/tx"
	"almacen/internal/domain"
	"almacen/pkg/logger"
)

// Category groups products for browsing and sales reporting.
type Category struct {
	entity.Catalog

	Description string `db:"description" json:"description,omitempty"`
}

// New creates a category with generated ID.
func New(name string) *Category {
	return &Category{Catalog: entity.NewCatalog(name)}
}

// Repository is the persistence contract for categories.
type Repository interface {
	domain.CatalogRepository[*Category]
}

// Service provides category catalog operations.
type Service struct {
	*domain.CatalogService[*Category]
}

// NewService creates a category service.
func NewService(repo Repository, txManager tx.Manager, log *logger.Logger) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService[*Category]("category", repo, txManager, log),
	}
}
