package catalog_repo

import (
	"almacen/internal/domain/catalogs/category"
	"almacen/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ category.Repository = (*CategoryRepo)(nil)

// CategoryRepo is the PostgreSQL category repository.
type CategoryRepo struct {
	*BaseCatalogRepo[*category.Category]
}

// NewCategoryRepo creates a category repository.
func NewCategoryRepo(txManager *postgres.TxManager) *CategoryRepo {
	return &CategoryRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"categories",
			postgres.ExtractDBColumns[category.Category](),
			[]string{"name"},
			func() *category.Category { return &category.Category{} },
		),
	}
}
