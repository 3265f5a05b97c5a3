package domain

import (
	"context"

	"almacen/internal/core/entity"
	"almacen/internal/core/id"
	"almacen/internal/core/tx"
	"almacen/pkg/logger"
)

// CatalogService provides generic CRUD operations with lifecycle hooks
// for catalog entities. Concrete catalog packages embed it and register
// domain-specific hooks (uniqueness checks, referential guards).
type CatalogService[T entity.Validatable] struct {
	repo      CatalogRepository[T]
	txManager tx.Manager
	hooks     *HookRegistry[T]
	log       *logger.Logger
	name      string
}

// NewCatalogService creates a catalog service for the named entity kind.
func NewCatalogService[T entity.Validatable](
	name string,
	repo CatalogRepository[T],
	txManager tx.Manager,
	log *logger.Logger,
) *CatalogService[T] {
	return &CatalogService[T]{
		repo:      repo,
		txManager: txManager,
		hooks:     NewHookRegistry[T](),
		log:       log,
		name:      name,
	}
}

// Hooks exposes the hook registry for domain-specific registrations.
func (s *CatalogService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

// Create validates and persists a new entity.
func (s *CatalogService[T]) Create(ctx context.Context, ent T) error {
	if err := ent.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.hooks.Run(ctx, BeforeCreate, ent); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, ent); err != nil {
			return err
		}
		return s.hooks.Run(ctx, AfterCreate, ent)
	})
}

// GetByID retrieves an entity by ID.
func (s *CatalogService[T]) GetByID(ctx context.Context, entID id.ID) (T, error) {
	return s.repo.GetByID(ctx, entID)
}

// Update validates and persists changes to an existing entity.
func (s *CatalogService[T]) Update(ctx context.Context, ent T) error {
	if err := ent.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.hooks.Run(ctx, BeforeUpdate, ent); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, ent); err != nil {
			return err
		}
		return s.hooks.Run(ctx, AfterUpdate, ent)
	})
}

// Delete soft-deletes an entity by setting its deletion mark.
func (s *CatalogService[T]) Delete(ctx context.Context, entID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		ent, err := s.repo.GetByID(ctx, entID)
		if err != nil {
			return err
		}
		if err := s.hooks.Run(ctx, BeforeDelete, ent); err != nil {
			return err
		}
		if err := s.repo.SetDeletionMark(ctx, entID, true); err != nil {
			return err
		}
		return s.hooks.Run(ctx, AfterDelete, ent)
	})
}

// Restore clears the deletion mark.
func (s *CatalogService[T]) Restore(ctx context.Context, entID id.ID) error {
	return s.repo.SetDeletionMark(ctx, entID, false)
}

// List retrieves entities with filtering and pagination.
func (s *CatalogService[T]) List(ctx context.Context, filter ListFilter) (ListResult[T], error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return s.repo.List(ctx, filter)
}

// Exists checks whether an entity with the given ID exists.
func (s *CatalogService[T]) Exists(ctx context.Context, entID id.ID) (bool, error) {
	return s.repo.Exists(ctx, entID)
}
