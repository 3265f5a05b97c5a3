package domain

import (
	"context"

	"almacen/internal/core/id"
)

// Audit actions recorded by the ledger services.
const (
	AuditCreate   = "create"
	AuditUpdate   = "update"
	AuditDelete   = "delete"
	AuditMovement = "movement"
)

// AuditLogger records who changed what. Implementations write inside the
// caller's transaction, so a rolled-back mutation leaves no audit row.
// A nil AuditLogger disables auditing.
type AuditLogger interface {
	RecordChange(ctx context.Context, entityType string, entityID id.ID, action string, changes map[string]any) error
}
