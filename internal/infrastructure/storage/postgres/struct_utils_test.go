package postgres

import (
	"testing"
	"time"

	"almacen/internal/core/entity"
	"almacen/internal/core/id"

	"github.com/stretchr/testify/assert"
)

type mockCatalog struct {
	entity.Catalog
	Barcode string `db:"barcode" json:"barcode"`
	Skipped string `db:"-" json:"skipped"`
	NoTag   string
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	expected := []string{
		"id", "deletion_mark", "version", "name", "active",
		"created_at", "updated_at", "barcode",
	}
	for _, col := range expected {
		assert.Contains(t, cols, col)
	}
	assert.NotContains(t, cols, "-")
	assert.Len(t, cols, len(expected))
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	cat := mockCatalog{
		Catalog: entity.Catalog{
			BaseEntity: entity.BaseEntity{
				ID:      id.New(),
				Version: 3,
			},
			Name:      "Arroz Grado 2",
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Barcode: "7801234567890",
		Skipped: "must not appear",
		NoTag:   "must not appear",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, 3, m["version"])
	assert.Equal(t, "Arroz Grado 2", m["name"])
	assert.Equal(t, true, m["active"])
	assert.Equal(t, "7801234567890", m["barcode"])
	assert.NotContains(t, m, "-")
	assert.NotContains(t, m, "Skipped")
	assert.NotContains(t, m, "NoTag")
}

func TestStructToMap_Pointer(t *testing.T) {
	cat := &mockCatalog{Barcode: "123"}
	m := StructToMap(cat)
	assert.Equal(t, "123", m["barcode"])
}
