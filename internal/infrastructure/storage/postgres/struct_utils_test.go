package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stocklink/internal/core/entity"
	"stocklink/internal/core/id"
	"stocklink/internal/core/ledger"
	"stocklink/internal/core/types"
)

type MockCatalog struct {
	entity.BaseCatalog
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

type MockOrder struct {
	entity.BaseDocument
	ledger.Ledger
	SKUCode string `db:"sku_code" json:"skuCode"`
	Skipped string `db:"-" json:"-"`
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[MockCatalog]()

	expectedCols := []string{
		"id", "deletion_mark", "version", "code", "name",
	}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
}

func TestExtractDBColumns_EmbeddedLedger(t *testing.T) {
	cols := ExtractDBColumns[MockOrder]()

	for _, expected := range []string{
		"id", "version", "created_at", "updated_at",
		"ordered_qty", "fulfilled_qty", "status", "sku_code",
	} {
		assert.Contains(t, cols, expected)
	}
	assert.NotContains(t, cols, "-")
}

func TestStructToMap(t *testing.T) {
	cat := MockCatalog{
		BaseCatalog: entity.BaseCatalog{
			BaseEntity: entity.BaseEntity{
				ID:           id.New(),
				DeletionMark: true,
				Version:      5,
			},
		},
		Code: "WH-01",
		Name: "Main Warehouse",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "WH-01", m["code"])
	assert.Equal(t, "Main Warehouse", m["name"])
}

func TestStructToMap_EmbeddedLedger(t *testing.T) {
	order := MockOrder{
		Ledger:  ledger.NewLedger(types.NewQuantityFromFloat64(10)),
		SKUCode: "SKU-42",
		Skipped: "should not appear",
	}

	m := StructToMap(order)

	assert.Equal(t, types.NewQuantityFromFloat64(10), m["ordered_qty"])
	assert.Equal(t, ledger.StatusPending, m["status"])
	assert.Equal(t, "SKU-42", m["sku_code"])
	assert.NotContains(t, m, "-")
}
