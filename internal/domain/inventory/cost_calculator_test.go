package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Inventario-valuacion/internal/domain/entity"
	"github.com/jhoicas/Inventario-valuacion/internal/domain/inventory"
)

func TestUnitCost(t *testing.T) {
	cost, ok := inventory.UnitCost(dec("500"), dec("10"))
	assert.True(t, ok)
	assert.True(t, dec("50").Equal(cost))

	cost, ok = inventory.UnitCost(dec("500"), dec("0"))
	assert.False(t, ok, "nivel cero no define costo")
	assert.True(t, cost.IsZero())
}

func TestSeedPosition(t *testing.T) {
	tests := []struct {
		name  string
		seed  entity.InitialSnapshot
		price string
	}{
		{"costo calculado", entity.InitialSnapshot{Level: dec("8"), Value: dec("20"), DefaultPurchasePrice: dec("1")}, "2.5"},
		{"nivel cero usa defecto", entity.InitialSnapshot{Level: dec("0"), Value: dec("0"), DefaultPurchasePrice: dec("7.5")}, "7.5"},
		{"valor cero usa defecto", entity.InitialSnapshot{Level: dec("3"), Value: dec("0"), DefaultPurchasePrice: dec("4")}, "4"},
		{"sin defecto queda en cero", entity.InitialSnapshot{Level: dec("0"), Value: dec("0"), DefaultPurchasePrice: dec("0")}, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := inventory.SeedPosition(tt.seed)
			assert.True(t, tt.seed.Level.Equal(pos.Level))
			assert.True(t, tt.seed.Value.Equal(pos.Value))
			assert.Truef(t, dec(tt.price).Equal(pos.PurchasePrice), "obtenido %s", pos.PurchasePrice)
		})
	}
}

func TestClassifySource(t *testing.T) {
	tests := []struct {
		source string
		want   entity.SourceKind
	}{
		{"PO-000123", entity.SourcePurchaseOrder},
		{"Received against PO 55", entity.SourcePurchaseOrder},
		{"Imported from file", entity.SourceImported},
		{"Imported from file (PO batch)", entity.SourceImported},
		{"Sales order", entity.SourceAdjustment},
		{"po lowercase", entity.SourceAdjustment},
		{"", entity.SourceAdjustment},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, inventory.ClassifySource(tt.source), tt.source)
	}
}
