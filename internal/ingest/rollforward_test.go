package ingest

import (
	"testing"
	"time"

	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestRollforwardSynthesizesOpeningRow(t *testing.T) {
	row := domain.RawRow{
		ExternalID:       "r1",
		ProductName:      "Widget",
		OpeningInventory: 10,
		Days:             map[int]domain.DayFigures{},
	}

	records := Rollforward(row, 3)
	require.Len(t, records, 4)
	require.Equal(t, 0, records[0].Day)
	require.Equal(t, 10, records[0].Inventory)
	require.Zero(t, records[0].SalesQty)
	require.Zero(t, records[0].SalesAmount)
	require.Zero(t, records[0].ProcurementAmount)
}

func TestRollforwardSingleDay(t *testing.T) {
	// opening 10, day 1: procure 5 @ 2, sell 3 @ 4
	row := domain.RawRow{
		ExternalID:       "r1",
		ProductName:      "Widget",
		OpeningInventory: 10,
		Days: map[int]domain.DayFigures{
			1: {ProcurementQty: 5, ProcurementPrice: 2, SalesQty: 3, SalesPrice: 4},
		},
	}

	records := Rollforward(row, 1)
	require.Len(t, records, 2)

	day1 := records[1]
	require.Equal(t, 12, day1.Inventory)
	require.Equal(t, 10.0, day1.ProcurementAmount)
	require.Equal(t, 12.0, day1.SalesAmount)
}

func TestRollforwardBalanceInvariant(t *testing.T) {
	row := domain.RawRow{
		ExternalID:       "r1",
		ProductName:      "Widget",
		OpeningInventory: 7,
		Days: map[int]domain.DayFigures{
			1: {ProcurementQty: 4, SalesQty: 2},
			2: {ProcurementQty: 1, SalesQty: 5},
			4: {SalesQty: 3},
		},
	}

	records := Rollforward(row, 5)
	require.Len(t, records, 6)
	require.Equal(t, 7, records[0].Inventory)
	for d := 1; d < len(records); d++ {
		expected := records[d-1].Inventory + records[d].ProcurementQty - records[d].SalesQty
		require.Equal(t, expected, records[d].Inventory, "day %d", d)
		require.Equal(t, float64(records[d].ProcurementQty)*records[d].ProcurementPrice, records[d].ProcurementAmount)
		require.Equal(t, float64(records[d].SalesQty)*records[d].SalesPrice, records[d].SalesAmount)
	}
}

func TestRollforwardAllowsNegativeInventory(t *testing.T) {
	row := domain.RawRow{
		ExternalID:       "r1",
		ProductName:      "Widget",
		OpeningInventory: 2,
		Days: map[int]domain.DayFigures{
			1: {SalesQty: 5, SalesPrice: 1},
			2: {ProcurementQty: 1},
		},
	}

	records := Rollforward(row, 2)
	// oversold day is preserved, not clamped
	require.Equal(t, -3, records[1].Inventory)
	require.Equal(t, -2, records[2].Inventory)
}

func TestUniqueName(t *testing.T) {
	require.Equal(t, "X", UniqueName("X", nil))
	require.Equal(t, "X(2)", UniqueName("X", []string{"X"}))
	require.Equal(t, "X(3)", UniqueName("X", []string{"X", "X(2)"}))
	// lowest free suffix wins even with gaps
	require.Equal(t, "X(2)", UniqueName("X", []string{"X", "X(3)"}))
}

func TestProductKeyUnique(t *testing.T) {
	now := time.Now()
	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		key := ProductKey(1, "row-1", now)
		_, dup := seen[key]
		require.False(t, dup, "duplicate key %s", key)
		seen[key] = struct{}{}
	}
}
