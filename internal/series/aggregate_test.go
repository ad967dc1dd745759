package series

import (
	"testing"

	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stretchr/testify/require"
)

func product(id int64, name string) domain.Product {
	return domain.Product{ID: id, DatasetID: 1, Name: name}
}

func record(day, inventory, salesQty int, salesPrice float64, procQty int, procPrice float64) domain.DailyRecord {
	return domain.DailyRecord{
		Day:               day,
		Inventory:         inventory,
		SalesQty:          salesQty,
		SalesPrice:        salesPrice,
		SalesAmount:       float64(salesQty) * salesPrice,
		ProcurementQty:    procQty,
		ProcurementPrice:  procPrice,
		ProcurementAmount: float64(procQty) * procPrice,
	}
}

func intPtr(v int) *int { return &v }

func TestOverviewSingleProductRoundTrip(t *testing.T) {
	ledgers := []domain.ProductLedger{
		{Product: product(1, "Widget"), Records: []domain.DailyRecord{
			record(1, 12, 3, 4, 5, 2),
		}},
	}

	points := Overview(ledgers, domain.SeriesFilter{})
	require.Len(t, points, 1)
	require.Equal(t, 1, points[0].Day)
	require.Equal(t, 12, points[0].Inventory)
	require.Equal(t, 12.0, points[0].SalesAmount)
	require.Equal(t, 10.0, points[0].ProcurementAmount)

	wide := Wide(ledgers, domain.SeriesFilter{})
	require.Len(t, wide, 1)
	require.Equal(t, "Day 1", wide[0]["day"])
	require.Equal(t, 12, wide[0]["Widget_Inventory"])
	require.Equal(t, 12.0, wide[0]["Widget_Sales"])
	require.Equal(t, 10.0, wide[0]["Widget_Procurement"])
}

func TestOverviewSumsAcrossProducts(t *testing.T) {
	ledgers := []domain.ProductLedger{
		{Product: product(1, "A"), Records: []domain.DailyRecord{record(1, 5, 1, 10, 0, 0)}},
		{Product: product(2, "B"), Records: []domain.DailyRecord{record(1, 3, 2, 5, 4, 1)}},
	}

	points := Overview(ledgers, domain.SeriesFilter{})
	require.Len(t, points, 1)
	require.Equal(t, 8, points[0].Inventory)
	require.Equal(t, 20.0, points[0].SalesAmount)
	require.Equal(t, 4.0, points[0].ProcurementAmount)
}

// The overview recomputes amounts from quantity and price; with stored
// amounts derived the same way, the two must agree.
func TestOverviewAmountMatchesStored(t *testing.T) {
	ledgers := []domain.ProductLedger{
		{Product: product(1, "A"), Records: []domain.DailyRecord{
			record(1, 5, 3, 2.5, 7, 1.25),
			record(2, 4, 1, 9.99, 0, 0),
		}},
	}

	points := Overview(ledgers, domain.SeriesFilter{})
	for i, p := range points {
		var storedSales, storedProcurement float64
		for _, rec := range ledgers[0].Records {
			if rec.Day == p.Day {
				storedSales += rec.SalesAmount
				storedProcurement += rec.ProcurementAmount
			}
		}
		require.Equal(t, storedSales, points[i].SalesAmount)
		require.Equal(t, storedProcurement, points[i].ProcurementAmount)
	}
}

func TestWideZeroFillsMissingDays(t *testing.T) {
	ledgers := []domain.ProductLedger{
		{Product: product(1, "A"), Records: []domain.DailyRecord{record(5, 9, 1, 2, 0, 0)}},
		{Product: product(2, "B"), Records: []domain.DailyRecord{record(3, 4, 0, 0, 1, 1)}},
	}

	wide := Wide(ledgers, domain.SeriesFilter{})
	require.Len(t, wide, 2)

	day5 := wide[1]
	require.Equal(t, "Day 5", day5["day"])
	require.Equal(t, 0, day5["B_Inventory"])
	require.Equal(t, 0.0, day5["B_Sales"])
	require.Equal(t, 0.0, day5["B_Procurement"])
	require.Equal(t, 9, day5["A_Inventory"])
}

func TestDayRangeFilterInclusive(t *testing.T) {
	records := make([]domain.DailyRecord, 0, 10)
	for d := 1; d <= 10; d++ {
		records = append(records, record(d, d, 1, 1, 0, 0))
	}
	ledgers := []domain.ProductLedger{{Product: product(1, "A"), Records: records}}

	filter := domain.SeriesFilter{DayStart: intPtr(3), DayEnd: intPtr(6)}

	points := Overview(ledgers, filter)
	require.Len(t, points, 4)
	require.Equal(t, 3, points[0].Day)
	require.Equal(t, 6, points[3].Day)

	wide := Wide(ledgers, filter)
	require.Len(t, wide, 4)
	require.Equal(t, "Day 3", wide[0]["day"])
	require.Equal(t, "Day 6", wide[3]["day"])
}

func TestDaysSortNumerically(t *testing.T) {
	ledgers := []domain.ProductLedger{
		{Product: product(1, "A"), Records: []domain.DailyRecord{
			record(10, 1, 0, 0, 0, 0),
			record(9, 2, 0, 0, 0, 0),
			record(2, 3, 0, 0, 0, 0),
		}},
	}

	wide := Wide(ledgers, domain.SeriesFilter{})
	require.Equal(t, "Day 2", wide[0]["day"])
	require.Equal(t, "Day 9", wide[1]["day"])
	require.Equal(t, "Day 10", wide[2]["day"])
}

func TestProductSubsetFilter(t *testing.T) {
	ledgers := []domain.ProductLedger{
		{Product: product(1, "A"), Records: []domain.DailyRecord{record(1, 5, 1, 10, 0, 0)}},
		{Product: product(2, "B"), Records: []domain.DailyRecord{record(1, 3, 2, 5, 0, 0)}},
	}

	points := Overview(ledgers, domain.SeriesFilter{ProductIDs: []int64{2}})
	require.Len(t, points, 1)
	require.Equal(t, 3, points[0].Inventory)
	require.Equal(t, 10.0, points[0].SalesAmount)

	wide := Wide(ledgers, domain.SeriesFilter{ProductIDs: []int64{2}})
	require.Len(t, wide, 1)
	require.NotContains(t, wide[0], "A_Inventory")
}

func TestEmptySelectionYieldsEmptySeries(t *testing.T) {
	ledgers := []domain.ProductLedger{
		{Product: product(1, "A"), Records: []domain.DailyRecord{record(1, 5, 1, 10, 0, 0)}},
	}

	points := Overview(ledgers, domain.SeriesFilter{ProductIDs: []int64{}})
	require.NotNil(t, points)
	require.Empty(t, points)

	wide := Wide(ledgers, domain.SeriesFilter{ProductIDs: []int64{}})
	require.NotNil(t, wide)
	require.Empty(t, wide)
}

func TestAggregationIsDeterministic(t *testing.T) {
	ledgers := []domain.ProductLedger{
		{Product: product(1, "A"), Records: []domain.DailyRecord{
			record(1, 5, 1, 10, 2, 3), record(2, 4, 2, 5, 0, 0), record(7, 1, 0, 0, 1, 9),
		}},
		{Product: product(2, "B"), Records: []domain.DailyRecord{
			record(2, 3, 2, 5, 4, 1), record(7, 8, 1, 1, 0, 0),
		}},
	}
	filter := domain.SeriesFilter{DayStart: intPtr(1), DayEnd: intPtr(7)}

	first := Overview(ledgers, filter)
	second := Overview(ledgers, filter)
	require.Equal(t, first, second)

	wideFirst := Wide(ledgers, filter)
	wideSecond := Wide(ledgers, filter)
	require.Equal(t, wideFirst, wideSecond)
}
