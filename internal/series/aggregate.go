package series

import (
	"fmt"
	"sort"

	"github.com/stocklens/backend-go/internal/domain"
)

// Overview collapses the selected ledgers into one entry per distinct day,
// summing inventory, sales amount and procurement amount across products.
// Amounts are recomputed from quantity and price at aggregation time rather
// than read from the stored amount columns. Days come out sorted ascending
// numerically; an empty selection yields an empty (non-nil) slice.
func Overview(ledgers []domain.ProductLedger, filter domain.SeriesFilter) []domain.OverviewPoint {
	byDay := make(map[int]*domain.OverviewPoint)

	for _, ledger := range ledgers {
		if !includeProduct(ledger.Product, filter) {
			continue
		}
		for _, rec := range ledger.Records {
			if !includeDay(rec.Day, filter) {
				continue
			}
			point, ok := byDay[rec.Day]
			if !ok {
				point = &domain.OverviewPoint{Day: rec.Day}
				byDay[rec.Day] = point
			}
			point.Inventory += rec.Inventory
			point.SalesAmount += float64(rec.SalesQty) * rec.SalesPrice
			point.ProcurementAmount += float64(rec.ProcurementQty) * rec.ProcurementPrice
		}
	}

	out := make([]domain.OverviewPoint, 0, len(byDay))
	for _, point := range byDay {
		out = append(out, *point)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// Wide reshapes the selected ledgers into one entry per distinct day, keyed
// by a "Day N" label, with three numeric fields per included product. A
// product with no record on a day still gets explicit zeros for all three
// fields. Day labels sort by the underlying day number, so "Day 10" follows
// "Day 9".
func Wide(ledgers []domain.ProductLedger, filter domain.SeriesFilter) []domain.WidePoint {
	type metrics struct {
		inventory   int
		sales       float64
		procurement float64
	}

	var names []string
	perDay := make(map[int]map[string]metrics)

	for _, ledger := range ledgers {
		if !includeProduct(ledger.Product, filter) {
			continue
		}
		names = append(names, ledger.Product.Name)
		for _, rec := range ledger.Records {
			if !includeDay(rec.Day, filter) {
				continue
			}
			day, ok := perDay[rec.Day]
			if !ok {
				day = make(map[string]metrics)
				perDay[rec.Day] = day
			}
			day[ledger.Product.Name] = metrics{
				inventory:   rec.Inventory,
				sales:       float64(rec.SalesQty) * rec.SalesPrice,
				procurement: float64(rec.ProcurementQty) * rec.ProcurementPrice,
			}
		}
	}

	days := make([]int, 0, len(perDay))
	for d := range perDay {
		days = append(days, d)
	}
	sort.Ints(days)

	out := make([]domain.WidePoint, 0, len(days))
	for _, d := range days {
		point := domain.WidePoint{"day": fmt.Sprintf("Day %d", d)}
		for _, name := range names {
			m := perDay[d][name] // zero-fill when the product has no record
			point[name+"_Inventory"] = m.inventory
			point[name+"_Sales"] = m.sales
			point[name+"_Procurement"] = m.procurement
		}
		out = append(out, point)
	}
	return out
}

func includeProduct(p domain.Product, filter domain.SeriesFilter) bool {
	if filter.ProductIDs == nil {
		return true
	}
	for _, id := range filter.ProductIDs {
		if id == p.ID {
			return true
		}
	}
	return false
}

func includeDay(day int, filter domain.SeriesFilter) bool {
	if filter.DayStart != nil && day < *filter.DayStart {
		return false
	}
	if filter.DayEnd != nil && day > *filter.DayEnd {
		return false
	}
	return true
}
