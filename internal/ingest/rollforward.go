package ingest

import "github.com/stocklens/backend-go/internal/domain"

// Rollforward computes the daily ledger for one product: exactly maxDay+1
// records, day 0 being the synthetic opening-balance row. Each day's closing
// inventory is the previous day's computed inventory plus procurement minus
// sales. The fold is strictly sequential across days; negative inventory
// (an oversold day) is preserved as-is, never clamped.
func Rollforward(row domain.RawRow, maxDay int) []domain.DailyRecord {
	records := make([]domain.DailyRecord, 0, maxDay+1)

	records = append(records, domain.DailyRecord{
		Day:       0,
		Inventory: row.OpeningInventory,
	})

	inventory := row.OpeningInventory
	for d := 1; d <= maxDay; d++ {
		figures := row.Days[d] // zero value covers missing days
		inventory = inventory + figures.ProcurementQty - figures.SalesQty

		records = append(records, domain.DailyRecord{
			Day:               d,
			Inventory:         inventory,
			ProcurementQty:    figures.ProcurementQty,
			ProcurementPrice:  figures.ProcurementPrice,
			ProcurementAmount: float64(figures.ProcurementQty) * figures.ProcurementPrice,
			SalesQty:          figures.SalesQty,
			SalesPrice:        figures.SalesPrice,
			SalesAmount:       float64(figures.SalesQty) * figures.SalesPrice,
		})
	}

	return records
}
