package assistant

import (
	"testing"

	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestBuildContextIncludesTotalsAndLedger(t *testing.T) {
	ds := domain.DataSet{ID: 1, Name: "June figures"}
	ledgers := []domain.ProductLedger{
		{
			Product: domain.Product{ID: 1, Name: "Widget"},
			Records: []domain.DailyRecord{
				{Day: 0, Inventory: 10},
				{Day: 1, Inventory: 12, ProcurementQty: 5, ProcurementPrice: 2, ProcurementAmount: 10, SalesQty: 3, SalesPrice: 4, SalesAmount: 12},
			},
		},
	}

	text := BuildContext(ds, ledgers)
	require.Contains(t, text, "Dataset: June figures")
	require.Contains(t, text, "Product: Widget")
	require.Contains(t, text, "Total sales amount: 12.00")
	require.Contains(t, text, "Total procurement amount: 10.00")
	require.Contains(t, text, "day 1: inventory=12 procurement=5x2.00 sales=3x4.00")
}
