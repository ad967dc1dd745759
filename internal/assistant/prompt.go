package assistant

import (
	"fmt"
	"strings"

	"github.com/stocklens/backend-go/internal/domain"
)

// BuildContext serializes a dataset's full per-product ledger, plus
// per-product total sales and procurement amounts, as structured text for
// the language model. The boundary is opaque: ledger data in, text out.
func BuildContext(ds domain.DataSet, ledgers []domain.ProductLedger) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Dataset: %s\n", ds.Name)
	fmt.Fprintf(&b, "Products: %d\n\n", len(ledgers))

	for _, ledger := range ledgers {
		var totalSales, totalProcurement float64
		for _, rec := range ledger.Records {
			totalSales += rec.SalesAmount
			totalProcurement += rec.ProcurementAmount
		}

		fmt.Fprintf(&b, "Product: %s\n", ledger.Product.Name)
		fmt.Fprintf(&b, "Total sales amount: %.2f\n", totalSales)
		fmt.Fprintf(&b, "Total procurement amount: %.2f\n", totalProcurement)
		b.WriteString("Daily ledger (day, inventory, procurement qty, procurement price, sales qty, sales price):\n")
		for _, rec := range ledger.Records {
			fmt.Fprintf(&b, "  day %d: inventory=%d procurement=%dx%.2f sales=%dx%.2f\n",
				rec.Day, rec.Inventory,
				rec.ProcurementQty, rec.ProcurementPrice,
				rec.SalesQty, rec.SalesPrice)
		}
		b.WriteString("\n")
	}

	return b.String()
}

const systemPrompt = "You are a data analyst assistant for a business dashboard. " +
	"Answer the user's question using only the inventory, sales and procurement " +
	"ledger provided. Be concise and cite concrete figures from the data."
