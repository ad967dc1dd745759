package domain

import "time"

// DataSet is a named container for the products of one spreadsheet upload.
type DataSet struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	SourceKey string    `json:"source_key,omitempty" db:"source_key"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Product is one spreadsheet row promoted to an entity. Key is synthetic and
// collision-free across uploads; Name is de-duplicated within the dataset.
type Product struct {
	ID        int64     `json:"id" db:"id"`
	DatasetID int64     `json:"dataset_id" db:"dataset_id"`
	Key       string    `json:"key" db:"product_key"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DailyRecord is one (product, day) ledger entry. Day 0 is the synthetic
// opening-balance row. Inventory is the closing balance for the day and may
// go negative (oversold day); it is stored as observed, never clamped.
type DailyRecord struct {
	ID                int64   `json:"id" db:"id"`
	ProductID         int64   `json:"product_id" db:"product_id"`
	Day               int     `json:"day" db:"day"`
	Inventory         int     `json:"inventory" db:"inventory"`
	ProcurementQty    int     `json:"procurement_qty" db:"procurement_qty"`
	ProcurementPrice  float64 `json:"procurement_price" db:"procurement_price"`
	ProcurementAmount float64 `json:"procurement_amount" db:"procurement_amount"`
	SalesQty          int     `json:"sales_qty" db:"sales_qty"`
	SalesPrice        float64 `json:"sales_price" db:"sales_price"`
	SalesAmount       float64 `json:"sales_amount" db:"sales_amount"`
}

// DayFigures holds the four raw per-day cells of a spreadsheet row.
type DayFigures struct {
	ProcurementQty   int
	ProcurementPrice float64
	SalesQty         int
	SalesPrice       float64
}

// RawRow is one admitted spreadsheet row before the rollforward. Days is
// keyed 1..maxDay; a missing day reads as all zeros.
type RawRow struct {
	ExternalID       string
	ProductName      string
	OpeningInventory int
	Days             map[int]DayFigures
}

// ProductLedger pairs a product with its day-ascending ledger.
type ProductLedger struct {
	Product Product       `json:"product"`
	Records []DailyRecord `json:"records"`
}

// SeriesFilter narrows an aggregation read. A nil ProductIDs means all
// products; an empty non-nil slice selects none. Day bounds are inclusive
// and independently optional.
type SeriesFilter struct {
	ProductIDs []int64
	DayStart   *int
	DayEnd     *int
}

// OverviewPoint is one day of the cross-product overview series.
type OverviewPoint struct {
	Day               int     `json:"day"`
	Inventory         int     `json:"inventory"`
	SalesAmount       float64 `json:"salesAmount"`
	ProcurementAmount float64 `json:"procurementAmount"`
}

// WidePoint is one day of the per-product wide series: a "day" label plus
// "<product>_Inventory", "<product>_Sales" and "<product>_Procurement"
// numeric fields for every included product.
type WidePoint map[string]any

// UploadSummary reports what one upload created.
type UploadSummary struct {
	DatasetID   int64  `json:"dataset_id"`
	DatasetName string `json:"dataset_name"`
	Products    int    `json:"products"`
	Records     int    `json:"records"`
	Days        int    `json:"days"`
}

// User is an account that may upload and query datasets.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
