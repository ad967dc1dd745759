package repository

import (
	"context"

	"github.com/stocklens/backend-go/internal/domain"
)

// ProductTree is one product with its full ledger, ready to persist as part
// of a dataset's upload transaction.
type ProductTree struct {
	Key     string
	Name    string
	Records []domain.DailyRecord
}

// DatasetRepository is the persistence boundary for datasets, products and
// daily records. Implementations must make CreateDatasetTree atomic: a
// failure anywhere leaves no partial dataset visible to readers.
type DatasetRepository interface {
	// CreateDatasetTree inserts the dataset and invokes build with its new id
	// inside the transaction; the returned products and their records are
	// persisted in the same transaction.
	CreateDatasetTree(ctx context.Context, name, sourceKey string, build func(datasetID int64) []ProductTree) (*domain.DataSet, error)

	ListDatasets(ctx context.Context) ([]domain.DataSet, error)
	GetDataset(ctx context.Context, id int64) (*domain.DataSet, error)
	ListProducts(ctx context.Context, datasetID int64) ([]domain.Product, error)

	// GetLedgers returns the dataset's products with their records ordered by
	// day ascending. A nil productIDs returns every product.
	GetLedgers(ctx context.Context, datasetID int64, productIDs []int64) ([]domain.ProductLedger, error)

	RenameDataset(ctx context.Context, id int64, name string) error
	DeleteDataset(ctx context.Context, id int64) error
}

// UserRepository persists accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}
