// backend-go/internal/repository/postgres/dataset_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stocklens/backend-go/internal/repository"
)

type DatasetRepository struct {
	db *DB
}

func NewDatasetRepository(db *DB) *DatasetRepository {
	return &DatasetRepository{db: db}
}

func (r *DatasetRepository) CreateDatasetTree(ctx context.Context, name, sourceKey string, build func(datasetID int64) []repository.ProductTree) (*domain.DataSet, error) {
	var ds domain.DataSet

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO datasets (name, source_key, created_at, updated_at)
			VALUES ($1, $2, NOW(), NOW())
			RETURNING id, name, source_key, created_at, updated_at
		`
		if err := tx.QueryRowxContext(ctx, query, name, sourceKey).StructScan(&ds); err != nil {
			return fmt.Errorf("failed to insert dataset: %w", err)
		}

		for _, product := range build(ds.ID) {
			var productID int64
			insertProduct := `
				INSERT INTO products (dataset_id, product_key, name, created_at)
				VALUES ($1, $2, $3, NOW())
				RETURNING id
			`
			if err := tx.QueryRowContext(ctx, insertProduct, ds.ID, product.Key, product.Name).Scan(&productID); err != nil {
				return fmt.Errorf("failed to insert product %q: %w", product.Name, err)
			}

			insertRecord := `
				INSERT INTO daily_records
					(product_id, day, inventory,
					 procurement_qty, procurement_price, procurement_amount,
					 sales_qty, sales_price, sales_amount)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`
			for _, rec := range product.Records {
				if _, err := tx.ExecContext(ctx, insertRecord,
					productID, rec.Day, rec.Inventory,
					rec.ProcurementQty, rec.ProcurementPrice, rec.ProcurementAmount,
					rec.SalesQty, rec.SalesPrice, rec.SalesAmount,
				); err != nil {
					return fmt.Errorf("failed to insert daily record (product %q day %d): %w", product.Name, rec.Day, err)
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ds, nil
}

func (r *DatasetRepository) ListDatasets(ctx context.Context) ([]domain.DataSet, error) {
	datasets := []domain.DataSet{}
	query := `SELECT id, name, source_key, created_at, updated_at FROM datasets ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &datasets, query); err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	return datasets, nil
}

func (r *DatasetRepository) GetDataset(ctx context.Context, id int64) (*domain.DataSet, error) {
	var ds domain.DataSet
	query := `SELECT id, name, source_key, created_at, updated_at FROM datasets WHERE id = $1`
	if err := r.db.GetContext(ctx, &ds, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDatasetNotFound
		}
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}
	return &ds, nil
}

func (r *DatasetRepository) ListProducts(ctx context.Context, datasetID int64) ([]domain.Product, error) {
	products := []domain.Product{}
	query := `
		SELECT id, dataset_id, product_key, name, created_at
		FROM products
		WHERE dataset_id = $1
		ORDER BY id
	`
	if err := r.db.SelectContext(ctx, &products, query, datasetID); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *DatasetRepository) GetLedgers(ctx context.Context, datasetID int64, productIDs []int64) ([]domain.ProductLedger, error) {
	products := []domain.Product{}
	query := `
		SELECT id, dataset_id, product_key, name, created_at
		FROM products
		WHERE dataset_id = $1 AND ($2::bigint[] IS NULL OR id = ANY($2))
		ORDER BY id
	`
	var ids interface{}
	if productIDs != nil {
		ids = pq.Array(productIDs)
	}
	if err := r.db.SelectContext(ctx, &products, query, datasetID, ids); err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
	}

	ledgers := make([]domain.ProductLedger, 0, len(products))
	recordQuery := `
		SELECT id, product_id, day, inventory,
		       procurement_qty, procurement_price, procurement_amount,
		       sales_qty, sales_price, sales_amount
		FROM daily_records
		WHERE product_id = $1
		ORDER BY day ASC
	`
	for _, product := range products {
		records := []domain.DailyRecord{}
		if err := r.db.SelectContext(ctx, &records, recordQuery, product.ID); err != nil {
			return nil, fmt.Errorf("failed to select records for product %d: %w", product.ID, err)
		}
		ledgers = append(ledgers, domain.ProductLedger{Product: product, Records: records})
	}

	return ledgers, nil
}

func (r *DatasetRepository) RenameDataset(ctx context.Context, id int64, name string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE datasets SET name = $1, updated_at = NOW() WHERE id = $2`, name, id)
	if err != nil {
		return fmt.Errorf("failed to rename dataset: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rename result: %w", err)
	}
	if affected == 0 {
		return domain.ErrDatasetNotFound
	}
	return nil
}

func (r *DatasetRepository) DeleteDataset(ctx context.Context, id int64) error {
	// products and daily_records cascade via foreign keys
	result, err := r.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete dataset: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrDatasetNotFound
	}
	return nil
}
