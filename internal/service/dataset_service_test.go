package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stocklens/backend-go/internal/repository"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	nextDatasetID int64
	nextProductID int64
	datasets      map[int64]*domain.DataSet
	ledgers       map[int64][]domain.ProductLedger
	failCreate    error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		datasets: make(map[int64]*domain.DataSet),
		ledgers:  make(map[int64][]domain.ProductLedger),
	}
}

func (r *memoryRepo) CreateDatasetTree(ctx context.Context, name, sourceKey string, build func(datasetID int64) []repository.ProductTree) (*domain.DataSet, error) {
	if r.failCreate != nil {
		return nil, r.failCreate
	}

	r.nextDatasetID++
	ds := &domain.DataSet{ID: r.nextDatasetID, Name: name, SourceKey: sourceKey}

	var ledgers []domain.ProductLedger
	for _, tree := range build(ds.ID) {
		r.nextProductID++
		ledgers = append(ledgers, domain.ProductLedger{
			Product: domain.Product{
				ID:        r.nextProductID,
				DatasetID: ds.ID,
				Key:       tree.Key,
				Name:      tree.Name,
			},
			Records: tree.Records,
		})
	}

	r.datasets[ds.ID] = ds
	r.ledgers[ds.ID] = ledgers
	return ds, nil
}

func (r *memoryRepo) ListDatasets(ctx context.Context) ([]domain.DataSet, error) {
	out := make([]domain.DataSet, 0, len(r.datasets))
	for _, ds := range r.datasets {
		out = append(out, *ds)
	}
	return out, nil
}

func (r *memoryRepo) GetDataset(ctx context.Context, id int64) (*domain.DataSet, error) {
	ds, ok := r.datasets[id]
	if !ok {
		return nil, domain.ErrDatasetNotFound
	}
	return ds, nil
}

func (r *memoryRepo) ListProducts(ctx context.Context, datasetID int64) ([]domain.Product, error) {
	var out []domain.Product
	for _, ledger := range r.ledgers[datasetID] {
		out = append(out, ledger.Product)
	}
	return out, nil
}

func (r *memoryRepo) GetLedgers(ctx context.Context, datasetID int64, productIDs []int64) ([]domain.ProductLedger, error) {
	ledgers := r.ledgers[datasetID]
	if productIDs == nil {
		return ledgers, nil
	}
	var out []domain.ProductLedger
	for _, ledger := range ledgers {
		for _, id := range productIDs {
			if ledger.Product.ID == id {
				out = append(out, ledger)
				break
			}
		}
	}
	return out, nil
}

func (r *memoryRepo) RenameDataset(ctx context.Context, id int64, name string) error {
	ds, ok := r.datasets[id]
	if !ok {
		return domain.ErrDatasetNotFound
	}
	ds.Name = name
	return nil
}

func (r *memoryRepo) DeleteDataset(ctx context.Context, id int64) error {
	if _, ok := r.datasets[id]; !ok {
		return domain.ErrDatasetNotFound
	}
	delete(r.datasets, id)
	delete(r.ledgers, id)
	return nil
}

const sampleCSV = "ID,Product Name,Opening Inventory," +
	"Procurement Qty (Day 1),Procurement Price (Day 1),Sales Qty (Day 1),Sales Price (Day 1)," +
	"Procurement Qty (Day 2),Procurement Price (Day 2),Sales Qty (Day 2),Sales Price (Day 2)\n" +
	"r1,Widget,10,5,2,3,4,0,0,2,4\n" +
	"r2,Gadget,1,0,0,4,1,2,3,0,0\n"

func TestUploadCreatesDatasetTree(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewDatasetService(repo, nil, nil)
	ctx := context.Background()

	summary, err := svc.Upload(ctx, "", "sheet.csv", []byte(sampleCSV))
	require.NoError(t, err)
	require.Equal(t, "sheet.csv", summary.DatasetName)
	require.Equal(t, 2, summary.Products)
	require.Equal(t, 6, summary.Records) // (maxDay+1) records per product
	require.Equal(t, 2, summary.Days)

	ledgers := repo.ledgers[summary.DatasetID]
	require.Len(t, ledgers, 2)

	widget := ledgers[0]
	require.Equal(t, "Widget", widget.Product.Name)
	require.NotEmpty(t, widget.Product.Key)
	require.Equal(t, 10, widget.Records[0].Inventory)
	require.Equal(t, 12, widget.Records[1].Inventory)
	require.Equal(t, 10, widget.Records[2].Inventory)

	gadget := ledgers[1]
	require.Equal(t, -3, gadget.Records[1].Inventory) // oversold, preserved
	require.Equal(t, -1, gadget.Records[2].Inventory)
}

func TestUploadSuffixesDuplicateNames(t *testing.T) {
	csv := "ID,Product Name,Sales Qty (Day 1),Sales Price (Day 1)\n" +
		"r1,X,1,1\n" +
		"r2,X,1,1\n" +
		"r3,X,1,1\n"

	repo := newMemoryRepo()
	svc := NewDatasetService(repo, nil, nil)

	summary, err := svc.Upload(context.Background(), "dup", "dup.csv", []byte(csv))
	require.NoError(t, err)

	ledgers := repo.ledgers[summary.DatasetID]
	require.Len(t, ledgers, 3)
	require.Equal(t, "X", ledgers[0].Product.Name)
	require.Equal(t, "X(2)", ledgers[1].Product.Name)
	require.Equal(t, "X(3)", ledgers[2].Product.Name)
}

func TestUploadRejectsSheetsWithoutDayColumns(t *testing.T) {
	csv := "ID,Product Name,Notes\nr1,Widget,hello\n"

	repo := newMemoryRepo()
	svc := NewDatasetService(repo, nil, nil)

	_, err := svc.Upload(context.Background(), "bad", "bad.csv", []byte(csv))
	require.Error(t, err)
	require.True(t, domain.IsValidation(err))
	require.Empty(t, repo.datasets) // nothing persisted
}

func TestUploadPersistenceFailureLeavesNothing(t *testing.T) {
	repo := newMemoryRepo()
	repo.failCreate = errors.New("connection reset")
	svc := NewDatasetService(repo, nil, nil)

	_, err := svc.Upload(context.Background(), "s", "sheet.csv", []byte(sampleCSV))
	require.Error(t, err)
	require.False(t, domain.IsValidation(err))
	require.Empty(t, repo.datasets)
}

func TestOverviewThroughService(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewDatasetService(repo, nil, nil)
	ctx := context.Background()

	summary, err := svc.Upload(ctx, "s", "sheet.csv", []byte(sampleCSV))
	require.NoError(t, err)

	points, err := svc.Overview(ctx, summary.DatasetID, domain.SeriesFilter{})
	require.NoError(t, err)
	require.Len(t, points, 3) // days 0..2

	// day 1: Widget 12 + Gadget -3; sales 3*4 + 4*1; procurement 5*2 + 0
	require.Equal(t, 1, points[1].Day)
	require.Equal(t, 9, points[1].Inventory)
	require.Equal(t, 16.0, points[1].SalesAmount)
	require.Equal(t, 10.0, points[1].ProcurementAmount)
}

func TestOverviewUnknownDataset(t *testing.T) {
	svc := NewDatasetService(newMemoryRepo(), nil, nil)

	_, err := svc.Overview(context.Background(), 42, domain.SeriesFilter{})
	require.ErrorIs(t, err, domain.ErrDatasetNotFound)
}

func TestRenameAndDelete(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewDatasetService(repo, nil, nil)
	ctx := context.Background()

	summary, err := svc.Upload(ctx, "s", "sheet.csv", []byte(sampleCSV))
	require.NoError(t, err)

	require.NoError(t, svc.RenameDataset(ctx, summary.DatasetID, "renamed"))
	ds, _, err := svc.GetDataset(ctx, summary.DatasetID)
	require.NoError(t, err)
	require.Equal(t, "renamed", ds.Name)

	err = svc.RenameDataset(ctx, summary.DatasetID, "")
	require.True(t, domain.IsValidation(err))

	require.NoError(t, svc.DeleteDataset(ctx, summary.DatasetID))
	require.ErrorIs(t, svc.DeleteDataset(ctx, summary.DatasetID), domain.ErrDatasetNotFound)
	require.ErrorIs(t, svc.RenameDataset(ctx, 999, "x"), domain.ErrDatasetNotFound)
}
