// backend-go/internal/service/dataset_service.go
package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/stocklens/backend-go/internal/cache"
	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stocklens/backend-go/internal/ingest"
	"github.com/stocklens/backend-go/internal/repository"
	"github.com/stocklens/backend-go/internal/series"
	"github.com/stocklens/backend-go/internal/storage"
)

type DatasetService struct {
	repo    repository.DatasetRepository
	archive storage.Archive
	cache   cache.SeriesCache
}

func NewDatasetService(repo repository.DatasetRepository, archive storage.Archive, cacheImpl cache.SeriesCache) *DatasetService {
	if archive == nil {
		archive = storage.NewNoopArchive()
	}
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopSeriesCache()
	}
	return &DatasetService{repo: repo, archive: archive, cache: cacheImpl}
}

// Upload runs the full ingestion pipeline for one spreadsheet: parse,
// rollforward per admitted row, then persist the dataset tree in one
// transaction. A ValidationError aborts before anything is written; a
// persistence failure rolls the whole upload back.
func (s *DatasetService) Upload(ctx context.Context, name, filename string, data []byte) (*domain.UploadSummary, error) {
	table, err := ingest.ReadTable(bytes.NewReader(data), filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	rows, maxDay, err := ingest.ParseRows(table)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = filename
	}

	sourceKey := ""
	if filename != "" {
		sourceKey = fmt.Sprintf("datasets/%d/%s", time.Now().UnixNano(), filename)
	}

	recordCount := 0
	ds, err := s.repo.CreateDatasetTree(ctx, name, sourceKey, func(datasetID int64) []repository.ProductTree {
		now := time.Now()
		used := make([]string, 0, len(rows))
		products := make([]repository.ProductTree, 0, len(rows))
		for _, row := range rows {
			productName := ingest.UniqueName(row.ProductName, used)
			used = append(used, productName)

			records := ingest.Rollforward(row, maxDay)
			recordCount += len(records)

			products = append(products, repository.ProductTree{
				Key:     ingest.ProductKey(datasetID, row.ExternalID, now),
				Name:    productName,
				Records: records,
			})
		}
		return products
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist dataset: %w", err)
	}

	// Archive the original bytes; the relational tree is already committed,
	// so a storage failure only costs the re-download feature.
	if sourceKey != "" {
		if err := s.archive.Put(ctx, sourceKey, data, contentTypeFor(filename)); err != nil {
			log.Warn().Err(err).Str("key", sourceKey).Msg("failed to archive uploaded file")
		}
	}

	if err := s.cache.InvalidateDataset(ctx, ds.ID); err != nil {
		log.Warn().Err(err).Int64("dataset_id", ds.ID).Msg("failed to invalidate series cache")
	}

	log.Info().
		Int64("dataset_id", ds.ID).
		Int("products", len(rows)).
		Int("records", recordCount).
		Int("days", maxDay).
		Msg("dataset uploaded")

	return &domain.UploadSummary{
		DatasetID:   ds.ID,
		DatasetName: ds.Name,
		Products:    len(rows),
		Records:     recordCount,
		Days:        maxDay,
	}, nil
}

func (s *DatasetService) ListDatasets(ctx context.Context) ([]domain.DataSet, error) {
	return s.repo.ListDatasets(ctx)
}

func (s *DatasetService) GetDataset(ctx context.Context, id int64) (*domain.DataSet, []domain.Product, error) {
	ds, err := s.repo.GetDataset(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	products, err := s.repo.ListProducts(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return ds, products, nil
}

// Overview returns the cross-product overview series for a dataset.
func (s *DatasetService) Overview(ctx context.Context, datasetID int64, filter domain.SeriesFilter) ([]domain.OverviewPoint, error) {
	if points, ok, err := s.cache.GetOverview(ctx, datasetID, filter); err == nil && ok {
		return points, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("series cache get failed")
	}

	ledgers, err := s.ledgers(ctx, datasetID, filter)
	if err != nil {
		return nil, err
	}

	points := series.Overview(ledgers, filter)

	if err := s.cache.SetOverview(ctx, datasetID, filter, points); err != nil {
		log.Warn().Err(err).Msg("series cache set failed")
	}

	return points, nil
}

// WideSeries returns the per-product wide series for a dataset.
func (s *DatasetService) WideSeries(ctx context.Context, datasetID int64, filter domain.SeriesFilter) ([]domain.WidePoint, error) {
	ledgers, err := s.ledgers(ctx, datasetID, filter)
	if err != nil {
		return nil, err
	}
	return series.Wide(ledgers, filter), nil
}

func (s *DatasetService) ledgers(ctx context.Context, datasetID int64, filter domain.SeriesFilter) ([]domain.ProductLedger, error) {
	// Existence check first so an unknown id surfaces as NotFound, not as an
	// empty series.
	if _, err := s.repo.GetDataset(ctx, datasetID); err != nil {
		return nil, err
	}
	return s.repo.GetLedgers(ctx, datasetID, filter.ProductIDs)
}

func (s *DatasetService) RenameDataset(ctx context.Context, id int64, name string) error {
	if name == "" {
		return domain.NewValidationError("dataset name must not be empty")
	}
	if err := s.repo.RenameDataset(ctx, id, name); err != nil {
		return err
	}
	if err := s.cache.InvalidateDataset(ctx, id); err != nil {
		log.Warn().Err(err).Int64("dataset_id", id).Msg("failed to invalidate series cache")
	}
	return nil
}

func (s *DatasetService) DeleteDataset(ctx context.Context, id int64) error {
	if err := s.repo.DeleteDataset(ctx, id); err != nil {
		return err
	}
	if err := s.cache.InvalidateDataset(ctx, id); err != nil {
		log.Warn().Err(err).Int64("dataset_id", id).Msg("failed to invalidate series cache")
	}
	return nil
}

// SourceFile fetches the archived original upload for a dataset.
func (s *DatasetService) SourceFile(ctx context.Context, id int64) ([]byte, string, error) {
	ds, err := s.repo.GetDataset(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if ds.SourceKey == "" {
		return nil, "", storage.ErrArchiveDisabled
	}
	data, err := s.archive.Get(ctx, ds.SourceKey)
	if err != nil {
		return nil, "", err
	}
	return data, ds.SourceKey, nil
}

func contentTypeFor(filename string) string {
	if len(filename) > 5 && filename[len(filename)-5:] == ".xlsx" {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}
