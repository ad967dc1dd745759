package handlers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stocklens/backend-go/internal/service"
	"github.com/stocklens/backend-go/internal/storage"
)

type DatasetHandler struct {
	service *service.DatasetService
}

func NewDatasetHandler(service *service.DatasetService) *DatasetHandler {
	return &DatasetHandler{service: service}
}

// Upload ingests one spreadsheet as a new dataset.
func (h *DatasetHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a spreadsheet file is required"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		// Dataset name defaults to the source file name.
		name = filepath.Base(fileHeader.Filename)
	}

	summary, err := h.service.Upload(c.Request.Context(), name, filepath.Base(fileHeader.Filename), data)
	if err != nil {
		if domain.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Msg("upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process upload", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, summary)
}

func (h *DatasetHandler) List(c *gin.Context) {
	datasets, err := h.service.ListDatasets(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list datasets"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"datasets": datasets})
}

func (h *DatasetHandler) Get(c *gin.Context) {
	id, ok := datasetID(c)
	if !ok {
		return
	}

	ds, products, err := h.service.GetDataset(c.Request.Context(), id)
	if err != nil {
		respondDatasetError(c, err, "failed to fetch dataset")
		return
	}

	c.JSON(http.StatusOK, gin.H{"dataset": ds, "products": products})
}

func (h *DatasetHandler) Rename(c *gin.Context) {
	id, ok := datasetID(c)
	if !ok {
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.service.RenameDataset(c.Request.Context(), id, strings.TrimSpace(body.Name)); err != nil {
		respondDatasetError(c, err, "failed to rename dataset")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "renamed"})
}

func (h *DatasetHandler) Delete(c *gin.Context) {
	id, ok := datasetID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteDataset(c.Request.Context(), id); err != nil {
		respondDatasetError(c, err, "failed to delete dataset")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Overview serves the cross-product overview time series.
func (h *DatasetHandler) Overview(c *gin.Context) {
	id, ok := datasetID(c)
	if !ok {
		return
	}
	filter := parseSeriesFilter(c)

	points, err := h.service.Overview(c.Request.Context(), id, filter)
	if err != nil {
		respondDatasetError(c, err, "failed to build overview series")
		return
	}

	c.JSON(http.StatusOK, gin.H{"series": points})
}

// Series serves the per-product wide series consumed by multi-line charts.
func (h *DatasetHandler) Series(c *gin.Context) {
	id, ok := datasetID(c)
	if !ok {
		return
	}
	filter := parseSeriesFilter(c)

	points, err := h.service.WideSeries(c.Request.Context(), id, filter)
	if err != nil {
		respondDatasetError(c, err, "failed to build series")
		return
	}

	c.JSON(http.StatusOK, gin.H{"series": points})
}

// Source streams back the archived original upload.
func (h *DatasetHandler) Source(c *gin.Context) {
	id, ok := datasetID(c)
	if !ok {
		return
	}

	data, key, err := h.service.SourceFile(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrArchiveDisabled) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no archived source for this dataset"})
			return
		}
		respondDatasetError(c, err, "failed to fetch source file")
		return
	}

	filename := filepath.Base(key)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/octet-stream", data)
}

func datasetID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dataset id"})
		return 0, false
	}
	return id, true
}

// parseSeriesFilter reads the optional products subset and inclusive day
// range. An explicitly empty products param selects no products.
func parseSeriesFilter(c *gin.Context) domain.SeriesFilter {
	filter := domain.SeriesFilter{}

	if raw, exists := c.GetQuery("products"); exists {
		filter.ProductIDs = []int64{}
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if id, err := strconv.ParseInt(part, 10, 64); err == nil {
				filter.ProductIDs = append(filter.ProductIDs, id)
			}
		}
	}

	parseDay := func(param string) *int {
		value := strings.TrimSpace(c.Query(param))
		if value == "" {
			return nil
		}
		if d, err := strconv.Atoi(value); err == nil {
			return &d
		}
		return nil
	}

	filter.DayStart = parseDay("day_start")
	filter.DayEnd = parseDay("day_end")

	return filter
}

func respondDatasetError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, domain.ErrDatasetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "dataset not found"})
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Msg(message)
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}
