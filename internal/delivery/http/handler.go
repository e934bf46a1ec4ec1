package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pricio/backend/internal/domain"
)

// ComparisonUseCase is the search and comparison surface used by the handlers
type ComparisonUseCase interface {
	Stores() []domain.Store
	Search(ctx context.Context, storeID, query, category string, limit int) ([]domain.SearchResult, error)
	SimilarInStore(ctx context.Context, storeID string, source domain.SourceProduct, category string, limit int) ([]domain.ScoredCandidate, error)
	BestCrossStoreMatch(ctx context.Context, sourceStoreID string, source domain.SourceProduct) (*domain.ScoredCandidate, error)
	CrossStoreCandidates(ctx context.Context, sourceStoreID string, source domain.SourceProduct, limit int) ([]domain.ScoredCandidate, error)
	PricePerUnit(name string, price float64) *domain.UnitPrice
	CompareProduct(ctx context.Context, storeID, productID string) (*domain.ProductComparison, error)
	CounterpartStore(storeID string) (domain.Store, error)
}

// AlertUseCase registers price-drop alerts
type AlertUseCase interface {
	CreateAlert(ctx context.Context, alert *domain.PriceAlert, currentPrice float64) error
}

// CatalogReader is the catalog access needed outside the comparison service
type CatalogReader interface {
	GetProduct(ctx context.Context, storeID, productID string) (*domain.Product, error)
	PriceHistory(ctx context.Context, storeID, productID string, limit int) ([]domain.PriceHistoryEntry, error)
	Ping(ctx context.Context) error
}

// CatalogImporter loads a catalog export into a store
type CatalogImporter interface {
	Import(ctx context.Context, r io.Reader, filename, storeID string, headerRow int, dryRun bool) (domain.ImportReport, error)
}

const healthCheckTimeout = 2 * time.Second

// Handler holds dependencies for HTTP handlers
type Handler struct {
	comparison ComparisonUseCase
	alerts     AlertUseCase
	catalog    CatalogReader
	importer   CatalogImporter
	logger     zerolog.Logger
}

// NewHandler creates a new HTTP handler. A nil alerts, catalog or importer
// disables the endpoints that need them.
func NewHandler(
	comparison ComparisonUseCase,
	alerts AlertUseCase,
	catalog CatalogReader,
	importer CatalogImporter,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		comparison: comparison,
		alerts:     alerts,
		catalog:    catalog,
		importer:   importer,
		logger:     logger,
	}
}

// sourceRequest describes the product that comparable products are looked up for
type sourceRequest struct {
	ProductName  string  `json:"productName" binding:"required"`
	ProductID    string  `json:"productId"`
	CurrentPrice float64 `json:"currentPrice" binding:"gte=0"`
	Category     string  `json:"category"`
	Limit        int     `json:"limit" binding:"gte=0"`
}

func (r sourceRequest) source() domain.SourceProduct {
	return domain.SourceProduct{
		ID:           r.ProductID,
		Name:         r.ProductName,
		CurrentPrice: r.CurrentPrice,
	}
}

type pricePerUnitRequest struct {
	ProductName  string  `json:"productName" binding:"required"`
	CurrentPrice float64 `json:"currentPrice" binding:"gte=0"`
}

type createAlertRequest struct {
	UserID            string   `json:"userId" binding:"required"`
	TargetPrice       *float64 `json:"targetPrice"`
	NotifyAnyDecrease bool     `json:"notifyAnyDecrease"`
}

// HealthCheck returns the health status of the API, including database reachability
func (h *Handler) HealthCheck(c *gin.Context) {
	if h.catalog != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()
		if err := h.catalog.Ping(ctx); err != nil {
			h.logger.Warn().Err(err).Msg("health check: database unreachable")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"service": "pricio-backend",
				"error":   "database unreachable",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pricio-backend",
		"version": "1.0.0",
	})
}

// ListStores returns the configured stores
func (h *Handler) ListStores(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stores": h.comparison.Stores()})
}

// Search ranks store products against the q query parameter
func (h *Handler) Search(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	query := c.Query("q")
	results, err := h.comparison.Search(c.Request.Context(), c.Param("storeId"), query, c.Query("category"), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"count":   len(results),
		"results": results,
	})
}

// CompareProduct returns the comparison bundle of a catalog product
func (h *Handler) CompareProduct(c *gin.Context) {
	comparison, err := h.comparison.CompareProduct(c.Request.Context(), c.Param("storeId"), c.Param("productId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comparison)
}

// SimilarInStore lists comparable products in the same store
func (h *Handler) SimilarInStore(c *gin.Context) {
	var req sourceRequest
	if !bindJSON(c, &req) {
		return
	}

	similar, err := h.comparison.SimilarInStore(c.Request.Context(), c.Param("storeId"), req.source(), req.Category, req.Limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"similar": similar})
}

// CrossStoreCandidates lists comparable products in the counterpart store
func (h *Handler) CrossStoreCandidates(c *gin.Context) {
	var req sourceRequest
	if !bindJSON(c, &req) {
		return
	}

	storeID := c.Param("storeId")
	candidates, err := h.comparison.CrossStoreCandidates(c.Request.Context(), storeID, req.source(), req.Limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	target, _ := h.comparison.CounterpartStore(storeID)

	c.JSON(http.StatusOK, gin.H{
		"targetStore": target,
		"candidates":  candidates,
	})
}

// BestCrossStoreMatch returns the confident counterpart of a product, or null
func (h *Handler) BestCrossStoreMatch(c *gin.Context) {
	var req sourceRequest
	if !bindJSON(c, &req) {
		return
	}

	storeID := c.Param("storeId")
	match, err := h.comparison.BestCrossStoreMatch(c.Request.Context(), storeID, req.source())
	if err != nil {
		h.respondError(c, err)
		return
	}
	target, _ := h.comparison.CounterpartStore(storeID)

	c.JSON(http.StatusOK, gin.H{
		"targetStore": target,
		"match":       match,
	})
}

// PricePerUnit returns the per-liter or per-kilogram price of a product name
func (h *Handler) PricePerUnit(c *gin.Context) {
	var req pricePerUnitRequest
	if !bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"pricePerUnit": h.comparison.PricePerUnit(req.ProductName, req.CurrentPrice)})
}

// PriceHistory returns the recorded prices of a product, newest first
func (h *Handler) PriceHistory(c *gin.Context) {
	if h.catalog == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "price history is not available"})
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	history, err := h.catalog.PriceHistory(c.Request.Context(), c.Param("storeId"), c.Param("productId"), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

// CreateAlert subscribes a user to price drops of a catalog product
func (h *Handler) CreateAlert(c *gin.Context) {
	if h.alerts == nil || h.catalog == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "price alerts are not enabled"})
		return
	}

	var req createAlertRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	storeID := c.Param("storeId")
	if !h.knownStore(storeID) {
		h.respondError(c, domain.ErrUnknownStore)
		return
	}

	product, err := h.catalog.GetProduct(ctx, storeID, c.Param("productId"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	alert := &domain.PriceAlert{
		UserID:            req.UserID,
		ProductID:         product.ID,
		StoreID:           storeID,
		TargetPrice:       req.TargetPrice,
		NotifyAnyDecrease: req.NotifyAnyDecrease,
	}
	if err := h.alerts.CreateAlert(ctx, alert, product.CurrentPrice); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, alert)
}

// ImportCatalog loads an uploaded catalog file (multipart field "file") into a store
func (h *Handler) ImportCatalog(c *gin.Context) {
	if h.importer == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "catalog import is not enabled"})
		return
	}

	storeID := c.Param("storeId")
	if !h.knownStore(storeID) {
		h.respondError(c, domain.ErrUnknownStore)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	headerRow := 1
	if raw := c.PostForm("header"); raw != "" {
		headerRow, err = strconv.Atoi(raw)
		if err != nil || headerRow < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "header must be a positive integer"})
			return
		}
	}
	dryRun, _ := strconv.ParseBool(c.PostForm("dry_run"))

	f, err := header.Open()
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer f.Close()

	report, err := h.importer.Import(c.Request.Context(), f, header.Filename, storeID, headerRow, dryRun)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) knownStore(storeID string) bool {
	for _, st := range h.comparison.Stores() {
		if st.ID == storeID {
			return true
		}
	}
	return false
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownStore),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrNoCounterpartStore):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrCatalogUnavailable):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func queryInt(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be a non-negative integer"})
		return 0, false
	}
	return v, true
}
