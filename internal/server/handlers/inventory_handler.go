package handlers

import (
	"context"
	"errors"
	"fmt"
	"encoding/csv"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-dashboard/internal/domain/models"
	"github.com/mamadbah2/inventory-dashboard/internal/server/middleware"
	"github.com/mamadbah2/inventory-dashboard/internal/service/inventory"
	"github.com/mamadbah2/inventory-dashboard/internal/service/metrics"
)

// maxUploadSize bounds a single CSV upload.
const maxUploadSize = 10 << 20

// InventoryService is the ingestion and metrics surface used by the pages.
type InventoryService interface {
	UploadCSV(ctx context.Context, owner string, r io.Reader) (int, error)
	AddItem(ctx context.Context, owner, item, quantity, dailySales string) (models.InventoryRecord, error)
	Metrics(ctx context.Context, owner string) ([]models.MetricRecord, bool, error)
}

// InventoryHandler serves the upload form and the dashboard.
type InventoryHandler struct {
	svc           InventoryService
	sheetsEnabled bool
	logger        *zap.Logger
}

// NewInventoryHandler constructs the HTTP handler adapter.
func NewInventoryHandler(svc InventoryService, sheetsEnabled bool, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{svc: svc, sheetsEnabled: sheetsEnabled, logger: logger}
}

// ShowUpload renders the CSV and manual entry forms.
func (h *InventoryHandler) ShowUpload(c *gin.Context) {
	render(c, http.StatusOK, "upload.html", page{Title: "Upload"})
}

// Upload accepts either a CSV file, which replaces the user's rows, or a
// single manually entered row, which is appended.
func (h *InventoryHandler) Upload(c *gin.Context) {
	owner := middleware.CurrentUser(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err == nil {
		h.uploadCSV(c, owner, fileHeader)
		return
	}
	if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		status, msg := uploadError(err)
		if status == http.StatusInternalServerError {
			status, msg = http.StatusBadRequest, "Could not read the upload."
		}
		h.logger.Warn("failed reading upload form", zap.Error(err))
		render(c, status, "upload.html", page{Title: "Upload", Error: msg})
		return
	}

	form := page{
		Title:      "Upload",
		Item:       c.PostForm("item"),
		Quantity:   c.PostForm("quantity"),
		DailySales: c.PostForm("daily_sales"),
	}

	if _, err := h.svc.AddItem(c.Request.Context(), owner, form.Item, form.Quantity, form.DailySales); err != nil {
		if status, msg := uploadError(err); status != http.StatusInternalServerError {
			form.Error = msg
			render(c, status, "upload.html", form)
			return
		}
		h.logger.Error("failed adding item", zap.String("owner", owner), zap.Error(err))
		form.Error = "Could not save the item."
		render(c, http.StatusInternalServerError, "upload.html", form)
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *InventoryHandler) uploadCSV(c *gin.Context, owner string, fileHeader *multipart.FileHeader) {
	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Warn("failed opening uploaded file", zap.Error(err))
		render(c, http.StatusBadRequest, "upload.html", page{Title: "Upload", Error: "Could not read the uploaded file."})
		return
	}
	defer file.Close()

	rows, err := h.svc.UploadCSV(c.Request.Context(), owner, file)
	if err != nil {
		status, msg := uploadError(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("csv upload failed", zap.String("owner", owner), zap.Error(err))
		}
		render(c, status, "upload.html", page{Title: "Upload", Error: msg})
		return
	}

	h.logger.Info("csv upload accepted", zap.String("owner", owner), zap.Int("rows", rows))
	c.Redirect(http.StatusFound, "/dashboard")
}

// Dashboard renders the metrics table, summary and chart for the current user.
func (h *InventoryHandler) Dashboard(c *gin.Context) {
	owner := middleware.CurrentUser(c)

	rows, _, err := h.svc.Metrics(c.Request.Context(), owner)
	if err != nil {
		h.logger.Error("failed loading metrics", zap.String("owner", owner), zap.Error(err))
		render(c, http.StatusInternalServerError, "dashboard.html", page{Title: "Dashboard", Error: "Could not load your inventory."})
		return
	}

	p := page{
		Title:         "Dashboard",
		Columns:       models.MetricColumns,
		Rows:          rows,
		Summary:       metrics.Summarize(rows),
		SheetsEnabled: h.sheetsEnabled,
		Labels:        make([]string, 0, len(rows)),
		Sales:         make([]float64, 0, len(rows)),
		Inventory:     make([]float64, 0, len(rows)),
	}
	for _, row := range rows {
		p.Labels = append(p.Labels, row.Item)
		p.Sales = append(p.Sales, valueOrZero(row.DailySales))
		p.Inventory = append(p.Inventory, valueOrZero(row.Quantity))
	}
	if n, err := strconv.Atoi(c.Query("published")); err == nil {
		p.Notice = fmt.Sprintf("Published %d rows to Google Sheets.", n)
	}

	render(c, http.StatusOK, "dashboard.html", p)
}

func uploadError(err error) (int, string) {
	var (
		rowErr   *inventory.RowError
		parseErr *csv.ParseError
		maxErr   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &rowErr):
		return http.StatusBadRequest, capitalize(rowErr.Error()) + "."
	case errors.As(err, &parseErr):
		return http.StatusBadRequest, "Malformed CSV: " + parseErr.Error() + "."
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge, "The file is too large."
	case errors.Is(err, inventory.ErrEmptyFile),
		errors.Is(err, inventory.ErrInvalidEncoding),
		errors.Is(err, inventory.ErrMissingColumns),
		errors.Is(err, inventory.ErrMissingItem):
		return http.StatusBadRequest, capitalize(err.Error()) + "."
	default:
		return http.StatusInternalServerError, "Could not process the upload."
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
