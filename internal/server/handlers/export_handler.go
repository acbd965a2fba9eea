package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-dashboard/internal/domain/models"
	"github.com/mamadbah2/inventory-dashboard/internal/server/middleware"
	"github.com/mamadbah2/inventory-dashboard/internal/service/export"
	"github.com/mamadbah2/inventory-dashboard/internal/telemetry"
)

// Export formats, also used as metric labels.
const (
	FormatExcel  = "excel"
	FormatPDF    = "pdf"
	FormatSheets = "sheets"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MetricsSource loads the computed metrics of one user.
type MetricsSource interface {
	Metrics(ctx context.Context, owner string) ([]models.MetricRecord, bool, error)
}

// Publisher pushes a metrics table to an external spreadsheet.
type Publisher interface {
	Enabled() bool
	Publish(ctx context.Context, owner string, rows []models.MetricRecord) (int, error)
}

// ExportHandler serves the downloadable reports and the Sheets publish action.
type ExportHandler struct {
	source    MetricsSource
	publisher Publisher
	telemetry *telemetry.Registry
	logger    *zap.Logger
}

// NewExportHandler constructs the HTTP handler adapter. publisher and reg may be nil.
func NewExportHandler(source MetricsSource, publisher Publisher, reg *telemetry.Registry, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{source: source, publisher: publisher, telemetry: reg, logger: logger}
}

// Excel downloads the metrics table as report.xlsx.
func (h *ExportHandler) Excel(c *gin.Context) {
	rows, ok := h.load(c)
	if !ok {
		return
	}

	data, err := export.Excel(rows)
	if err != nil {
		h.logger.Error("excel export failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "could not build the Excel report")
		return
	}

	h.observe(FormatExcel)
	h.attach(c, "report.xlsx", xlsxContentType, data)
}

// PDF downloads the metrics table as report.pdf.
func (h *ExportHandler) PDF(c *gin.Context) {
	rows, ok := h.load(c)
	if !ok {
		return
	}

	data, err := export.PDF(rows)
	if err != nil {
		h.logger.Error("pdf export failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "could not build the PDF report")
		return
	}

	h.observe(FormatPDF)
	h.attach(c, "report.pdf", "application/pdf", data)
}

// Sheets appends the metrics table to the configured spreadsheet.
func (h *ExportHandler) Sheets(c *gin.Context) {
	if h.publisher == nil || !h.publisher.Enabled() {
		c.String(http.StatusServiceUnavailable, export.ErrPublisherDisabled.Error())
		return
	}

	rows, ok := h.load(c)
	if !ok {
		return
	}

	owner := middleware.CurrentUser(c)
	n, err := h.publisher.Publish(c.Request.Context(), owner, rows)
	if errors.Is(err, export.ErrPublisherDisabled) {
		c.String(http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("sheets export failed", zap.String("owner", owner), zap.Error(err))
		c.String(http.StatusBadGateway, "could not publish to Google Sheets")
		return
	}

	h.observe(FormatSheets)
	c.Redirect(http.StatusFound, fmt.Sprintf("/dashboard?published=%d", n))
}

// load fetches the current user's metrics. Users without rows are sent back
// to the dashboard.
func (h *ExportHandler) load(c *gin.Context) ([]models.MetricRecord, bool) {
	owner := middleware.CurrentUser(c)

	rows, _, err := h.source.Metrics(c.Request.Context(), owner)
	if err != nil {
		h.logger.Error("failed loading metrics for export", zap.String("owner", owner), zap.Error(err))
		c.String(http.StatusInternalServerError, "could not load your inventory")
		return nil, false
	}
	if len(rows) == 0 {
		c.Redirect(http.StatusFound, "/dashboard")
		return nil, false
	}
	return rows, true
}

func (h *ExportHandler) attach(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, data)
}

func (h *ExportHandler) observe(format string) {
	if h.telemetry == nil {
		return
	}
	h.telemetry.Exports.WithLabelValues(format).Inc()
}
