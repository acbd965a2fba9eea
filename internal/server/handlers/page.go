package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/inventory-dashboard/internal/domain/models"
	"github.com/mamadbah2/inventory-dashboard/internal/server/middleware"
	"github.com/mamadbah2/inventory-dashboard/internal/service/metrics"
)

// page is the data handed to every HTML template.
type page struct {
	Title  string
	User   string
	Error  string
	Notice string

	// Form echo values.
	Username   string
	Item       string
	Quantity   string
	DailySales string

	// Dashboard.
	Columns       []string
	Rows          []models.MetricRecord
	Summary       metrics.Summary
	Labels        []string
	Sales         []float64
	Inventory     []float64
	SheetsEnabled bool
}

func render(c *gin.Context, status int, name string, p page) {
	if p.User == "" {
		p.User = middleware.CurrentUser(c)
	}
	c.HTML(status, name, p)
}
