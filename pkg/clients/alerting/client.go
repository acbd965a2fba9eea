package alerting

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client delivers low-stock notifications.
type Client interface {
	SendLowStock(ctx context.Context, req LowStockNotification) error
}

// WebhookClient is a resty-backed implementation of Client posting JSON to a webhook.
type WebhookClient struct {
	httpClient *resty.Client
	url        string
}

// NewWebhookClient builds a client for the given webhook URL.
func NewWebhookClient(url string) *WebhookClient {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &WebhookClient{httpClient: restyClient, url: url}
}

// LowStockItem is one flagged row in a notification.
type LowStockItem struct {
	Item            string   `json:"item"`
	Quantity        *float64 `json:"quantity"`
	DailySales      *float64 `json:"daily_sales"`
	DaysOfInventory string   `json:"days_of_inventory"`
}

// LowStockNotification is the JSON body posted to the webhook.
type LowStockNotification struct {
	Owner       string         `json:"owner"`
	GeneratedAt time.Time      `json:"generated_at"`
	Text        string         `json:"text"`
	Items       []LowStockItem `json:"items"`
}

// apiError captures an optional error payload returned by the webhook.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SendLowStock posts the notification and fails on any non-2xx response.
func (c *WebhookClient) SendLowStock(ctx context.Context, req LowStockNotification) error {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetError(apiErr).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("send low stock alert: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Message
		if message == "" {
			message = apiErr.Error
		}
		return fmt.Errorf("alert webhook error: code=%d, message=%s", resp.StatusCode(), message)
	}

	return nil
}
