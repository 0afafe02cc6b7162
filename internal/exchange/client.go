// Package exchange implements the exchange-rate collaborator: a small REST
// client returning currency rates relative to a base currency. Callers fall
// back to the pricing table's static rates when a fetch fails.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/visionify/partner-api/internal/config"
)

type Client struct {
	baseURL      string
	baseCurrency string
	httpClient   *http.Client
	logger       *zap.Logger
}

// NewClient creates a new exchange rate client
func NewClient(cfg config.ExchangeConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		baseCurrency: cfg.BaseCurrency,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Rates is the snapshot returned by the rate provider.
type Rates struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

type ratesResponse struct {
	Result         string             `json:"result"`
	BaseCode       string             `json:"base_code"`
	Rates          map[string]float64 `json:"rates"`
	TimeLastUpdate int64              `json:"time_last_update_unix"`
}

// Fetch retrieves the current rate table relative to the base currency
func (c *Client) Fetch(ctx context.Context) (*Rates, error) {
	url := fmt.Sprintf("%s/latest/%s", c.baseURL, c.baseCurrency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exchange rates: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Exchange rate provider returned error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return nil, fmt.Errorf("exchange rate provider returned status %d", resp.StatusCode)
	}

	var parsed ratesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse rates response: %w", err)
	}
	if parsed.Result != "" && parsed.Result != "success" {
		return nil, fmt.Errorf("exchange rate provider returned result %q", parsed.Result)
	}

	updatedAt := time.Now()
	if parsed.TimeLastUpdate > 0 {
		updatedAt = time.Unix(parsed.TimeLastUpdate, 0)
	}

	return &Rates{
		Base:      parsed.BaseCode,
		Rates:     parsed.Rates,
		UpdatedAt: updatedAt,
	}, nil
}
