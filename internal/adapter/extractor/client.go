package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"
)

// Client obtains the free-form field mapping scraped from an order's detail
// page. The scrape is best-effort; callers must treat failures and partial
// mappings as missing data, not hard errors.
type Client interface {
	ExtractOrderInfo(ctx context.Context, orderNumber string) (map[string]string, error)
}

// HTTPClient implements Client against the browser-automation sidecar.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type infoResponse struct {
	Data map[string]string `json:"data"`
}

// NewHTTPClient creates the sidecar client. The timeout is generous because a
// scrape involves a page load in a real browser.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse extractor url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("extractor url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// ExtractOrderInfo fetches the label/value mapping for one order.
func (c *HTTPClient) ExtractOrderInfo(ctx context.Context, orderNumber string) (map[string]string, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/orders/", orderNumber, "/info")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Warn("order info extraction failed",
			slog.String("order", orderNumber),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return nil, fmt.Errorf("extractor error: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var data infoResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode order info: %w", err)
	}
	return data.Data, nil
}
