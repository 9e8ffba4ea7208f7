package feed

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/quangND1998/app-p2p/internal/domain/model"
)

const historyPath = "/sapi/v1/c2c/orderMatch/listUserOrderHistory"

// Client exposes the paginated order-history feed.
type Client interface {
	Recent(ctx context.Context, side model.TradeSide, start, end time.Time) ([]model.Order, error)
}

// HTTPClient implements Client against the marketplace HTTP API. Requests are
// signed with HMAC-SHA256 over the query string, per the API convention.
type HTTPClient struct {
	baseURL    *url.URL
	apiKey     string
	apiSecret  string
	pageSize   int
	maxPages   int
	httpClient *http.Client
	logger     *slog.Logger
}

// order mirrors one feed entry. Decimal fields arrive as strings.
type order struct {
	OrderNumber string `json:"orderNumber"`
	TradeType   string `json:"tradeType"`
	OrderStatus string `json:"orderStatus"`
	TotalPrice  string `json:"totalPrice"`
	UnitPrice   string `json:"unitPrice"`
	Amount      string `json:"amount"`
	Asset       string `json:"asset"`
	Fiat        string `json:"fiat"`
	FiatSymbol  string `json:"fiatSymbol"`
	CreateTime  int64  `json:"createTime"`
}

type historyResponse struct {
	Data []order `json:"data"`
}

// NewHTTPClient creates a feed client with a finite request timeout.
func NewHTTPClient(baseURL, apiKey, apiSecret string, pageSize, maxPages int, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse feed url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("feed url must be absolute")
	}
	if pageSize <= 0 {
		pageSize = 100
	}
	if maxPages <= 0 {
		maxPages = 100
	}
	return &HTTPClient{
		baseURL:   parsed,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		pageSize:  pageSize,
		maxPages:  maxPages,
		logger:    logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Recent walks the history pages for one trade side within [start, end],
// ascending from page 1, and stops on an empty page or the page ceiling.
// A zero start or end leaves that bound off the query.
func (c *HTTPClient) Recent(ctx context.Context, side model.TradeSide, start, end time.Time) ([]model.Order, error) {
	var all []model.Order
	for page := 1; page <= c.maxPages; page++ {
		orders, err := c.fetchPage(ctx, side, start, end, page)
		if err != nil {
			return nil, err
		}
		if len(orders) == 0 {
			break
		}
		all = append(all, orders...)
		if page == c.maxPages {
			c.logger.Warn("feed page ceiling reached", slog.String("side", string(side)), slog.Int("pages", page))
		}
	}
	return all, nil
}

func (c *HTTPClient) fetchPage(ctx context.Context, side model.TradeSide, start, end time.Time, page int) ([]model.Order, error) {
	query := url.Values{}
	query.Set("tradeType", string(side))
	if !start.IsZero() {
		query.Set("startTimestamp", strconv.FormatInt(start.UnixMilli(), 10))
	}
	if !end.IsZero() {
		query.Set("endTimestamp", strconv.FormatInt(end.UnixMilli(), 10))
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("rows", strconv.Itoa(c.pageSize))
	query.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	query.Set("signature", c.sign(query.Encode()))

	endpoint := *c.baseURL
	endpoint.Path = historyPath
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-MBX-APIKEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("feed request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, fmt.Errorf("feed error: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var data historyResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode feed page: %w", err)
	}

	orders := make([]model.Order, 0, len(data.Data))
	for _, o := range data.Data {
		orders = append(orders, toModel(o))
	}
	return orders, nil
}

func (c *HTTPClient) sign(payload string) string {
	mac := hmac.New(sha256.New, []byte(c.apiSecret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func toModel(o order) model.Order {
	return model.Order{
		Number:       o.OrderNumber,
		Side:         model.TradeSide(o.TradeType),
		Status:       model.OrderStatus(o.OrderStatus),
		FiatAmount:   parseDecimal(o.TotalPrice),
		FiatCurrency: o.Fiat,
		FiatSymbol:   o.FiatSymbol,
		CryptoAmount: parseDecimal(o.Amount),
		CryptoAsset:  o.Asset,
		UnitPrice:    parseDecimal(o.UnitPrice),
		CreatedAt:    time.UnixMilli(o.CreateTime),
	}
}

func parseDecimal(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
