package vietqr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/quangND1998/app-p2p/internal/domain/model"
)

const (
	generatePath = "/v2/generate"
	banksPath    = "/v2/banks"
)

// GenerateRequest carries the fields of one payment QR.
type GenerateRequest struct {
	AccountNo   string
	AccountName string
	AcqID       string
	AddInfo     string
	Amount      float64
	Template    string
}

// Client generates payment QR images and lists the provider's bank table.
type Client interface {
	Generate(ctx context.Context, req GenerateRequest) ([]byte, error)
	Banks(ctx context.Context) ([]model.BankEntry, error)
}

// HTTPClient implements Client against the VietQR API.
type HTTPClient struct {
	baseURL    *url.URL
	clientID   string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

type generatePayload struct {
	AccountNo   string  `json:"accountNo"`
	AccountName string  `json:"accountName"`
	AcqID       string  `json:"acqId"`
	AddInfo     string  `json:"addInfo"`
	Amount      float64 `json:"amount"`
	Template    string  `json:"template"`
}

type generateResponse struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
	Data struct {
		QRDataURL string `json:"qrDataURL"`
	} `json:"data"`
}

type banksResponse struct {
	Data []struct {
		Code              string `json:"code"`
		Name              string `json:"name"`
		ShortName         string `json:"shortName"`
		BIN               string `json:"bin"`
		TransferSupported int    `json:"transferSupported"`
		LookupSupported   int    `json:"lookupSupported"`
	} `json:"data"`
}

// NewHTTPClient creates a QR provider client with a finite request timeout.
func NewHTTPClient(baseURL, clientID, apiKey string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse qr service url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("qr service url must be absolute")
	}
	return &HTTPClient{
		baseURL:  parsed,
		clientID: clientID,
		apiKey:   apiKey,
		logger:   logger,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

// Generate requests a QR image and decodes the returned data URL into PNG bytes.
func (c *HTTPClient) Generate(ctx context.Context, r GenerateRequest) ([]byte, error) {
	payload, err := json.Marshal(generatePayload{
		AccountNo:   r.AccountNo,
		AccountName: r.AccountName,
		AcqID:       r.AcqID,
		AddInfo:     r.AddInfo,
		Amount:      r.Amount,
		Template:    r.Template,
	})
	if err != nil {
		return nil, fmt.Errorf("encode qr request: %w", err)
	}

	endpoint := *c.baseURL
	endpoint.Path = generatePath

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-client-id", c.clientID)
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("qr generation failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, fmt.Errorf("qr service error: %s", resp.Status)
	}

	var data generateResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode qr response: %w", err)
	}
	if data.Data.QRDataURL == "" {
		return nil, fmt.Errorf("qr service rejected request: %s %s", data.Code, data.Desc)
	}
	return decodeDataURL(data.Data.QRDataURL)
}

// decodeDataURL strips the "data:image/png;base64," header and decodes the rest.
func decodeDataURL(dataURL string) ([]byte, error) {
	_, encoded, found := strings.Cut(dataURL, ",")
	if !found {
		return nil, fmt.Errorf("malformed qr data url")
	}
	image, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode qr image: %w", err)
	}
	return image, nil
}

// Banks fetches the provider's bank table for the directory refresh.
func (c *HTTPClient) Banks(ctx context.Context) ([]model.BankEntry, error) {
	endpoint := *c.baseURL
	endpoint.Path = banksPath

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
		c.logger.Error("bank list request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, fmt.Errorf("bank list error: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var data banksResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode bank list: %w", err)
	}

	entries := make([]model.BankEntry, 0, len(data.Data))
	for _, b := range data.Data {
		entries = append(entries, model.BankEntry{
			Code:              b.Code,
			Name:              b.Name,
			ShortName:         b.ShortName,
			BIN:               b.BIN,
			TransferSupported: b.TransferSupported != 0,
			LookupSupported:   b.LookupSupported != 0,
		})
	}
	return entries, nil
}
