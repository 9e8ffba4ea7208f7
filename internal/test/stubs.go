package test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/quangND1998/app-p2p/internal/domain/model"
	"github.com/quangND1998/app-p2p/internal/metrics"
)

// NewLogger returns a logger that discards everything.
func NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewMetrics returns reconciler metrics on a private registry.
func NewMetrics() *metrics.ReconcilerMetrics {
	return metrics.NewReconcilerMetrics(prometheus.NewRegistry())
}

// ExtractorStub serves preconfigured scraped order fields.
type ExtractorStub struct {
	Fields map[string]string
	Err    error
}

// ExtractOrderInfo returns the configured field map or error.
func (s ExtractorStub) ExtractOrderInfo(ctx context.Context, orderNumber string) (map[string]string, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Fields, nil
}

// BankListerStub serves a fixed bank table.
type BankListerStub struct {
	Entries []model.BankEntry
	Err     error
}

// Banks returns the configured table or error.
func (s BankListerStub) Banks(ctx context.Context) ([]model.BankEntry, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Entries, nil
}

// SinkStub records delivered notifications.
type SinkStub struct {
	MessageErr error
	PhotoErr   error
	Messages   []string
	Captions   []string

	mu sync.Mutex
}

// SendMessage records text or fails with the configured error.
func (s *SinkStub) SendMessage(ctx context.Context, text string) error {
	if s.MessageErr != nil {
		return s.MessageErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, text)
	return nil
}

// SendPhoto records the caption or fails with the configured error.
func (s *SinkStub) SendPhoto(ctx context.Context, image []byte, caption string) error {
	if s.PhotoErr != nil {
		return s.PhotoErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Captions = append(s.Captions, caption)
	return nil
}
