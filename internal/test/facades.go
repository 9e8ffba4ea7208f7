package test

import (
	"context"
	"sync"
	"time"

	"github.com/quangND1998/app-p2p/internal/domain/model"
)

// StatusCall stores information about RecordStatus invocations.
type StatusCall struct {
	OrderNumber string
	Status      model.OrderStatus
}

// SettlementCall stores information about RecordSettlement invocations.
type SettlementCall struct {
	Record model.TransactionRecord
	Image  []byte
}

// TradeFacadeStub mimics reconciler interactions with the trade facade.
type TradeFacadeStub struct {
	OrdersFn        func(context.Context, model.TradeSide, time.Time, time.Time) ([]model.Order, error)
	RebuildFn       func(context.Context, *time.Time, *time.Time) (map[string]model.OrderStatus, error)
	RecordStatusFn  func(context.Context, string, model.OrderStatus) error
	RecordFn        func(context.Context, model.TransactionRecord, []byte) (model.TransactionRecord, error)
	ResolveFn       func(context.Context, string) (*model.SettlementInfo, error)
	SettlementQRFn  func(context.Context, *model.SettlementInfo) ([]byte, error)
	MerchantQRFn    func(context.Context, float64, string) ([]byte, error)
	NotifyFn        func(context.Context, string) error
	NotifyPhotoFn   func(context.Context, []byte, string) error
	StatusCalls     []StatusCall
	SettlementCalls []SettlementCall
	Notifications   []string
	Photos          []string

	mu sync.Mutex
}

// Lock exposes internal mutex for external synchronization.
func (s *TradeFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *TradeFacadeStub) Unlock() { s.mu.Unlock() }

// RecentOrders returns orders from the configured function or nothing.
func (s *TradeFacadeStub) RecentOrders(ctx context.Context, side model.TradeSide, start, end time.Time) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, side, start, end)
	}
	return nil, nil
}

// RebuildStatusIndex returns the configured index or an empty one.
func (s *TradeFacadeStub) RebuildStatusIndex(ctx context.Context, windowStart, windowEnd *time.Time) (map[string]model.OrderStatus, error) {
	if s.RebuildFn != nil {
		return s.RebuildFn(ctx, windowStart, windowEnd)
	}
	return map[string]model.OrderStatus{}, nil
}

// RecordStatus records status-only log requests.
func (s *TradeFacadeStub) RecordStatus(ctx context.Context, orderNumber string, status model.OrderStatus) error {
	if s.RecordStatusFn != nil {
		return s.RecordStatusFn(ctx, orderNumber, status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.StatusCalls = append(s.StatusCalls, StatusCall{OrderNumber: orderNumber, Status: status})
	return nil
}

// RecordSettlement records full transaction log requests.
func (s *TradeFacadeStub) RecordSettlement(ctx context.Context, record model.TransactionRecord, image []byte) (model.TransactionRecord, error) {
	if s.RecordFn != nil {
		return s.RecordFn(ctx, record, image)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SettlementCalls = append(s.SettlementCalls, SettlementCall{Record: record, Image: image})
	return record, nil
}

// ResolveSettlement returns configured settlement details.
func (s *TradeFacadeStub) ResolveSettlement(ctx context.Context, orderNumber string) (*model.SettlementInfo, error) {
	if s.ResolveFn != nil {
		return s.ResolveFn(ctx, orderNumber)
	}
	return &model.SettlementInfo{
		Amount:        100000,
		AccountName:   "NGUYEN VAN A",
		AccountNumber: "0123456789",
		BankName:      "Vietcombank",
		BankID:        "970436",
		Reference:     orderNumber,
	}, nil
}

// GenerateSettlementQR returns a configured or placeholder image.
func (s *TradeFacadeStub) GenerateSettlementQR(ctx context.Context, info *model.SettlementInfo) ([]byte, error) {
	if s.SettlementQRFn != nil {
		return s.SettlementQRFn(ctx, info)
	}
	return []byte("qr"), nil
}

// GenerateMerchantQR returns a configured or placeholder image.
func (s *TradeFacadeStub) GenerateMerchantQR(ctx context.Context, amount float64, note string) ([]byte, error) {
	if s.MerchantQRFn != nil {
		return s.MerchantQRFn(ctx, amount, note)
	}
	return []byte("qr"), nil
}

// Notify records text notifications.
func (s *TradeFacadeStub) Notify(ctx context.Context, text string) error {
	if s.NotifyFn != nil {
		return s.NotifyFn(ctx, text)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Notifications = append(s.Notifications, text)
	return nil
}

// NotifyPhoto records photo notifications by caption.
func (s *TradeFacadeStub) NotifyPhoto(ctx context.Context, image []byte, caption string) error {
	if s.NotifyPhotoFn != nil {
		return s.NotifyPhotoFn(ctx, image, caption)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Photos = append(s.Photos, caption)
	return nil
}

// TransactionFacadeStub provides controllable behaviour for viewer endpoints.
type TransactionFacadeStub struct {
	ByDateFn  func(context.Context, time.Time, string, model.RecordType) ([]model.TransactionRecord, error)
	ByRangeFn func(context.Context, time.Time, time.Time) ([]model.TransactionRecord, error)
	RecentFn  func(context.Context, int) ([]model.TransactionRecord, error)
	ByOrderFn func(context.Context, string) (*model.TransactionRecord, error)
}

// TransactionsByDate delegates to the configured function or returns nothing.
func (s TransactionFacadeStub) TransactionsByDate(ctx context.Context, date time.Time, orderPrefix string, recordType model.RecordType) ([]model.TransactionRecord, error) {
	if s.ByDateFn != nil {
		return s.ByDateFn(ctx, date, orderPrefix, recordType)
	}
	return nil, nil
}

// TransactionsByRange delegates to the configured function or returns nothing.
func (s TransactionFacadeStub) TransactionsByRange(ctx context.Context, start, end time.Time) ([]model.TransactionRecord, error) {
	if s.ByRangeFn != nil {
		return s.ByRangeFn(ctx, start, end)
	}
	return nil, nil
}

// RecentTransactions delegates to the configured function or returns nothing.
func (s TransactionFacadeStub) RecentTransactions(ctx context.Context, limit int) ([]model.TransactionRecord, error) {
	if s.RecentFn != nil {
		return s.RecentFn(ctx, limit)
	}
	return nil, nil
}

// TransactionByOrder delegates to the configured function.
func (s TransactionFacadeStub) TransactionByOrder(ctx context.Context, orderNumber string) (*model.TransactionRecord, error) {
	if s.ByOrderFn != nil {
		return s.ByOrderFn(ctx, orderNumber)
	}
	return &model.TransactionRecord{OrderNumber: orderNumber}, nil
}
