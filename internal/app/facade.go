package app

import (
	"context"
	"fmt"
	"time"

	"github.com/quangND1998/app-p2p/internal/adapter/feed"
	"github.com/quangND1998/app-p2p/internal/adapter/notify"
	"github.com/quangND1998/app-p2p/internal/adapter/vietqr"
	"github.com/quangND1998/app-p2p/internal/bankdir"
	"github.com/quangND1998/app-p2p/internal/config"
	"github.com/quangND1998/app-p2p/internal/domain/model"
	"github.com/quangND1998/app-p2p/internal/usecase"
)

// TradeFacade aggregates the use cases and collaborators behind the worker
// and the HTTP handlers.
type TradeFacade struct {
	transactions *usecase.TransactionUseCase
	settlements  *usecase.SettlementUseCase
	feed         feed.Client
	qr           vietqr.Client
	banks        *bankdir.Directory
	sink         notify.Sink
	cfg          *config.Config
}

// NewTradeFacade constructs the facade.
func NewTradeFacade(
	transactions *usecase.TransactionUseCase,
	settlements *usecase.SettlementUseCase,
	feedClient feed.Client,
	qr vietqr.Client,
	banks *bankdir.Directory,
	sink notify.Sink,
	cfg *config.Config,
) *TradeFacade {
	return &TradeFacade{
		transactions: transactions,
		settlements:  settlements,
		feed:         feedClient,
		qr:           qr,
		banks:        banks,
		sink:         sink,
		cfg:          cfg,
	}
}

func (f *TradeFacade) RecentOrders(ctx context.Context, side model.TradeSide, start, end time.Time) ([]model.Order, error) {
	return f.feed.Recent(ctx, side, start, end)
}

func (f *TradeFacade) RebuildStatusIndex(ctx context.Context, windowStart, windowEnd *time.Time) (map[string]model.OrderStatus, error) {
	return f.transactions.RebuildStatusIndex(ctx, windowStart, windowEnd)
}

func (f *TradeFacade) RecordStatus(ctx context.Context, orderNumber string, status model.OrderStatus) error {
	return f.transactions.RecordStatus(ctx, orderNumber, status)
}

func (f *TradeFacade) RecordSettlement(ctx context.Context, record model.TransactionRecord, image []byte) (model.TransactionRecord, error) {
	return f.transactions.RecordSettlement(ctx, record, image)
}

func (f *TradeFacade) ResolveSettlement(ctx context.Context, orderNumber string) (*model.SettlementInfo, error) {
	return f.settlements.Resolve(ctx, orderNumber)
}

// GenerateSettlementQR builds the counterparty payment QR for a buy order.
func (f *TradeFacade) GenerateSettlementQR(ctx context.Context, info *model.SettlementInfo) ([]byte, error) {
	return f.qr.Generate(ctx, vietqr.GenerateRequest{
		AccountNo:   info.AccountNumber,
		AccountName: info.AccountName,
		AcqID:       info.BankID,
		AddInfo:     info.Reference,
		Amount:      info.Amount,
		Template:    f.cfg.QRTemplate,
	})
}

// GenerateMerchantQR builds a pay-in QR carrying the merchant's own account,
// used when the counterparty must pay us on a sell order.
func (f *TradeFacade) GenerateMerchantQR(ctx context.Context, amount float64, note string) ([]byte, error) {
	if f.cfg.MerchantAccountNo == "" || f.cfg.MerchantBankBIN == "" {
		return nil, fmt.Errorf("merchant account is not configured")
	}
	return f.qr.Generate(ctx, vietqr.GenerateRequest{
		AccountNo:   f.cfg.MerchantAccountNo,
		AccountName: f.cfg.MerchantAccountName,
		AcqID:       f.cfg.MerchantBankBIN,
		AddInfo:     note,
		Amount:      amount,
		Template:    f.cfg.QRTemplate,
	})
}

func (f *TradeFacade) Notify(ctx context.Context, text string) error {
	return f.sink.SendMessage(ctx, text)
}

func (f *TradeFacade) NotifyPhoto(ctx context.Context, image []byte, caption string) error {
	return f.sink.SendPhoto(ctx, image, caption)
}

// RefreshBankDirectory pulls a fresh bank table from the QR provider.
func (f *TradeFacade) RefreshBankDirectory(ctx context.Context) error {
	return f.banks.Refresh(ctx)
}

// Viewer queries.

func (f *TradeFacade) TransactionsByDate(ctx context.Context, date time.Time, orderPrefix string, recordType model.RecordType) ([]model.TransactionRecord, error) {
	return f.transactions.ListByDate(ctx, date, orderPrefix, recordType)
}

func (f *TradeFacade) TransactionsByRange(ctx context.Context, start, end time.Time) ([]model.TransactionRecord, error) {
	return f.transactions.ListByDateRange(ctx, start, end)
}

func (f *TradeFacade) RecentTransactions(ctx context.Context, limit int) ([]model.TransactionRecord, error) {
	return f.transactions.Recent(ctx, limit)
}

func (f *TradeFacade) TransactionByOrder(ctx context.Context, orderNumber string) (*model.TransactionRecord, error) {
	return f.transactions.FindByOrder(ctx, orderNumber)
}
