package usecase

import (
	"context"
	"time"

	"github.com/quangND1998/app-p2p/internal/domain/model"
	"github.com/quangND1998/app-p2p/internal/domain/repository"
)

// TransactionUseCase encapsulates the transaction-log lifecycle: recording
// reconciler output and serving the read-only viewer queries.
type TransactionUseCase struct {
	transactions repository.TransactionRepository
}

// NewTransactionUseCase constructs TransactionUseCase.
func NewTransactionUseCase(transactions repository.TransactionRepository) *TransactionUseCase {
	return &TransactionUseCase{transactions: transactions}
}

// RecordSettlement stores the QR artifact and appends the full transaction
// record referencing it. Returns the record as persisted.
func (u *TransactionUseCase) RecordSettlement(ctx context.Context, record model.TransactionRecord, image []byte) (model.TransactionRecord, error) {
	at := time.Unix(record.Timestamp, 0)
	if record.Timestamp == 0 {
		at = time.Now()
		record.Timestamp = at.Unix()
	}

	if len(image) > 0 {
		path, err := u.transactions.SaveArtifact(ctx, record.Type, record.OrderNumber, at, image)
		if err != nil {
			return record, err
		}
		record.QRPath = path
	}

	if _, err := u.transactions.Append(ctx, record); err != nil {
		return record, err
	}
	return record, nil
}

// RecordStatus appends a status-only update for an order.
func (u *TransactionUseCase) RecordStatus(ctx context.Context, orderNumber string, status model.OrderStatus) error {
	return u.transactions.AppendStatus(ctx, orderNumber, status)
}

// RebuildStatusIndex recovers the latest-status-per-order mapping from the log.
func (u *TransactionUseCase) RebuildStatusIndex(ctx context.Context, windowStart, windowEnd *time.Time) (map[string]model.OrderStatus, error) {
	return u.transactions.RebuildStatusIndex(ctx, windowStart, windowEnd)
}

// ListByDate returns one day's records, optionally filtered by an order-number
// prefix and a record type.
func (u *TransactionUseCase) ListByDate(ctx context.Context, date time.Time, orderPrefix string, recordType model.RecordType) ([]model.TransactionRecord, error) {
	records, err := u.transactions.QueryByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	filtered := records[:0:0]
	for _, r := range records {
		if !r.MatchesOrderPrefix(orderPrefix) {
			continue
		}
		if recordType != "" && r.Type != recordType {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered, nil
}

// ListByDateRange concatenates records across the partitions of a date range.
func (u *TransactionUseCase) ListByDateRange(ctx context.Context, start, end time.Time) ([]model.TransactionRecord, error) {
	return u.transactions.QueryByDateRange(ctx, start, end)
}

// Recent returns the newest records across all partitions.
func (u *TransactionUseCase) Recent(ctx context.Context, limit int) ([]model.TransactionRecord, error) {
	return u.transactions.Recent(ctx, limit)
}

// FindByOrder returns the most recent record for one order number.
func (u *TransactionUseCase) FindByOrder(ctx context.Context, orderNumber string) (*model.TransactionRecord, error) {
	return u.transactions.QueryByOrder(ctx, orderNumber)
}
