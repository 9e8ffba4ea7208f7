package repository

import (
	"context"
	"time"

	"github.com/quangND1998/app-p2p/internal/domain/model"
)

// TransactionRepository is the durable, append-only transaction log. The log is
// the source of truth; the per-order status index is always rebuildable from it.
type TransactionRepository interface {
	// Append stores a full transaction record in the partition the record's
	// timestamp falls into and returns the partition path.
	Append(ctx context.Context, record model.TransactionRecord) (string, error)
	// AppendStatus stores a lightweight status-only update for an order.
	AppendStatus(ctx context.Context, orderNumber string, status model.OrderStatus) error
	// SaveArtifact persists a QR image for an order and returns its path.
	SaveArtifact(ctx context.Context, recordType model.RecordType, orderNumber string, at time.Time, image []byte) (string, error)

	QueryByDate(ctx context.Context, date time.Time) ([]model.TransactionRecord, error)
	QueryByDateRange(ctx context.Context, start, end time.Time) ([]model.TransactionRecord, error)
	QueryByOrder(ctx context.Context, orderNumber string) (*model.TransactionRecord, error)
	Recent(ctx context.Context, limit int) ([]model.TransactionRecord, error)

	// RebuildStatusIndex scans partitions and reduces them to the latest known
	// status per order. A nil bound leaves that side of the window open.
	RebuildStatusIndex(ctx context.Context, windowStart, windowEnd *time.Time) (map[string]model.OrderStatus, error)
}
