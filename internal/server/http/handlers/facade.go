package handlers

import (
	"context"
	"time"

	"github.com/quangND1998/app-p2p/internal/domain/model"
)

// TransactionFacade exposes the transaction history queries used by handlers.
type TransactionFacade interface {
	TransactionsByDate(ctx context.Context, date time.Time, orderPrefix string, recordType model.RecordType) ([]model.TransactionRecord, error)
	TransactionsByRange(ctx context.Context, start, end time.Time) ([]model.TransactionRecord, error)
	RecentTransactions(ctx context.Context, limit int) ([]model.TransactionRecord, error)
	TransactionByOrder(ctx context.Context, orderNumber string) (*model.TransactionRecord, error)
}
