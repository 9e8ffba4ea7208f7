package usecase

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/quangND1998/app-p2p/internal/domain/model"
	"github.com/quangND1998/app-p2p/internal/storage/translog"
	testhelpers "github.com/quangND1998/app-p2p/internal/test"
)

func newTestTransactions(t *testing.T) *TransactionUseCase {
	t.Helper()
	log, err := translog.New(t.TempDir(), testhelpers.NewLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return NewTransactionUseCase(log)
}

func TestRecordSettlementStoresArtifact(t *testing.T) {
	uc := newTestTransactions(t)
	ctx := context.Background()

	record := model.TransactionRecord{
		Type:        model.RecordTypeBuy,
		OrderNumber: "100",
		Amount:      250000,
		BankName:    "Vietcombank",
		OrderStatus: model.OrderStatusTrading,
		Timestamp:   time.Now().Unix(),
	}
	persisted, err := uc.RecordSettlement(ctx, record, []byte("png"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if persisted.QRPath == "" {
		t.Fatal("expected QR path on the persisted record")
	}
	if _, err := os.Stat(persisted.QRPath); err != nil {
		t.Fatalf("artifact not written: %v", err)
	}

	found, err := uc.FindByOrder(ctx, "100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.QRPath != persisted.QRPath {
		t.Fatalf("persisted record does not reference the artifact: %+v", found)
	}
}

func TestRecordSettlementWithoutImage(t *testing.T) {
	uc := newTestTransactions(t)

	record := model.TransactionRecord{
		Type:        model.RecordTypeSell,
		OrderNumber: "200",
		OrderStatus: model.OrderStatusTrading,
	}
	persisted, err := uc.RecordSettlement(context.Background(), record, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if persisted.QRPath != "" {
		t.Fatalf("no artifact expected, got %q", persisted.QRPath)
	}
	if persisted.Timestamp == 0 {
		t.Fatal("expected timestamp to be stamped")
	}
}

func TestRecordStatusReflectedInIndex(t *testing.T) {
	uc := newTestTransactions(t)
	ctx := context.Background()

	if err := uc.RecordStatus(ctx, "100", model.OrderStatusPending); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := uc.RecordStatus(ctx, "100", model.OrderStatusTrading); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	index, err := uc.RebuildStatusIndex(ctx, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if index["100"] != model.OrderStatusTrading {
		t.Fatalf("expected latest status in index, got %s", index["100"])
	}
}

func TestListByDateFilters(t *testing.T) {
	uc := newTestTransactions(t)
	ctx := context.Background()
	now := time.Now()

	for _, r := range []model.TransactionRecord{
		{Type: model.RecordTypeBuy, OrderNumber: "2025001", OrderStatus: model.OrderStatusTrading, Timestamp: now.Unix()},
		{Type: model.RecordTypeSell, OrderNumber: "2025002", OrderStatus: model.OrderStatusTrading, Timestamp: now.Unix()},
		{Type: model.RecordTypeBuy, OrderNumber: "9999999", OrderStatus: model.OrderStatusTrading, Timestamp: now.Unix()},
	} {
		if _, err := uc.RecordSettlement(ctx, r, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	byPrefix, err := uc.ListByDate(ctx, now, "2025", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byPrefix) != 2 {
		t.Fatalf("expected 2 records by prefix, got %d", len(byPrefix))
	}

	byType, err := uc.ListByDate(ctx, now, "", model.RecordTypeSell)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byType) != 1 || byType[0].OrderNumber != "2025002" {
		t.Fatalf("expected the sell record, got %+v", byType)
	}

	both, err := uc.ListByDate(ctx, now, "9999", model.RecordTypeBuy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(both) != 1 || both[0].OrderNumber != "9999999" {
		t.Fatalf("expected combined filter match, got %+v", both)
	}
}
