package translog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	domainErrors "github.com/quangND1998/app-p2p/internal/domain/errors"
	"github.com/quangND1998/app-p2p/internal/domain/model"
	testhelpers "github.com/quangND1998/app-p2p/internal/test"
)

func newTestLog(t *testing.T) *Log {
	t.Helper()
	log, err := New(t.TempDir(), testhelpers.NewLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return log
}

func record(order string, status model.OrderStatus, ts int64) model.TransactionRecord {
	return model.TransactionRecord{
		Type:        model.RecordTypeBuy,
		OrderNumber: order,
		Amount:      100000,
		OrderStatus: status,
		Timestamp:   ts,
	}
}

func TestNewCreatesLayout(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "transactions")
	if _, err := New(base, testhelpers.NewLogger()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "qr_codes")); err != nil {
		t.Fatalf("artifact dir missing: %v", err)
	}
}

func TestAppendPreservesInsertionOrder(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()
	day := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	for i, order := range []string{"1", "2", "3"} {
		path, err := log.Append(ctx, record(order, model.OrderStatusTrading, day.Add(time.Duration(i)*time.Minute).Unix()))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if filepath.Base(path) != "transactions_2026-08-30.json" {
			t.Fatalf("unexpected partition name: %s", path)
		}
	}

	records, err := log.QueryByDate(ctx, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i, want := range []string{"1", "2", "3"} {
		if records[i].OrderNumber != want {
			t.Fatalf("records out of insertion order: %+v", records)
		}
	}
}

func TestAppendPartitionsByDay(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()

	dayOne := time.Date(2026, 8, 30, 23, 59, 0, 0, time.Local)
	dayTwo := dayOne.Add(2 * time.Minute)
	if _, err := log.Append(ctx, record("1", model.OrderStatusTrading, dayOne.Unix())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := log.Append(ctx, record("2", model.OrderStatusTrading, dayTwo.Unix())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := log.QueryByDate(ctx, dayOne)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := log.QueryByDate(ctx, dayTwo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected one record per day partition, got %d and %d", len(first), len(second))
	}
}

func TestCorruptPartitionFailsClosed(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()
	day := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	if err := os.WriteFile(log.partitionPath(day), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := log.QueryByDate(ctx, day); !errors.Is(err, domainErrors.ErrCorruptPartition) {
		t.Fatalf("expected corrupt partition error, got %v", err)
	}
	if _, err := log.Append(ctx, record("1", model.OrderStatusTrading, day.Unix())); !errors.Is(err, domainErrors.ErrCorruptPartition) {
		t.Fatalf("append must not clobber a corrupt partition, got %v", err)
	}
}

func TestQueryByDateRange(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ts := time.Date(2026, 8, 28+i, 12, 0, 0, 0, time.Local)
		if _, err := log.Append(ctx, record("1", model.OrderStatusTrading, ts.Unix())); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	records, err := log.QueryByDateRange(ctx,
		time.Date(2026, 8, 28, 0, 0, 0, 0, time.Local),
		time.Date(2026, 8, 29, 0, 0, 0, 0, time.Local),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records in range, got %d", len(records))
	}

	if _, err := log.QueryByDateRange(ctx,
		time.Date(2026, 8, 29, 0, 0, 0, 0, time.Local),
		time.Date(2026, 8, 28, 0, 0, 0, 0, time.Local),
	); err == nil {
		t.Fatal("expected error for inverted range")
	}
}

func TestQueryByOrderReturnsLatest(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	if _, err := log.Append(ctx, record("100", model.OrderStatusPending, base.Unix())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := log.Append(ctx, record("100", model.OrderStatusTrading, base.Add(time.Minute).Unix())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := log.QueryByOrder(ctx, "100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.OrderStatus != model.OrderStatusTrading {
		t.Fatalf("expected latest record, got %s", found.OrderStatus)
	}

	if _, err := log.QueryByOrder(ctx, "missing"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRecentNewestFirst(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 29, 12, 0, 0, 0, time.Local)

	for i := 0; i < 4; i++ {
		if _, err := log.Append(ctx, record(string(rune('a'+i)), model.OrderStatusTrading, base.Add(time.Duration(i)*12*time.Hour).Unix())); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	records, err := log.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].OrderNumber != "d" || records[1].OrderNumber != "c" {
		t.Fatalf("expected newest first, got %+v", records)
	}
}

func TestRebuildStatusIndex(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	if err := log.AppendStatus(ctx, "100", model.OrderStatusPending); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := log.Append(ctx, record("100", model.OrderStatusTrading, base.Unix())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := log.Append(ctx, record("200", model.OrderStatusCompleted, base.Unix())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	index, err := log.RebuildStatusIndex(ctx, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(index) != 2 {
		t.Fatalf("expected 2 indexed orders, got %d", len(index))
	}
	if index["200"] != model.OrderStatusCompleted {
		t.Fatalf("unexpected status for 200: %s", index["200"])
	}
}

func TestRebuildStatusIndexWindow(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()
	old := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	fresh := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	if _, err := log.Append(ctx, record("100", model.OrderStatusCompleted, old.Unix())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := log.Append(ctx, record("200", model.OrderStatusTrading, fresh.Unix())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	since := fresh.Add(-time.Hour)
	index, err := log.RebuildStatusIndex(ctx, &since, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := index["100"]; ok {
		t.Fatal("record before window must be excluded")
	}
	if index["200"] != model.OrderStatusTrading {
		t.Fatalf("expected windowed entry, got %v", index)
	}
}

func TestRebuildStatusIndexTieBreaksOnScanOrder(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()
	ts := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC).Unix()

	if _, err := log.Append(ctx, record("100", model.OrderStatusTrading, ts)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := log.Append(ctx, record("100", model.OrderStatusCompleted, ts)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	index, err := log.RebuildStatusIndex(ctx, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if index["100"] != model.OrderStatusCompleted {
		t.Fatalf("expected the later record to win the tie, got %s", index["100"])
	}
}

func TestSaveArtifactNaming(t *testing.T) {
	log := newTestLog(t)
	at := time.Date(2026, 8, 30, 9, 15, 30, 0, time.UTC)

	path, err := log.SaveArtifact(context.Background(), model.RecordTypeSell, "12345", at, []byte("png"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(path) != "sell_20260830_091530_12345.png" {
		t.Fatalf("unexpected artifact name: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "png" {
		t.Fatalf("artifact content mismatch: %q %v", data, err)
	}
}
