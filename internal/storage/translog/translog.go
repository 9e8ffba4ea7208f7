package translog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/quangND1998/app-p2p/internal/domain/errors"
	"github.com/quangND1998/app-p2p/internal/domain/model"
)

const (
	partitionPrefix = "transactions_"
	partitionExt    = ".json"
	artifactDirName = "qr_codes"
)

// Log is the file-backed transaction log. Each calendar day gets one JSON
// partition (transactions_YYYY-MM-DD.json, an ordered array of records) plus a
// shared directory of QR artifacts. A single in-process mutex serializes the
// read-modify-write of partitions; the design assumes one writer per data dir.
type Log struct {
	baseDir     string
	artifactDir string
	logger      *slog.Logger

	mu sync.Mutex
}

// New creates the log rooted at baseDir, creating the directory layout if needed.
func New(baseDir string, logger *slog.Logger) (*Log, error) {
	artifactDir := filepath.Join(baseDir, artifactDirName)
	for _, dir := range []string{baseDir, artifactDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir %s: %w", dir, err)
		}
	}
	return &Log{baseDir: baseDir, artifactDir: artifactDir, logger: logger}, nil
}

func (l *Log) partitionPath(date time.Time) string {
	return filepath.Join(l.baseDir, partitionPrefix+date.Format("2006-01-02")+partitionExt)
}

// readPartition loads one partition. A missing file is an empty partition;
// unparseable JSON fails closed so a truncated write is never silently dropped.
func (l *Log) readPartition(path string) ([]model.TransactionRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read partition %s: %w", path, err)
	}
	var records []model.TransactionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domainErrors.ErrCorruptPartition, path, err)
	}
	return records, nil
}

func (l *Log) writePartition(path string, records []model.TransactionRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode partition %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write partition %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace partition %s: %w", path, err)
	}
	return nil
}

// Append stores a full transaction record in the partition of its timestamp.
// Prior entries are never rewritten; corrections arrive as new records.
func (l *Log) Append(ctx context.Context, record model.TransactionRecord) (string, error) {
	if record.Timestamp == 0 {
		record.Timestamp = time.Now().Unix()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	path := l.partitionPath(time.Unix(record.Timestamp, 0))
	records, err := l.readPartition(path)
	if err != nil {
		return "", err
	}
	records = append(records, record)
	if err := l.writePartition(path, records); err != nil {
		return "", err
	}
	l.logger.Info("transaction recorded",
		slog.String("order", record.OrderNumber),
		slog.String("status", string(record.OrderStatus)),
		slog.String("partition", path),
	)
	return path, nil
}

// AppendStatus stores a lightweight status-only update. It shares the partition
// format with full records so the status index can be rebuilt from a single scan.
func (l *Log) AppendStatus(ctx context.Context, orderNumber string, status model.OrderStatus) error {
	_, err := l.Append(ctx, model.TransactionRecord{
		OrderNumber: orderNumber,
		OrderStatus: status,
		Timestamp:   time.Now().Unix(),
	})
	return err
}

// SaveArtifact writes a QR image under qr_codes/ and returns its path.
// The name encodes type, timestamp and order number for offline lookup.
func (l *Log) SaveArtifact(ctx context.Context, recordType model.RecordType, orderNumber string, at time.Time, image []byte) (string, error) {
	name := fmt.Sprintf("%s_%s_%s.png", recordType, at.Format("20060102_150405"), orderNumber)
	path := filepath.Join(l.artifactDir, name)
	if err := os.WriteFile(path, image, 0o644); err != nil {
		return "", fmt.Errorf("write qr artifact %s: %w", path, err)
	}
	return path, nil
}

// QueryByDate returns all records of one partition in insertion order.
func (l *Log) QueryByDate(ctx context.Context, date time.Time) ([]model.TransactionRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readPartition(l.partitionPath(date))
}

// QueryByDateRange concatenates partitions from start through end inclusive.
func (l *Log) QueryByDateRange(ctx context.Context, start, end time.Time) ([]model.TransactionRecord, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("invalid range: end %s before start %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var all []model.TransactionRecord
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())
	for !day.After(last) {
		records, err := l.readPartition(l.partitionPath(day))
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
		day = day.AddDate(0, 0, 1)
	}
	return all, nil
}

// QueryByOrder scans all partitions for the most recent record of an order.
func (l *Log) QueryByOrder(ctx context.Context, orderNumber string) (*model.TransactionRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	paths, err := l.partitionPaths()
	if err != nil {
		return nil, err
	}

	var found *model.TransactionRecord
	for _, path := range paths {
		records, err := l.readPartition(path)
		if err != nil {
			return nil, err
		}
		for i := range records {
			r := records[i]
			if r.OrderNumber != orderNumber {
				continue
			}
			if found == nil || r.Timestamp >= found.Timestamp {
				found = &r
			}
		}
	}
	if found == nil {
		return nil, domainErrors.ErrNotFound
	}
	return found, nil
}

// Recent returns up to limit records across all partitions, newest first.
func (l *Log) Recent(ctx context.Context, limit int) ([]model.TransactionRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	paths, err := l.partitionPaths()
	if err != nil {
		return nil, err
	}

	var all []model.TransactionRecord
	for _, path := range paths {
		records, err := l.readPartition(path)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Timestamp > all[j].Timestamp })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// RebuildStatusIndex reduces the log to the latest known status per order.
// Later records win; a nil bound leaves that side of the window open. This is
// how the reconciler recovers its dedup state after a restart.
func (l *Log) RebuildStatusIndex(ctx context.Context, windowStart, windowEnd *time.Time) (map[string]model.OrderStatus, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	paths, err := l.partitionPaths()
	if err != nil {
		return nil, err
	}

	type latest struct {
		status model.OrderStatus
		ts     int64
		seq    int
	}
	seen := make(map[string]latest)
	seq := 0
	for _, path := range paths {
		records, err := l.readPartition(path)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			seq++
			if r.OrderNumber == "" || r.OrderStatus == "" {
				continue
			}
			if windowStart != nil && r.Timestamp < windowStart.Unix() {
				continue
			}
			if windowEnd != nil && r.Timestamp > windowEnd.Unix() {
				continue
			}
			prev, ok := seen[r.OrderNumber]
			// Ties on timestamp fall back to insertion order within the scan.
			if !ok || r.Timestamp > prev.ts || (r.Timestamp == prev.ts && seq > prev.seq) {
				seen[r.OrderNumber] = latest{status: r.OrderStatus, ts: r.Timestamp, seq: seq}
			}
		}
	}

	index := make(map[string]model.OrderStatus, len(seen))
	for number, entry := range seen {
		index[number] = entry.status
	}
	return index, nil
}

// partitionPaths lists partition files sorted by name, oldest first.
func (l *Log) partitionPaths() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(l.baseDir, partitionPrefix+"*"+partitionExt))
	if err != nil {
		return nil, fmt.Errorf("list partitions: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}
