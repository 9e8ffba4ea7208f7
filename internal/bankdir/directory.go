package bankdir

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/agext/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	domainErrors "github.com/quangND1998/app-p2p/internal/domain/errors"
	"github.com/quangND1998/app-p2p/internal/domain/model"
)

const snapshotName = "bank_list.json"

// BankLister fetches the bank table from the QR provider for Refresh.
type BankLister interface {
	Banks(ctx context.Context) ([]model.BankEntry, error)
}

// Directory is the in-memory table of payment-network bank identifiers.
// Resolve is read-mostly; Refresh swaps the table wholesale and is not atomic
// with in-flight lookups (eventual consistency is acceptable here).
type Directory struct {
	snapshotPath string
	threshold    float64
	lister       BankLister
	logger       *slog.Logger

	mu      sync.RWMutex
	entries []model.BankEntry
}

// New loads the directory from the bank_list.json snapshot under dataDir.
// A missing snapshot leaves the table empty until the first Refresh.
func New(dataDir string, threshold float64, lister BankLister, logger *slog.Logger) (*Directory, error) {
	d := &Directory{
		snapshotPath: filepath.Join(dataDir, snapshotName),
		threshold:    threshold,
		lister:       lister,
		logger:       logger,
	}
	entries, err := loadSnapshot(d.snapshotPath)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		logger.Warn("bank snapshot missing, directory starts empty", slog.String("path", d.snapshotPath))
	}
	d.entries = entries
	return d, nil
}

func loadSnapshot(path string) ([]model.BankEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read bank snapshot: %w", err)
	}
	var entries []model.BankEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse bank snapshot %s: %w", path, err)
	}
	return entries, nil
}

// Refresh replaces the table from the provider and rewrites the snapshot.
func (d *Directory) Refresh(ctx context.Context) error {
	entries, err := d.lister.Banks(ctx)
	if err != nil {
		return fmt.Errorf("fetch bank list: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode bank snapshot: %w", err)
	}
	if err := os.WriteFile(d.snapshotPath, data, 0o644); err != nil {
		return fmt.Errorf("write bank snapshot: %w", err)
	}

	d.mu.Lock()
	d.entries = entries
	d.mu.Unlock()

	d.logger.Info("bank directory refreshed", slog.Int("banks", len(entries)))
	return nil
}

// Resolve maps a free-form bank name onto its payment-network identifier.
// Exact (normalized) matches on code, full name and short name are tried
// first; failing that, the best similarity over short names is accepted when
// it reaches the threshold. The first entry reaching the maximum score wins.
func (d *Directory) Resolve(name string) (string, error) {
	target := Normalize(name)
	if target == "" {
		return "", domainErrors.ErrBankNotFound
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, e := range d.entries {
		for _, candidate := range []string{e.Code, e.Name, e.ShortName} {
			if candidate != "" && Normalize(candidate) == target {
				return e.BIN, nil
			}
		}
	}

	bestScore := -1.0
	bestBIN := ""
	bestName := ""
	for _, e := range d.entries {
		if e.ShortName == "" {
			continue
		}
		score := levenshtein.Similarity(target, Normalize(e.ShortName), nil)
		if score > bestScore {
			bestScore = score
			bestBIN = e.BIN
			bestName = e.ShortName
		}
	}
	if bestScore >= d.threshold && bestBIN != "" {
		d.logger.Info("fuzzy bank match",
			slog.String("input", name),
			slog.String("matched", bestName),
			slog.Float64("score", bestScore),
		)
		return bestBIN, nil
	}
	if bestBIN != "" {
		d.logger.Warn("low confidence bank match rejected",
			slog.String("input", name),
			slog.String("closest", bestName),
			slog.Float64("score", bestScore),
		)
	}
	return "", domainErrors.ErrBankNotFound
}

var foldDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Normalize folds diacritics, lowercases and strips spaces so that
// "Ngân Hàng TMCP" and "ngan hang tmcp" compare equal.
func Normalize(s string) string {
	folded, _, err := transform.String(foldDiacritics, s)
	if err != nil {
		folded = s
	}
	return strings.ReplaceAll(strings.ToLower(folded), " ", "")
}
