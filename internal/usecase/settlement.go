package usecase

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/quangND1998/app-p2p/internal/adapter/extractor"
	"github.com/quangND1998/app-p2p/internal/bankdir"
	domainErrors "github.com/quangND1998/app-p2p/internal/domain/errors"
	"github.com/quangND1998/app-p2p/internal/domain/model"
)

// Canonical settlement field names, also used to report what is missing.
const (
	fieldAmount        = "fiat amount"
	fieldAccountName   = "full name"
	fieldAccountNumber = "bank card"
	fieldBankName      = "bank name"
	fieldReference     = "reference message"
)

var (
	amountPattern        = regexp.MustCompile(`fiat amount`)
	referencePattern     = regexp.MustCompile(`reference message`)
	accountNamePattern   = regexp.MustCompile(`^name$|full name`)
	accountNumberPattern = regexp.MustCompile(`bank card|account number`)
	bankNamePattern      = regexp.MustCompile(`bank name`)
)

// SettlementUseCase turns a scraped order detail page into the bank fields a
// payment QR requires. All five canonical fields must be present; anything
// less is Incomplete, which the caller logs and does not action.
type SettlementUseCase struct {
	extractor extractor.Client
	banks     *bankdir.Directory
	logger    *slog.Logger
}

// NewSettlementUseCase constructs SettlementUseCase.
func NewSettlementUseCase(ex extractor.Client, banks *bankdir.Directory, logger *slog.Logger) *SettlementUseCase {
	return &SettlementUseCase{extractor: ex, banks: banks, logger: logger}
}

// Resolve scrapes the order and maps the free-form labels onto the canonical
// fields. On a complete set it also resolves the bank name to its
// payment-network identifier; an unresolved bank fails the resolution.
func (u *SettlementUseCase) Resolve(ctx context.Context, orderNumber string) (*model.SettlementInfo, error) {
	raw, err := u.extractor.ExtractOrderInfo(ctx, orderNumber)
	if err != nil {
		// The scrape is best-effort; a failed scrape is just missing data.
		u.logger.Warn("order info scrape failed", slog.String("order", orderNumber), slog.String("error", err.Error()))
		raw = nil
	}

	fields := canonicalFields(raw)

	amount := parseAmount(fields[fieldAmount])

	var missing []string
	for _, name := range []string{fieldAmount, fieldAccountName, fieldAccountNumber, fieldBankName, fieldReference} {
		if strings.TrimSpace(fields[name]) == "" || (name == fieldAmount && amount <= 0) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, domainErrors.IncompleteSettlementError{Missing: missing}
	}

	info := &model.SettlementInfo{
		Amount:        amount,
		AccountName:   fields[fieldAccountName],
		AccountNumber: fields[fieldAccountNumber],
		BankName:      fields[fieldBankName],
		Reference:     fields[fieldReference],
	}

	bin, err := u.banks.Resolve(info.BankName)
	if err != nil {
		return nil, err
	}
	info.BankID = bin

	return info, nil
}

// canonicalFields maps free-form scrape labels onto the five canonical fields.
// Labels the patterns don't recognize are dropped.
func canonicalFields(raw map[string]string) map[string]string {
	fields := make(map[string]string, 5)
	for label, value := range raw {
		key := strings.ToLower(strings.TrimSpace(label))
		switch {
		case amountPattern.MatchString(key):
			fields[fieldAmount] = value
		case referencePattern.MatchString(key):
			fields[fieldReference] = value
		case accountNamePattern.MatchString(key):
			fields[fieldAccountName] = value
		case accountNumberPattern.MatchString(key):
			fields[fieldAccountNumber] = value
		case bankNamePattern.MatchString(key):
			fields[fieldBankName] = value
		}
	}
	return fields
}

// parseAmount strips currency decoration ("₫", thousands separators) from a
// scraped amount before parsing.
func parseAmount(s string) float64 {
	cleaned := strings.NewReplacer("₫", "", ",", "", " ", "").Replace(s)
	f, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
	if err != nil {
		return 0
	}
	return f
}
