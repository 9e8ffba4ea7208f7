package model

import "strings"

// RecordType distinguishes buy and sell records inside a log partition.
type RecordType string

const (
	RecordTypeBuy  RecordType = "buy"
	RecordTypeSell RecordType = "sell"
)

// RecordTypeForSide maps a feed trade side onto the persisted record type.
func RecordTypeForSide(side TradeSide) RecordType {
	if side == TradeSideSell {
		return RecordTypeSell
	}
	return RecordTypeBuy
}

// TransactionRecord is one entry of a day partition. The JSON field names are
// the on-disk contract and match partitions written by earlier versions of the
// tool, so they must not change.
type TransactionRecord struct {
	Type          RecordType  `json:"type"`
	OrderNumber   string      `json:"order_number"`
	Amount        float64     `json:"amount"`
	BankName      string      `json:"bank_name,omitempty"`
	AccountNumber string      `json:"account_number,omitempty"`
	AccountName   string      `json:"account_name,omitempty"`
	Reference     string      `json:"reference,omitempty"`
	Message       string      `json:"message,omitempty"`
	OrderStatus   OrderStatus `json:"order_status"`
	QRPath        string      `json:"qr_path,omitempty"`
	Timestamp     int64       `json:"timestamp"`
}

// MatchesOrderPrefix reports whether the record's order number starts with the
// given prefix. An empty prefix matches everything.
func (r TransactionRecord) MatchesOrderPrefix(prefix string) bool {
	return prefix == "" || strings.HasPrefix(r.OrderNumber, prefix)
}
