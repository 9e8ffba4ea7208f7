package model

// SettlementInfo holds the counterparty bank details required to build a
// payment QR for an order.
type SettlementInfo struct {
	Amount        float64
	AccountName   string
	AccountNumber string
	BankName      string
	// BankID is the payment-network identifier (BIN) resolved from BankName.
	BankID    string
	Reference string
}
