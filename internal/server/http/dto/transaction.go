package dto

import (
	"time"

	"github.com/quangND1998/app-p2p/internal/domain/model"
)

// TransactionResponse is the JSON shape served by the viewer endpoints.
type TransactionResponse struct {
	Type          string    `json:"type"`
	OrderNumber   string    `json:"order_number"`
	Amount        float64   `json:"amount"`
	BankName      string    `json:"bank_name,omitempty"`
	AccountNumber string    `json:"account_number,omitempty"`
	AccountName   string    `json:"account_name,omitempty"`
	Reference     string    `json:"reference,omitempty"`
	Message       string    `json:"message,omitempty"`
	OrderStatus   string    `json:"order_status"`
	HasQR         bool      `json:"has_qr"`
	RecordedAt    time.Time `json:"recorded_at"`
}

// FromRecord converts a log record to its response shape.
func FromRecord(r model.TransactionRecord) TransactionResponse {
	return TransactionResponse{
		Type:          string(r.Type),
		OrderNumber:   r.OrderNumber,
		Amount:        r.Amount,
		BankName:      r.BankName,
		AccountNumber: r.AccountNumber,
		AccountName:   r.AccountName,
		Reference:     r.Reference,
		Message:       r.Message,
		OrderStatus:   string(r.OrderStatus),
		HasQR:         r.QRPath != "",
		RecordedAt:    time.Unix(r.Timestamp, 0).UTC(),
	}
}
