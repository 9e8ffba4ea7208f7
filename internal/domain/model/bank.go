package model

// BankEntry is one row of the payment-network bank directory.
type BankEntry struct {
	Code             string `json:"code"`
	Name             string `json:"name"`
	ShortName        string `json:"shortName"`
	BIN              string `json:"bin"`
	TransferSupported bool  `json:"transferSupported"`
	LookupSupported   bool  `json:"lookupSupported"`
}
