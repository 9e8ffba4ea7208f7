package model

import "time"

// TradeSide denotes the direction of a trade relative to the merchant account.
type TradeSide string

const (
	TradeSideBuy  TradeSide = "BUY"
	TradeSideSell TradeSide = "SELL"
)

// Sides lists the trade sides the feed is queried for, in polling order.
var Sides = []TradeSide{TradeSideBuy, TradeSideSell}

// OrderStatus mirrors the marketplace's order lifecycle states.
type OrderStatus string

const (
	OrderStatusPending           OrderStatus = "PENDING"
	OrderStatusTrading           OrderStatus = "TRADING"
	OrderStatusBuyerPayed        OrderStatus = "BUYER_PAYED"
	OrderStatusDistributing      OrderStatus = "DISTRIBUTING"
	OrderStatusInAppeal          OrderStatus = "IN_APPEAL"
	OrderStatusCompleted         OrderStatus = "COMPLETED"
	OrderStatusCancelled         OrderStatus = "CANCELLED"
	OrderStatusCancelledBySystem OrderStatus = "CANCELLED_BY_SYSTEM"
)

// Display returns the human form of the status used in notification messages.
func (s OrderStatus) Display() string {
	switch s {
	case OrderStatusBuyerPayed:
		return "BUYER PAYED"
	case OrderStatusInAppeal:
		return "IN APPEAL"
	case OrderStatusCancelledBySystem:
		return "CANCELLED BY SYSTEM"
	default:
		return string(s)
	}
}

// Order is a single peer-to-peer trade as reported by the marketplace feed.
// The feed owns it; the watcher only reads.
type Order struct {
	Number       string
	Side         TradeSide
	Status       OrderStatus
	FiatAmount   float64
	FiatCurrency string
	FiatSymbol   string
	CryptoAmount float64
	CryptoAsset  string
	UnitPrice    float64
	CreatedAt    time.Time
}
