// Package models defines data structures for stockdesk
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProviderQuote is the raw snapshot returned by the quote provider
type ProviderQuote struct {
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	Timestamp int64           `json:"timestamp"` // epoch seconds
}

// Quote holds the last traded price for a symbol
type Quote struct {
	Symbol    string          `json:"symbol"`
	LastPrice decimal.Decimal `json:"last_price"`
	AsOf      time.Time       `json:"as_of"`
}

// PricePoint represents a single trading day's OHLC record.
// Date is midnight UTC of the trading day.
type PricePoint struct {
	Date  time.Time       `json:"date"`
	Open  decimal.Decimal `json:"open"`
	High  decimal.Decimal `json:"high"`
	Low   decimal.Decimal `json:"low"`
	Close decimal.Decimal `json:"close"`
}

// HistoryWindow is the inclusive [From, To] slice of a daily series.
// Points keep the provider's order, newest first.
type HistoryWindow struct {
	Symbol string       `json:"symbol"`
	From   string       `json:"from"`
	To     string       `json:"to"`
	Points []PricePoint `json:"points"`
}

// ComparisonResult holds quotes in the caller's symbol order
type ComparisonResult struct {
	Quotes []Quote `json:"quotes"`
}

// GainsProjection is the capital gain on an amount of shares bought on PurchaseDate
type GainsProjection struct {
	Symbol              string          `json:"symbol"`
	CurrentPrice        decimal.Decimal `json:"current_price"`
	PriceAtPurchaseDate decimal.Decimal `json:"price_at_purchase_date"`
	PurchasedAmount     decimal.Decimal `json:"purchased_amount"`
	PurchaseDate        time.Time       `json:"purchase_date"`
	CapitalGains        decimal.Decimal `json:"capital_gains"`
}

// HistoryRequest asks for the daily series of Symbol between From and To (YYYY-MM-DD, inclusive)
type HistoryRequest struct {
	Symbol string
	From   string
	To     string
}

// GainsRequest asks for the gains on Amount shares of Symbol bought on PurchaseDate (YYYY-MM-DD)
type GainsRequest struct {
	Symbol       string
	Amount       string
	PurchaseDate string
}
