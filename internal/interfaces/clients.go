// Package interfaces defines service contracts for stockdesk
package interfaces

//go:generate mockgen -source=clients.go -destination=mocks/clients_mock.go -package=mocks

import (
	"context"
	"errors"
	"io"

	"github.com/bobmcallan/stockdesk/internal/models"
)

// ErrQuoteNotFound is matched (via errors.Is) by quote provider errors that
// carry the provider's "symbol not found" fault.
var ErrQuoteNotFound = errors.New("quote provider: symbol not found")

// QuoteProvider provides last-price snapshots
type QuoteProvider interface {
	// GetRealTimeQuote retrieves the latest quote for a symbol
	GetRealTimeQuote(ctx context.Context, symbol string) (*models.ProviderQuote, error)
}

// HistoryProvider provides raw daily price series
type HistoryProvider interface {
	// StreamDailySeries opens the provider's full daily series for a symbol.
	// The document is date-keyed, newest first. Callers must close the stream.
	StreamDailySeries(ctx context.Context, symbol string) (io.ReadCloser, error)
}
