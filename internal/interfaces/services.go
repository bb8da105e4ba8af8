package interfaces

import (
	"context"

	"github.com/bobmcallan/stockdesk/internal/models"
)

// QuoteService coordinates the quote and history providers.
// Every operation returns a Result; no error escapes unconverted.
type QuoteService interface {
	// GetQuote retrieves the current quote for a symbol
	GetQuote(ctx context.Context, symbol string) models.Result[models.Quote]

	// CompareQuotes retrieves quotes for several symbols, in order
	CompareQuotes(ctx context.Context, symbols []string) models.Result[models.ComparisonResult]

	// GetHistoryWindow retrieves daily prices between two dates, newest first
	GetHistoryWindow(ctx context.Context, req models.HistoryRequest) models.Result[models.HistoryWindow]

	// ProjectGains computes the capital gain on shares bought on a past date
	ProjectGains(ctx context.Context, req models.GainsRequest) models.Result[models.GainsProjection]
}
