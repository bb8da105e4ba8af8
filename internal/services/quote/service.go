// Package quote provides the quote orchestrator: live quotes, comparisons,
// history windows and capital gains projections over two market data providers
package quote

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/stockdesk/internal/common"
	"github.com/bobmcallan/stockdesk/internal/interfaces"
	"github.com/bobmcallan/stockdesk/internal/models"
	"github.com/bobmcallan/stockdesk/internal/services/history"
	"github.com/bobmcallan/stockdesk/internal/services/validation"
)

// Request field names, used in both validation and not-found errors.
const (
	fieldSymbol       = "symbol"
	fieldSymbols      = "symbols"
	fieldFrom         = "from"
	fieldTo           = "to"
	fieldAmount       = "amount"
	fieldPurchaseDate = "purchase_date"
)

// Service implements QuoteService over a quote provider and a history provider.
type Service struct {
	quotes    interfaces.QuoteProvider
	history   interfaces.HistoryProvider
	extractor *history.Extractor
	validator *validation.Validator
	logger    *common.Logger
	now       func() time.Time // injectable clock for testing
}

var _ interfaces.QuoteService = (*Service)(nil)

// NewService creates a new quote service.
func NewService(quotes interfaces.QuoteProvider, hist interfaces.HistoryProvider, logger *common.Logger) *Service {
	s := &Service{
		quotes:    quotes,
		history:   hist,
		extractor: history.NewExtractor(history.DefaultMarkers),
		logger:    logger,
		now:       time.Now,
	}
	s.validator = validation.NewValidatorWithClock(func() time.Time { return s.now() })
	return s
}

// GetQuote retrieves the latest price for symbol.
func (s *Service) GetQuote(ctx context.Context, symbol string) models.Result[models.Quote] {
	if errs := s.validator.Symbol(fieldSymbol, symbol); errs != nil {
		return models.Failure[models.Quote](errs...)
	}
	return s.fetchQuote(ctx, strings.TrimSpace(symbol))
}

// CompareQuotes retrieves quotes one symbol at a time, in input order. Any
// failure fails the whole comparison with every individual error, in order.
func (s *Service) CompareQuotes(ctx context.Context, symbols []string) models.Result[models.ComparisonResult] {
	if len(symbols) == 0 {
		return models.Failure[models.ComparisonResult](
			models.Invalid(fieldSymbols, "", "at least one symbol is required"))
	}
	var invalid []models.Error
	for _, sym := range symbols {
		invalid = append(invalid, s.validator.Symbol(fieldSymbol, sym)...)
	}
	if invalid != nil {
		return models.Failure[models.ComparisonResult](invalid...)
	}

	quotes := make([]models.Quote, 0, len(symbols))
	var errs []models.Error
	for _, sym := range symbols {
		r := s.fetchQuote(ctx, strings.TrimSpace(sym))
		if !r.OK() {
			errs = append(errs, r.Errors...)
			continue
		}
		quotes = append(quotes, r.Value)
	}
	if errs != nil {
		return models.Failure[models.ComparisonResult](errs...)
	}
	return models.Success(models.ComparisonResult{Quotes: quotes})
}

// GetHistoryWindow returns daily prices for symbol between req.From and req.To
// inclusive, newest first.
func (s *Service) GetHistoryWindow(ctx context.Context, req models.HistoryRequest) models.Result[models.HistoryWindow] {
	errs := validation.Collect(
		s.validator.Symbol(fieldSymbol, req.Symbol),
		s.validator.TradingDate(fieldFrom, req.From),
		s.validator.TradingDate(fieldTo, req.To),
		s.validator.DateOrder(fieldFrom, req.From, fieldTo, req.To),
	)
	if errs != nil {
		return models.Failure[models.HistoryWindow](errs...)
	}
	return s.fetchHistory(ctx, strings.TrimSpace(req.Symbol), strings.TrimSpace(req.From), strings.TrimSpace(req.To))
}

// ProjectGains values req.Amount shares bought at the close on req.PurchaseDate
// against the current price. The quote and the purchase-date close are fetched
// concurrently. A history failure takes precedence over a quote failure.
func (s *Service) ProjectGains(ctx context.Context, req models.GainsRequest) models.Result[models.GainsProjection] {
	errs := validation.Collect(
		s.validator.Symbol(fieldSymbol, req.Symbol),
		s.validator.PositiveNumber(fieldAmount, req.Amount),
		s.validator.TradingDate(fieldPurchaseDate, req.PurchaseDate),
	)
	if errs != nil {
		return models.Failure[models.GainsProjection](errs...)
	}

	symbol := strings.TrimSpace(req.Symbol)
	date := strings.TrimSpace(req.PurchaseDate)
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return models.Failure[models.GainsProjection](models.Invalid(fieldAmount, req.Amount, "must be a number"))
	}

	var (
		quoteRes   models.Result[models.Quote]
		historyRes models.Result[models.HistoryWindow]
		g          errgroup.Group
	)
	// Failures travel in the results so both fetches always complete.
	g.Go(func() error {
		quoteRes = s.fetchQuote(ctx, symbol)
		return nil
	})
	g.Go(func() error {
		historyRes = s.fetchHistory(ctx, symbol, date, date)
		return nil
	})
	g.Wait()

	if !historyRes.OK() {
		return models.Failure[models.GainsProjection](collapseDateErrors(historyRes.Errors, date)...)
	}
	if !quoteRes.OK() {
		return models.Failure[models.GainsProjection](quoteRes.Errors...)
	}

	// A successful single-day window always holds the purchase-date entry.
	current := quoteRes.Value.LastPrice
	closeAt := historyRes.Value.Points[0].Close
	purchased, _ := time.ParseInLocation(validation.DateLayout, date, time.UTC)

	s.logger.Debug().
		Str("symbol", symbol).
		Str("purchase_date", date).
		Str("current_price", current.String()).
		Str("close_price", closeAt.String()).
		Msg("Projected capital gains")

	return models.Success(models.GainsProjection{
		Symbol:              symbol,
		CurrentPrice:        current,
		PriceAtPurchaseDate: closeAt,
		PurchasedAmount:     amount,
		PurchaseDate:        purchased,
		CapitalGains:        amount.Mul(current.Sub(closeAt)).Round(2),
	})
}

// fetchQuote calls the quote provider without validating symbol.
func (s *Service) fetchQuote(ctx context.Context, symbol string) models.Result[models.Quote] {
	pq, err := s.quotes.GetRealTimeQuote(ctx, symbol)
	if err != nil {
		if errors.Is(err, interfaces.ErrQuoteNotFound) {
			s.logger.Info().Str("symbol", symbol).Str("operation", "quote").Msg("Symbol not found")
			return models.Failure[models.Quote](models.NotFound(fieldSymbol, symbol))
		}
		s.logger.Warn().Err(err).Str("symbol", symbol).Str("operation", "quote").Msg("Quote provider failed")
		return models.Failure[models.Quote](models.Unknown())
	}
	if pq == nil {
		s.logger.Warn().Str("symbol", symbol).Str("operation", "quote").Msg("Quote provider returned no quote")
		return models.Failure[models.Quote](models.Unknown())
	}

	name := pq.Symbol
	if name == "" {
		name = symbol
	}
	return models.Success(models.Quote{
		Symbol:    name,
		LastPrice: pq.Price,
		AsOf:      time.UnixMilli(pq.Timestamp * 1000).UTC(),
	})
}

// fetchHistory streams the daily series for symbol and cuts out [from, to].
// The stream is always closed.
func (s *Service) fetchHistory(ctx context.Context, symbol, from, to string) models.Result[models.HistoryWindow] {
	body, err := s.history.StreamDailySeries(ctx, symbol)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Str("operation", "history").Msg("History provider failed")
		return models.Failure[models.HistoryWindow](models.Unknown())
	}
	defer body.Close()

	// The series is newest first, so the window opens on the later date.
	text, err := s.extractor.Extract(body, to, from)
	switch {
	case errors.Is(err, history.ErrStockNotFound):
		s.logger.Info().Str("symbol", symbol).Str("operation", "history").Msg("Symbol not found")
		return models.Failure[models.HistoryWindow](models.NotFound(fieldSymbol, symbol))
	case errors.Is(err, history.ErrDateNotFound):
		// Either boundary may be the one missing; report both.
		s.logger.Info().Str("symbol", symbol).Str("from", from).Str("to", to).Str("operation", "history").Msg("Date window not found")
		return models.Failure[models.HistoryWindow](models.NotFound(fieldFrom, from), models.NotFound(fieldTo, to))
	case errors.Is(err, history.ErrProviderFault):
		s.logger.Warn().Str("symbol", symbol).Str("operation", "history").Msg("History provider sent a notice instead of a series")
		return models.Failure[models.HistoryWindow](models.Unknown())
	case err != nil:
		s.logger.Warn().Err(err).Str("symbol", symbol).Str("operation", "history").Msg("Reading daily series failed")
		return models.Failure[models.HistoryWindow](models.Unknown())
	}

	points, err := history.Format(text)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Str("operation", "history").Msg("Daily series has unexpected shape")
		return models.Failure[models.HistoryWindow](models.Unknown())
	}

	return models.Success(models.HistoryWindow{
		Symbol: symbol,
		From:   from,
		To:     to,
		Points: points,
	})
}

func parseAmount(text string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(text))
}

// collapseDateErrors rewrites the two-boundary not-found pair of a single-day
// lookup into one error against the purchase date. Other lists pass through.
func collapseDateErrors(errs []models.Error, date string) []models.Error {
	if len(errs) == 2 &&
		errs[0] == models.NotFound(fieldFrom, date) &&
		errs[1] == models.NotFound(fieldTo, date) {
		return []models.Error{models.NotFound(fieldPurchaseDate, date)}
	}
	return errs
}
