package history

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/stockdesk/internal/models"
)

const dateLayout = "2006-01-02"

// dailyRecord is one day's entry in the provider document. Prices arrive as
// decimal text; volume is ignored.
type dailyRecord struct {
	Open  string `json:"1. open"`
	High  string `json:"2. high"`
	Low   string `json:"3. low"`
	Close string `json:"4. close"`
}

// Format converts an extracted window into price points. Key order is kept as
// found in the text, which is the provider's newest-first order; nothing is
// re-sorted.
func Format(text string) ([]models.PricePoint, error) {
	dec := json.NewDecoder(strings.NewReader(text))

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var points []models.PricePoint
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read date key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("date key: unexpected token %v", tok)
		}
		date, err := time.ParseInLocation(dateLayout, key, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("date key %q: %w", key, err)
		}

		var rec dailyRecord
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("record %s: %w", key, err)
		}
		point, err := rec.toPricePoint(date)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", key, err)
		}
		points = append(points, point)
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return points, nil
}

func (r dailyRecord) toPricePoint(date time.Time) (models.PricePoint, error) {
	p := models.PricePoint{Date: date}
	var err error
	if p.Open, err = parsePrice("open", r.Open); err != nil {
		return models.PricePoint{}, err
	}
	if p.High, err = parsePrice("high", r.High); err != nil {
		return models.PricePoint{}, err
	}
	if p.Low, err = parsePrice("low", r.Low); err != nil {
		return models.PricePoint{}, err
	}
	if p.Close, err = parsePrice("close", r.Close); err != nil {
		return models.PricePoint{}, err
	}
	return p, nil
}

func parsePrice(label, text string) (decimal.Decimal, error) {
	if text == "" {
		return decimal.Decimal{}, fmt.Errorf("missing %s", label)
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse %s %q: %w", label, text, err)
	}
	return d, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("expected %q: %w", want, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
