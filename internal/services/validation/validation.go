// Package validation checks request fields before any provider call is made
package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/stockdesk/internal/models"
)

// DateLayout is the accepted request date format.
const DateLayout = "2006-01-02"

// symbolPattern allows exchange suffixes (BHP.AU), class shares (BRK-B) and
// index/forex prefixes, and nothing that could escape a URL path segment.
var symbolPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._\-^=]{0,31}$`)

// Validator runs field checks. Each check returns the errors it found, in
// order, or nil.
type Validator struct {
	now func() time.Time // injectable clock for testing
}

// NewValidator creates a validator using the wall clock.
func NewValidator() *Validator {
	return &Validator{now: time.Now}
}

// NewValidatorWithClock creates a validator with a fixed notion of "today".
func NewValidatorWithClock(now func() time.Time) *Validator {
	return &Validator{now: now}
}

// Collect concatenates the results of several checks, preserving order.
func Collect(results ...[]models.Error) []models.Error {
	var out []models.Error
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}

// NonEmpty rejects blank strings.
func (v *Validator) NonEmpty(field, value string) []models.Error {
	if strings.TrimSpace(value) == "" {
		return []models.Error{models.Invalid(field, value, "must not be empty")}
	}
	return nil
}

// Symbol rejects blank or malformed ticker symbols.
func (v *Validator) Symbol(field, value string) []models.Error {
	if errs := v.NonEmpty(field, value); errs != nil {
		return errs
	}
	if !symbolPattern.MatchString(strings.TrimSpace(value)) {
		return []models.Error{models.Invalid(field, value, "contains invalid characters")}
	}
	return nil
}

// Date rejects values that are not calendar dates in YYYY-MM-DD form.
func (v *Validator) Date(field, value string) []models.Error {
	if _, err := time.Parse(DateLayout, strings.TrimSpace(value)); err != nil {
		return []models.Error{models.Invalid(field, value, "must be a date in YYYY-MM-DD format")}
	}
	return nil
}

// NotWeekend rejects Saturdays and Sundays. Unparseable values pass; pair with Date.
func (v *Validator) NotWeekend(field, value string) []models.Error {
	d, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return nil
	}
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return []models.Error{models.Invalid(field, value, "must not fall on a weekend")}
	}
	return nil
}

// NotTodayOrFuture rejects today (UTC) and later dates: no daily close exists yet.
func (v *Validator) NotTodayOrFuture(field, value string) []models.Error {
	d, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return nil
	}
	now := v.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !d.Before(today) {
		return []models.Error{models.Invalid(field, value, "must be before today")}
	}
	return nil
}

// TradingDate runs Date, then NotWeekend and NotTodayOrFuture when the value parses.
func (v *Validator) TradingDate(field, value string) []models.Error {
	if errs := v.Date(field, value); errs != nil {
		return errs
	}
	return Collect(v.NotWeekend(field, value), v.NotTodayOrFuture(field, value))
}

// DateOrder rejects intervals whose start is after their end.
// Unparseable values pass; pair with Date.
func (v *Validator) DateOrder(fromField, from, toField, to string) []models.Error {
	f, err := time.Parse(DateLayout, strings.TrimSpace(from))
	if err != nil {
		return nil
	}
	t, err := time.Parse(DateLayout, strings.TrimSpace(to))
	if err != nil {
		return nil
	}
	if f.After(t) {
		return []models.Error{models.Invalid(fromField, from, "must not be after "+toField)}
	}
	return nil
}

// PositiveNumber rejects values that are not decimal numbers greater than zero.
func (v *Validator) PositiveNumber(field, value string) []models.Error {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return []models.Error{models.Invalid(field, value, "must be a number")}
	}
	if !d.IsPositive() {
		return []models.Error{models.Invalid(field, value, "must be a positive number")}
	}
	return nil
}
