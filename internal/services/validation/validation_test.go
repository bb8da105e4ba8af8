package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/stockdesk/internal/models"
)

// wednesday is 2022-11-23 10:00 UTC.
func wednesday() time.Time {
	return time.Date(2022, 11, 23, 10, 0, 0, 0, time.UTC)
}

func newTestValidator() *Validator {
	return NewValidatorWithClock(wednesday)
}

func TestNonEmpty(t *testing.T) {
	v := newTestValidator()

	assert.Nil(t, v.NonEmpty("symbol", "AAPL"))
	errs := v.NonEmpty("symbol", "   ")
	require.Len(t, errs, 1)
	assert.Equal(t, models.KindInvalid, errs[0].Kind)
	assert.Equal(t, "symbol", errs[0].Field)
}

func TestSymbol(t *testing.T) {
	v := newTestValidator()

	for _, ok := range []string{"AAPL", "BHP.AU", "BRK-B", "XAGUSD.FOREX", " ibm "} {
		assert.Nil(t, v.Symbol("symbol", ok), ok)
	}
	for _, bad := range []string{"", "../etc/passwd", "AAPL;DROP", "A B", "AAPL/US"} {
		assert.Len(t, v.Symbol("symbol", bad), 1, bad)
	}
}

func TestDate(t *testing.T) {
	v := newTestValidator()

	assert.Nil(t, v.Date("from", "2022-11-18"))
	assert.Len(t, v.Date("from", "18/11/2022"), 1)
	assert.Len(t, v.Date("from", "2022-02-30"), 1)
	assert.Len(t, v.Date("from", ""), 1)
}

func TestNotWeekend(t *testing.T) {
	v := newTestValidator()

	assert.Nil(t, v.NotWeekend("date", "2022-11-18"))   // Friday
	assert.Len(t, v.NotWeekend("date", "2022-11-19"), 1) // Saturday
	assert.Len(t, v.NotWeekend("date", "2022-11-20"), 1) // Sunday
	assert.Nil(t, v.NotWeekend("date", "garbage"))
}

func TestNotTodayOrFuture(t *testing.T) {
	v := newTestValidator()

	assert.Nil(t, v.NotTodayOrFuture("date", "2022-11-22"))
	assert.Len(t, v.NotTodayOrFuture("date", "2022-11-23"), 1)
	assert.Len(t, v.NotTodayOrFuture("date", "2023-01-02"), 1)
}

func TestTradingDate_StopsAtParseFailure(t *testing.T) {
	v := newTestValidator()

	errs := v.TradingDate("date", "not-a-date")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "YYYY-MM-DD")
}

func TestTradingDate_WeekendAndFuture(t *testing.T) {
	v := newTestValidator()

	// 2022-11-26 is a Saturday after "today".
	errs := v.TradingDate("date", "2022-11-26")
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Message, "weekend")
	assert.Contains(t, errs[1].Message, "before today")
}

func TestDateOrder(t *testing.T) {
	v := newTestValidator()

	assert.Nil(t, v.DateOrder("from", "2022-11-18", "to", "2022-11-22"))
	assert.Nil(t, v.DateOrder("from", "2022-11-18", "to", "2022-11-18"))
	errs := v.DateOrder("from", "2022-11-22", "to", "2022-11-18")
	require.Len(t, errs, 1)
	assert.Equal(t, "from", errs[0].Field)
}

func TestPositiveNumber(t *testing.T) {
	v := newTestValidator()

	assert.Nil(t, v.PositiveNumber("amount", "10"))
	assert.Nil(t, v.PositiveNumber("amount", "0.5"))
	assert.Len(t, v.PositiveNumber("amount", "0"), 1)
	assert.Len(t, v.PositiveNumber("amount", "-3"), 1)
	assert.Len(t, v.PositiveNumber("amount", "ten"), 1)
}

func TestCollect_PreservesOrder(t *testing.T) {
	v := newTestValidator()

	errs := Collect(
		v.NonEmpty("symbol", ""),
		v.PositiveNumber("amount", "-1"),
		v.Date("date", "x"),
	)
	require.Len(t, errs, 3)
	assert.Equal(t, []string{"symbol", "amount", "date"}, []string{errs[0].Field, errs[1].Field, errs[2].Field})
}
