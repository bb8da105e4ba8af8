package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccess_CarriesValueAndNoErrors(t *testing.T) {
	r := Success(Quote{Symbol: "AAPL"})

	assert.True(t, r.OK())
	assert.Equal(t, StatusSuccess, r.Status)
	assert.Equal(t, "AAPL", r.Value.Symbol)
	assert.Empty(t, r.Errors)
}

func TestFailure_PreservesOrder(t *testing.T) {
	r := Failure[Quote](NotFound("symbol", "AAA"), Unknown())

	assert.False(t, r.OK())
	require.Len(t, r.Errors, 2)
	assert.Equal(t, NotFound("symbol", "AAA"), r.Errors[0])
	assert.Equal(t, KindUnknown, r.Errors[1].Kind)
}

func TestFailure_EmptyBecomesUnknown(t *testing.T) {
	r := Failure[Quote]()

	require.Len(t, r.Errors, 1)
	assert.Equal(t, Unknown(), r.Errors[0])
}

func TestFailure_CopiesInput(t *testing.T) {
	errs := []Error{NotFound("from", "2022-11-11")}
	r := Failure[HistoryWindow](errs...)
	errs[0] = Unknown()

	assert.Equal(t, KindNotFound, r.Errors[0].Kind)
}

func TestError_Messages(t *testing.T) {
	assert.Equal(t, `symbol "ZZZ" not found`, NotFound("symbol", "ZZZ").Error())
	assert.Equal(t, "unknown error", Unknown().Error())
	assert.Equal(t, `invalid amount "-1": must be a positive number`,
		Invalid("amount", "-1", "must be a positive number").Error())
}
