package eodhd

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bobmcallan/stockdesk/internal/interfaces"
)

func TestGetRealTimeQuote_ParsesResponse(t *testing.T) {
	ts := int64(1711670340) // 2024-03-28 23:59:00 UTC
	mockResp := map[string]interface{}{
		"code":      "BHP.AU",
		"timestamp": ts,
		"open":      42.10,
		"high":      43.50,
		"low":       41.80,
		"close":     43.25,
		"volume":    float64(5000000),
	}

	var capturedPath, capturedToken, capturedFmt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		capturedToken = r.URL.Query().Get("api_token")
		capturedFmt = r.URL.Query().Get("fmt")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(mockResp)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	quote, err := client.GetRealTimeQuote(context.Background(), "BHP.AU")
	if err != nil {
		t.Fatalf("GetRealTimeQuote failed: %v", err)
	}

	if capturedPath != "/real-time/BHP.AU" {
		t.Errorf("expected path /real-time/BHP.AU, got %s", capturedPath)
	}
	if capturedToken != "test-key" {
		t.Errorf("expected api_token test-key, got %s", capturedToken)
	}
	if capturedFmt != "json" {
		t.Errorf("expected fmt json, got %s", capturedFmt)
	}
	if quote.Symbol != "BHP.AU" {
		t.Errorf("expected symbol BHP.AU, got %s", quote.Symbol)
	}
	if quote.Price.String() != "43.25" {
		t.Errorf("expected price 43.25, got %s", quote.Price)
	}
	if quote.Timestamp != ts {
		t.Errorf("expected timestamp %d, got %d", ts, quote.Timestamp)
	}
}

func TestGetRealTimeQuote_ForexTicker(t *testing.T) {
	mockResp := map[string]interface{}{
		"code":      "XAGUSD.FOREX",
		"timestamp": int64(1711670000),
		"close":     24.95,
	}

	var capturedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(mockResp)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL+"/"))
	quote, err := client.GetRealTimeQuote(context.Background(), "XAGUSD.FOREX")
	if err != nil {
		t.Fatalf("GetRealTimeQuote failed: %v", err)
	}

	if capturedPath != "/real-time/XAGUSD.FOREX" {
		t.Errorf("expected path /real-time/XAGUSD.FOREX, got %s", capturedPath)
	}
	if quote.Price.String() != "24.95" {
		t.Errorf("expected price 24.95, got %s", quote.Price)
	}
}

func TestGetRealTimeQuote_TickerNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("Ticker Not Found."))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.GetRealTimeQuote(context.Background(), "INVALID.XX")
	if err == nil {
		t.Fatal("expected error for invalid ticker")
	}
	if !errors.Is(err, interfaces.ErrQuoteNotFound) {
		t.Errorf("expected ErrQuoteNotFound, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", apiErr.StatusCode)
	}
	if apiErr.Endpoint != "/real-time/INVALID.XX" {
		t.Errorf("expected endpoint /real-time/INVALID.XX, got %s", apiErr.Endpoint)
	}
}

func TestGetRealTimeQuote_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal server error"))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.GetRealTimeQuote(context.Background(), "BHP.AU")
	if err == nil {
		t.Fatal("expected error on server error")
	}
	if errors.Is(err, interfaces.ErrQuoteNotFound) {
		t.Error("server error must not be reported as not found")
	}
}

func TestGetRealTimeQuote_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL), WithTimeout(100*time.Millisecond))
	_, err := client.GetRealTimeQuote(context.Background(), "BHP.AU")
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestGetRealTimeQuote_NAClose(t *testing.T) {
	// EODHD sends "NA" for symbols without a recent trade
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"DEAD.US","timestamp":"NA","close":"NA"}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.GetRealTimeQuote(context.Background(), "DEAD.US")
	if err == nil {
		t.Fatal("expected error for quote without a price")
	}
	if errors.Is(err, interfaces.ErrQuoteNotFound) {
		t.Error("missing price must not be reported as not found")
	}
}

func TestGetRealTimeQuote_NATimestamp(t *testing.T) {
	// A price without a trade time must not be reported as of the epoch
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"DEAD.US","timestamp":"NA","close":43.25}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	quote, err := client.GetRealTimeQuote(context.Background(), "DEAD.US")
	if err == nil {
		t.Fatalf("expected error for quote without a timestamp, got %+v", quote)
	}
	if errors.Is(err, interfaces.ErrQuoteNotFound) {
		t.Error("missing timestamp must not be reported as not found")
	}
}

func TestGetRealTimeQuote_StringFields(t *testing.T) {
	// EODHD sometimes returns timestamp and close as strings
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code":      "CBOE.AU",
			"timestamp": "1711670340",
			"close":     "43.25",
		})
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	quote, err := client.GetRealTimeQuote(context.Background(), "CBOE.AU")
	if err != nil {
		t.Fatalf("GetRealTimeQuote failed with string fields: %v", err)
	}

	if quote.Price.String() != "43.25" {
		t.Errorf("expected price 43.25, got %s", quote.Price)
	}
	if quote.Timestamp != 1711670340 {
		t.Errorf("expected timestamp 1711670340, got %d", quote.Timestamp)
	}
}

func TestGetRealTimeQuote_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent after cancellation")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	if _, err := client.GetRealTimeQuote(ctx, "BHP.AU"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestFlexInt64_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
	}{
		{"number", "1711670340", 1711670340},
		{"string", `"1711670340"`, 1711670340},
		{"zero", "0", 0},
		{"empty_string", `""`, 0},
		{"na_string", `"NA"`, 0},
		{"string_negative", `"-100"`, -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f flexInt64
			if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
				t.Fatalf("UnmarshalJSON(%s) error: %v", tt.input, err)
			}
			if int64(f) != tt.expected {
				t.Errorf("UnmarshalJSON(%s) = %d, want %d", tt.input, int64(f), tt.expected)
			}
		})
	}
}

func TestFlexDecimal_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		valid bool
	}{
		{"number", "43.25", "43.25", true},
		{"string", `"43.25"`, "43.25", true},
		{"integer", "7", "7", true},
		{"na", `"NA"`, "0", false},
		{"empty", `""`, "0", false},
		{"null", "null", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f flexDecimal
			if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
				t.Fatalf("UnmarshalJSON(%s) error: %v", tt.input, err)
			}
			if f.Valid != tt.valid {
				t.Errorf("UnmarshalJSON(%s) valid = %v, want %v", tt.input, f.Valid, tt.valid)
			}
			if f.Value.String() != tt.want {
				t.Errorf("UnmarshalJSON(%s) = %s, want %s", tt.input, f.Value, tt.want)
			}
		})
	}

	var f flexDecimal
	if err := json.Unmarshal([]byte(`"abc"`), &f); err == nil {
		t.Error("expected error for non-numeric price")
	}
}
