package server

import (
	"net/http"

	"github.com/bobmcallan/stockdesk/internal/models"
)

// handleQuote handles GET /api/quotes/{symbol}.
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	symbol := PathParam(r, "/api/quotes/", "")
	WriteResult(w, s.quotes.GetQuote(r.Context(), symbol))
}

// handleCompareQuotes handles GET /api/quotes?symbols=A,B,C.
func (s *Server) handleCompareQuotes(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	symbols := splitList(r.URL.Query().Get("symbols"))
	WriteResult(w, s.quotes.CompareQuotes(r.Context(), symbols))
}

// handleHistory handles GET /api/history/{symbol}?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	q := r.URL.Query()
	req := models.HistoryRequest{
		Symbol: PathParam(r, "/api/history/", ""),
		From:   q.Get("from"),
		To:     q.Get("to"),
	}
	WriteResult(w, s.quotes.GetHistoryWindow(r.Context(), req))
}

// handleGains handles GET /api/gains/{symbol}?amount=N&date=YYYY-MM-DD.
func (s *Server) handleGains(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	q := r.URL.Query()
	req := models.GainsRequest{
		Symbol:       PathParam(r, "/api/gains/", ""),
		Amount:       q.Get("amount"),
		PurchaseDate: q.Get("date"),
	}
	WriteResult(w, s.quotes.ProjectGains(r.Context(), req))
}
