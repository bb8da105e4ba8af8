package server

import (
	"net/http"

	"github.com/bobmcallan/stockdesk/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Quotes
	mux.HandleFunc("/api/quotes/", s.handleQuote)
	mux.HandleFunc("/api/quotes", s.handleCompareQuotes)

	// History and gains
	mux.HandleFunc("/api/history/", s.handleHistory)
	mux.HandleFunc("/api/gains/", s.handleGains)

	mux.HandleFunc("/", s.handleNotFound)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, common.GetVersionInfo())
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusNotFound, "Not found")
}
