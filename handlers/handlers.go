package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"kartikrathi/smartprice/internal/cards"
	"kartikrathi/smartprice/internal/pricing"
	"kartikrathi/smartprice/logger"
	"kartikrathi/smartprice/services/analyzer"
)

const apiVersion = "1.0.0"

// AnalyzeRequest is the body of POST /analyze-prices
type AnalyzeRequest struct {
	ProductQuery           string   `json:"product_query"`
	UserCreditCards        []string `json:"user_credit_cards"`
	MaxProductsPerPlatform int      `json:"max_products_per_platform,omitempty"`
}

// ErrorResponse is the body of any non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handlers holds the HTTP handlers and their dependencies
type Handlers struct {
	analyzer *analyzer.Analyzer
	table    pricing.ProfileTable
	timeout  time.Duration
	log      *logger.Logger
}

// NewHandlers creates the handler set
func NewHandlers(a *analyzer.Analyzer, table pricing.ProfileTable, timeout time.Duration) *Handlers {
	return &Handlers{
		analyzer: a,
		table:    table,
		timeout:  timeout,
		log:      logger.ForServer(),
	}
}

// AnalyzePrices handles POST /analyze-prices
func (h *Handlers) AnalyzePrices(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if msg := validateAnalyzeRequest(&req); msg != "" {
		h.writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel func()
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	report, err := h.analyzer.Analyze(ctx, req.ProductQuery, req.UserCreditCards, req.MaxProductsPerPlatform)
	if err != nil {
		h.log.Error().Err(err).Str("query", req.ProductQuery).Msg("Analysis failed")
		h.writeError(w, http.StatusGatewayTimeout, "analysis did not complete in time")
		return
	}

	h.writeJSON(w, http.StatusOK, report)
}

// SupportedCards handles GET /supported-cards
func (h *Handlers) SupportedCards(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"supported_cards": cards.SupportedCards(h.table),
		"total":           len(h.table),
	})
}

// Health handles GET /
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   apiVersion,
		"features": []string{
			"multi-platform price search",
			"credit card discount analysis",
			"effective price ranking",
		},
	})
}

// validateAnalyzeRequest returns an error message, or "" when valid
func validateAnalyzeRequest(req *AnalyzeRequest) string {
	query := strings.TrimSpace(req.ProductQuery)
	if len(query) < 2 || len(query) > 200 {
		return "product_query must be between 2 and 200 characters"
	}
	req.ProductQuery = query

	if len(req.UserCreditCards) < 1 || len(req.UserCreditCards) > 20 {
		return "user_credit_cards must contain between 1 and 20 cards"
	}
	for _, card := range req.UserCreditCards {
		if strings.TrimSpace(card) == "" {
			return "user_credit_cards must not contain empty names"
		}
	}

	if req.MaxProductsPerPlatform < 0 || req.MaxProductsPerPlatform > 20 {
		return "max_products_per_platform must be between 1 and 20"
	}

	return ""
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, ErrorResponse{Error: message})
}
