package handlers

import (
	"net/http"
	"time"

	"github.com/didip/tollbooth/v7"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"kartikrathi/smartprice/config"
	"kartikrathi/smartprice/logger"
)

// NewRouter builds the HTTP handler chain: routing, per-IP rate
// limiting on the analyze endpoint, CORS and request logging
func NewRouter(h *Handlers, cfg *config.Config) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", h.Health).Methods("GET")
	r.HandleFunc("/supported-cards", h.SupportedCards).Methods("GET")

	// Scraping is expensive; throttle per client IP
	lmt := tollbooth.NewLimiter(cfg.RateLimitRPS, nil)
	lmt.SetMessageContentType("application/json")
	lmt.SetMessage(`{"error":"too many requests, slow down"}`)
	r.Handle("/analyze-prices", tollbooth.LimitHandler(lmt, http.HandlerFunc(h.AnalyzePrices))).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return requestLogging(c.Handler(r))
}

// requestLogging logs method, path, status and duration per request
func requestLogging(next http.Handler) http.Handler {
	log := logger.ForServer()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		if r.URL.Path == "/" {
			return
		}
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapped.status).
			Dur("elapsed", time.Since(start)).
			Msg("Request")
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
