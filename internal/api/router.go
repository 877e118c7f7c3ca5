package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tickerlab/research/backend/internal/api/handlers"
	"github.com/tickerlab/research/backend/pkg/logger"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	companyHandler *handlers.CompanyHandler,
	dataHandler *handlers.DataHandler,
	statusHandler *handlers.StatusHandler,
	onboardingHandler *handlers.OnboardingHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Company endpoints
	api.HandleFunc("/companies", companyHandler.List).Methods("GET")
	api.HandleFunc("/companies/{symbol}", companyHandler.Get).Methods("GET")

	// Stored data endpoints
	api.HandleFunc("/companies/{symbol}/prices", dataHandler.GetPrices).Methods("GET")
	api.HandleFunc("/companies/{symbol}/metrics", dataHandler.GetMetrics).Methods("GET")
	api.HandleFunc("/companies/{symbol}/earnings", dataHandler.GetEarnings).Methods("GET")

	// Derived status endpoint
	api.HandleFunc("/companies/{symbol}/status", statusHandler.Get).Methods("GET")

	// Onboarding endpoints
	api.HandleFunc("/onboarding/{symbol}", onboardingHandler.Trigger).Methods("POST")
	api.HandleFunc("/onboarding/{symbol}/progress", onboardingHandler.Progress).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "tickerlab-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
