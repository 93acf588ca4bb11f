package api

import (
	"net/http"

	"github.com/electrotech/salesforecaster/internal/api/handlers"
	"github.com/electrotech/salesforecaster/internal/logger"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

// RouterOptions tunes the middleware of the router
type RouterOptions struct {
	// RateLimit of the forecast endpoints in requests per second, 0 disables limiting
	RateLimit float64
	Burst     int
}

// NewRouter creates and configures the HTTP router
func NewRouter(h *handlers.ForecastHandler, log *logger.Logger, opt RouterOptions) http.Handler {
	r := mux.NewRouter()
	setFallbackHandlers(r)

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	forecasts := r.NewRoute().Subrouter()
	setFallbackHandlers(forecasts)
	forecasts.HandleFunc("/predict", h.Predict).Methods(http.MethodPost)
	forecasts.HandleFunc("/dashboard", h.Dashboard).Methods(http.MethodGet)
	if opt.RateLimit > 0 {
		forecasts.Use(rateLimitMiddleware(rate.NewLimiter(rate.Limit(opt.RateLimit), opt.Burst)))
	}

	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// setFallbackHandlers answers unknown routes with the same detail body as every other error
func setFallbackHandlers(r *mux.Router) {
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
}
