package api

import (
	"net/http"

	"hypolab/app"
	"hypolab/internal"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler serves the /v1 JSON API
type Handler struct {
	inference *app.InferenceService
	logger    *internal.Logger
}

// NewRouter builds the chi router for the JSON API. Paths include the /v1
// prefix so the router can be mounted as-is.
func NewRouter(inference *app.InferenceService, logger *internal.Logger) http.Handler {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	h := &Handler{inference: inference, logger: logger.WithField("component", "api")}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logger.Logrus(), NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(middleware.AllowContentType("application/json"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorBody{Error: ErrorDetail{Code: "NOT_FOUND", Message: "no route for " + r.Method + " " + r.URL.Path}})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorBody{Error: ErrorDetail{Code: "METHOD_NOT_ALLOWED", Message: r.Method + " not allowed on " + r.URL.Path}})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/tests/evaluate", h.handleEvaluate)
		r.Post("/tests/batch", h.handleBatch)
		r.Post("/tests/one-proportion", h.handleOneProportion)
		r.Post("/tests/two-proportion", h.handleTwoProportion)
		r.Post("/intervals", h.handleInterval)
		r.Post("/probabilities/binomial", h.handleBinomial)
		r.Post("/probabilities/normal", h.handleNormal)
		r.Post("/probabilities/percentile", h.handlePercentile)
		r.Post("/error-rates", h.handleErrorRates)
		r.Post("/curves", h.handleCurve)
		r.Post("/simulations/proportion", h.handleSimulation)
	})

	return r
}
