package pitch

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/stockpitch/internal/clients/yahoo"
	"github.com/aristath/stockpitch/internal/modules/valuation"
)

// Handler handles pitch HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new pitch handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "pitch").Logger(),
	}
}

// RegisterRoutes mounts the pitch endpoints on the router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/pitch", h.HandleGeneratePitch)
	r.Get("/pitch/{ticker}", h.HandleGeneratePitchByTicker)
}

// HandleGeneratePitch handles POST /api/v1/pitch
func (h *Handler) HandleGeneratePitch(w http.ResponseWriter, r *http.Request) {
	var request Request
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if request.Ticker == "" {
		h.writeError(w, http.StatusBadRequest, "No ticker provided")
		return
	}

	h.generate(w, r, request)
}

// HandleGeneratePitchByTicker handles GET /api/v1/pitch/{ticker}
func (h *Handler) HandleGeneratePitchByTicker(w http.ResponseWriter, r *http.Request) {
	request := Request{
		Ticker: chi.URLParam(r, "ticker"),
		Mode:   r.URL.Query().Get("mode"),
	}

	h.generate(w, r, request)
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request, request Request) {
	startTime := time.Now()
	result, err := h.service.Generate(r.Context(), request)
	if err != nil {
		h.writeServiceError(w, request.Ticker, err)
		return
	}

	h.log.Info().
		Str("ticker", result.Ticker).
		Dur("elapsed", time.Since(startTime)).
		Msg("Pitch request completed")

	h.writeJSON(w, http.StatusOK, result)
}

// writeServiceError maps pipeline errors onto HTTP status codes
func (h *Handler) writeServiceError(w http.ResponseWriter, ticker string, err error) {
	switch {
	case errors.Is(err, yahoo.ErrInvalidTicker), errors.Is(err, ErrUnknownMode):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, yahoo.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "Ticker not found: "+ticker)
	case errors.Is(err, yahoo.ErrUpstream):
		h.writeError(w, http.StatusBadGateway, "Market data unavailable: "+err.Error())
	case errors.Is(err, valuation.ErrInvalidAssumptions), errors.Is(err, valuation.ErrNoValuation):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.log.Error().Err(err).Str("ticker", ticker).Msg("Pitch generation failed")
		h.writeError(w, http.StatusInternalServerError, "Pitch generation failed")
	}
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
