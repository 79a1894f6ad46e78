package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"iplinsight/internal/advisory"
	"iplinsight/internal/llm"
	"iplinsight/internal/roster"
)

// MaxBodySize limits the size of request bodies to 64KB
const MaxBodySize = 64 << 10

type Config struct {
	Advisory       *advisory.Client
	Roster         *roster.Roster
	Pending        *advisory.Pending
	Logger         *zap.Logger
	Trace          *llm.TraceRecorder
	AllowedOrigins []string
	// RaceInterval overrides the bar-chart-race frame delay.
	RaceInterval time.Duration
}

type Handler struct {
	advisory       *advisory.Client
	roster         *roster.Roster
	pending        *advisory.Pending
	logger         *zap.SugaredLogger
	trace          *llm.TraceRecorder
	validator      *validator.Validate
	allowedOrigins map[string]bool
	raceInterval   time.Duration
}

func New(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	pending := cfg.Pending
	if pending == nil {
		pending = advisory.NewPending()
	}
	origins := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		origins[o] = true
	}
	return &Handler{
		advisory:       cfg.Advisory,
		roster:         cfg.Roster,
		pending:        pending,
		logger:         logger.Named("http").Sugar(),
		trace:          cfg.Trace,
		validator:      validator.New(),
		allowedOrigins: origins,
		raceInterval:   cfg.RaceInterval,
	}
}

// Routes mounts the API under r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.Health)
	r.Get("/debug/advisory-trace", h.AdvisoryTrace)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/players", h.ListPlayers)
		r.Get("/players/{id}", h.GetPlayer)
		r.Get("/teams", h.Teams)
		r.Get("/teams/{team}", h.Team)
		r.Get("/leaders", h.Leaders)
		r.Get("/seasons", h.Seasons)
		r.Get("/compare", h.Compare)
		r.Get("/dream-team", h.DreamTeam)
		r.Get("/race/ws", h.RaceWS)

		r.Route("/advisory", func(r chi.Router) {
			r.Use(h.traceAdvisory)
			r.Post("/win-probability", h.WinProbability)
			r.Post("/clusters", h.PlayerClusters)
			r.Get("/clusters", h.PlayerClusters)
			r.Post("/commentary", h.Commentary)
			r.Get("/status", h.AdvisoryStatus)
		})
	})
}

// Health check endpoint
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched
// when allowEmpty is set.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}, allowEmpty bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return h.validator.Struct(v)
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Debugw("write response failed", "error", err)
	}
}

func (h *Handler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}
