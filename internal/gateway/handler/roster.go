package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"iplinsight/internal/roster"
)

const defaultLeaders = 5

// ListPlayers returns the roster, optionally filtered by role and sorted by
// name or team.
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	players, err := h.roster.ByRole(roster.Role(q.Get("role")), q.Get("sort"))
	if err != nil {
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{"players": players})
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	p, err := h.roster.Player(chi.URLParam(r, "id"))
	if err != nil {
		h.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}
	h.jsonResponse(w, http.StatusOK, p)
}

func (h *Handler) Teams(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{"teams": h.roster.Teams()})
}

// Team returns one franchise's record, win percentage and players.
func (h *Handler) Team(w http.ResponseWriter, r *http.Request) {
	t, err := h.roster.Team(chi.URLParam(r, "team"))
	if err != nil {
		h.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}
	h.jsonResponse(w, http.StatusOK, t)
}

// Leaders returns the top run scorers for the dashboard.
func (h *Handler) Leaders(w http.ResponseWriter, r *http.Request) {
	limit := defaultLeaders
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.errorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{"leaders": h.roster.TopRunScorers(limit)})
}

func (h *Handler) Seasons(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{"seasons": h.roster.Seasons()})
}

// Compare returns radar data for ids=1,2,3.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	var ids []string
	for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	c, err := h.roster.Compare(ids)
	switch {
	case errors.Is(err, roster.ErrUnknownPlayer):
		h.errorResponse(w, http.StatusNotFound, err.Error())
	case err != nil:
		h.errorResponse(w, http.StatusBadRequest, err.Error())
	default:
		h.jsonResponse(w, http.StatusOK, c)
	}
}

func (h *Handler) DreamTeam(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, h.roster.DreamTeam())
}
