package handler

import (
	"net/http"

	"iplinsight/internal/advisory"
)

type winProbabilityRequest struct {
	Target         int `json:"target"`
	CurrentRuns    int `json:"currentRuns"`
	WicketsLost    int `json:"wicketsLost"`
	BallsRemaining int `json:"ballsRemaining"`
}

type clustersRequest struct {
	PlayerIDs []string `json:"playerIds" validate:"max=50,dive,required"`
}

type commentaryRequest struct {
	PlayerName string `json:"playerName" validate:"required,max=120"`
}

// WinProbability answers with an advisory outcome; failures come back as
// the safe default with degraded=true, never as an HTTP error.
func (h *Handler) WinProbability(w http.ResponseWriter, r *http.Request) {
	var req winProbabilityRequest
	if err := h.decodeBody(w, r, &req, false); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "invalid match state: "+err.Error())
		return
	}
	done, ok := h.pending.TryBegin(advisory.OpWinProbability)
	if !ok {
		h.errorResponse(w, http.StatusConflict, "win probability request already pending")
		return
	}
	defer done()

	out := h.advisory.EvaluateWinProbability(r.Context(), advisory.MatchState(req))
	h.jsonResponse(w, http.StatusOK, out)
}

// PlayerClusters clusters the requested players, or the whole roster when
// no ids are given.
func (h *Handler) PlayerClusters(w http.ResponseWriter, r *http.Request) {
	var req clustersRequest
	if r.Method == http.MethodPost {
		if err := h.decodeBody(w, r, &req, true); err != nil {
			h.errorResponse(w, http.StatusBadRequest, "invalid request: "+err.Error())
			return
		}
	}

	players := h.roster.Summaries()
	if len(req.PlayerIDs) > 0 {
		var err error
		players, err = h.roster.SummariesFor(req.PlayerIDs)
		if err != nil {
			h.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	done, ok := h.pending.TryBegin(advisory.OpPlayerClusters)
	if !ok {
		h.errorResponse(w, http.StatusConflict, "clustering request already pending")
		return
	}
	defer done()

	h.jsonResponse(w, http.StatusOK, h.advisory.EvaluatePlayerClusters(r.Context(), players))
}

func (h *Handler) Commentary(w http.ResponseWriter, r *http.Request) {
	var req commentaryRequest
	if err := h.decodeBody(w, r, &req, false); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	done, ok := h.pending.TryBegin(advisory.OpCommentary)
	if !ok {
		h.errorResponse(w, http.StatusConflict, "commentary request already pending")
		return
	}
	defer done()

	h.jsonResponse(w, http.StatusOK, h.advisory.EvaluateCommentary(r.Context(), req.PlayerName))
}

// AdvisoryStatus reports which advisory operations are in flight.
func (h *Handler) AdvisoryStatus(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"pending": h.pending.Snapshot(),
	})
}
