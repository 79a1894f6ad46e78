package handler

import (
	"net/http"
	"strings"

	"iplinsight/internal/llm"
)

// traceAdvisory attaches the trace recorder to advisory requests so the
// hooks middleware records each inference call.
func (h *Handler) traceAdvisory(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.trace == nil {
			next.ServeHTTP(w, r)
			return
		}
		ctx := llm.WithPromptHook(r.Context(), h.trace)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdvisoryTrace returns the recent inference calls, optionally for one
// call_id.
func (h *Handler) AdvisoryTrace(w http.ResponseWriter, r *http.Request) {
	if h.trace == nil {
		h.errorResponse(w, http.StatusNotFound, "tracing disabled")
		return
	}
	callID := strings.TrimSpace(r.URL.Query().Get("call_id"))
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"call_id": callID,
		"events":  h.trace.Recent(callID),
	})
}
