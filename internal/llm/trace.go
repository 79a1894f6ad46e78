package llm

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// TraceEvent is one side of a recorded inference call.
type TraceEvent struct {
	Time          time.Time `json:"time"`
	Operation     string    `json:"operation"`
	CallID        string    `json:"callId,omitempty"`
	Stage         string    `json:"stage"`
	PromptBytes   int       `json:"promptBytes,omitempty"`
	ResponseBytes int       `json:"responseBytes,omitempty"`
	Error         string    `json:"error,omitempty"`
}

// TraceRecorder is a PromptHook that keeps the most recent events in memory
// for the debug endpoint. Oldest events are dropped once limit is reached.
type TraceRecorder struct {
	mu     sync.Mutex
	limit  int
	events []TraceEvent
	now    func() time.Time
}

func NewTraceRecorder(limit int) *TraceRecorder {
	if limit <= 0 {
		limit = 100
	}
	return &TraceRecorder{limit: limit, now: time.Now}
}

func (t *TraceRecorder) Before(ctx context.Context, operation, prompt string) {
	t.append(TraceEvent{
		Operation:   operation,
		CallID:      CallIDFrom(ctx),
		Stage:       "request",
		PromptBytes: len(prompt),
	})
}

func (t *TraceRecorder) After(ctx context.Context, operation string, raw json.RawMessage, err error) {
	ev := TraceEvent{
		Operation:     operation,
		CallID:        CallIDFrom(ctx),
		Stage:         "response",
		ResponseBytes: len(raw),
	}
	if err != nil {
		ev.Stage = "error"
		ev.Error = err.Error()
	}
	t.append(ev)
}

func (t *TraceRecorder) append(ev TraceEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ev.Time = t.now().UTC()
	t.events = append(t.events, ev)
	if over := len(t.events) - t.limit; over > 0 {
		t.events = append(t.events[:0:0], t.events[over:]...)
	}
}

// Recent returns recorded events oldest first, limited to callID when set.
func (t *TraceRecorder) Recent(callID string) []TraceEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]TraceEvent, 0, len(t.events))
	for _, ev := range t.events {
		if callID == "" || ev.CallID == callID {
			out = append(out, ev)
		}
	}
	return out
}
