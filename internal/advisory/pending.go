package advisory

import "sync"

// Pending tracks which advisory operations have a request in flight. It
// rejects a second request for an operation until the first one finishes.
type Pending struct {
	mu       sync.Mutex
	inFlight map[string]bool
}

func NewPending() *Pending {
	return &Pending{inFlight: make(map[string]bool, len(Operations))}
}

// TryBegin marks op as in flight. It returns ok=false when op is already
// pending. The returned done func clears the flag and is safe to call twice.
func (p *Pending) TryBegin(op string) (done func(), ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inFlight[op] {
		return func() {}, false
	}
	p.inFlight[op] = true
	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.inFlight, op)
			p.mu.Unlock()
		})
	}, true
}

func (p *Pending) InFlight(op string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight[op]
}

// Snapshot returns the flag of every known operation.
func (p *Pending) Snapshot() map[string]bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]bool, len(Operations))
	for _, op := range Operations {
		out[op] = p.inFlight[op]
	}
	return out
}
