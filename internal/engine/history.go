package engine

import "github.com/lox/stonetell/internal/action"

// HistoryCapacity is how many of its own decisions the engine remembers
const HistoryCapacity = 10

// History is a fixed-capacity ring of the engine's own decisions. Pushing
// onto a full ring overwrites the oldest entry.
type History struct {
	buf   [HistoryCapacity]action.Decision
	start int
	n     int
}

// Push records a decision
func (h *History) Push(d action.Decision) {
	if h.n < HistoryCapacity {
		h.buf[(h.start+h.n)%HistoryCapacity] = d
		h.n++
		return
	}
	h.buf[h.start] = d
	h.start = (h.start + 1) % HistoryCapacity
}

// Last returns the most recent decision
func (h *History) Last() (action.Decision, bool) {
	if h.n == 0 {
		return action.Decision{}, false
	}
	return h.buf[(h.start+h.n-1)%HistoryCapacity], true
}

// Len returns the number of stored decisions
func (h *History) Len() int {
	return h.n
}

// All returns the stored decisions, oldest first
func (h *History) All() []action.Decision {
	out := make([]action.Decision, h.n)
	for i := 0; i < h.n; i++ {
		out[i] = h.buf[(h.start+i)%HistoryCapacity]
	}
	return out
}
