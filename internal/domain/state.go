package domain

// StateKind enumerates the pipeline lifecycle.
type StateKind int

const (
	StateLoading StateKind = iota
	StateReady
	StateFailed
)

func (k StateKind) String() string {
	switch k {
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "loading"
	}
}

// PipelineState is the read-only view of one run.
// Deck is meaningful only for StateReady, Message only for StateFailed.
type PipelineState struct {
	Kind    StateKind
	Deck    Deck
	Message string
}

// Loading is the initial state of every run.
func Loading() PipelineState {
	return PipelineState{Kind: StateLoading}
}

// Ready wraps an assembled deck.
func Ready(deck Deck) PipelineState {
	return PipelineState{Kind: StateReady, Deck: deck}
}

// Failed carries the message surfaced to the presentation layer.
func Failed(message string) PipelineState {
	return PipelineState{Kind: StateFailed, Message: message}
}

// Terminal reports whether no further transition can happen within the run.
func (s PipelineState) Terminal() bool {
	return s.Kind != StateLoading
}
