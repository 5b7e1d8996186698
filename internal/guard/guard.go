// Package guard enforces single-flight semantics for token extraction:
// at most one extraction run may be active per process.
package guard

import (
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"

	"github.com/mdMaikon/Mesa-Premium-sub001/internal/core"
)

// Guard tracks whether an extraction is currently running, plus a snapshot
// of the last outcome. All state is mutated under g.mu; callers never see a
// live reference.
type Guard struct {
	mu    sync.Mutex
	state core.ProcessingState
	now   func() time.Time
}

func New() *Guard {
	return &Guard{now: time.Now}
}

// NewWithClock is used by tests that need a deterministic clock.
func NewWithClock(now func() time.Time) *Guard {
	return &Guard{now: now}
}

// Start attempts to begin a run. It returns false without mutating state if
// a run is already active. On success the state is stamped with the start
// time and process ID (generated when empty) and the previous result is
// cleared.
func (g *Guard) Start(processID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.IsProcessing {
		return false
	}

	if processID == "" {
		processID = xid.New().String()
	}

	start := g.now()
	g.state.IsProcessing = true
	g.state.StartTime = &start
	g.state.ProcessID = processID
	g.state.LastResult = nil
	return true
}

// Finish records the result of the run started by the matching Start call
// and releases the guard. It must run on every exit path of the orchestrated
// work; the orchestrator defers it in the dispatched goroutine.
//
// Calling Finish without a preceding successful Start is tolerated: the
// guard converges to released and the next Start behaves normally.
func (g *Guard) Finish(result core.ExtractionResult) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state.IsProcessing = false
	g.state.LastResult = &result
}

// Status returns a copy of the current state.
func (g *Guard) Status() core.ProcessingState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Clone()
}

// ForceStop clears the processing flag without supplying a result. It exists
// for operator-triggered recovery from a wedged state (hung automation
// resource) and is never called by the normal flow. It reports whether it
// had an effect.
func (g *Guard) ForceStop() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.state.IsProcessing {
		log.Info().Msg("force-stop requested but no extraction is in progress")
		return false
	}

	log.Warn().
		Str("process_id", g.state.ProcessID).
		Msg("force-stopping extraction guard; in-flight automation may still be running")

	g.state.IsProcessing = false
	return true
}

// Reset replaces the state with the initial empty state. Test and debug use
// only.
func (g *Guard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = core.ProcessingState{}
}
