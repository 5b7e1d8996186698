package orchestrator

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mdMaikon/Mesa-Premium-sub001/internal/core"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/guard"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/store"
)

// blockingAutomator waits until released, then returns a fixed artifact or
// error. It mimics the slow, non-cancellable browser run.
type blockingAutomator struct {
	release chan struct{}
	err     error
	panics  bool
}

func (a *blockingAutomator) Name() string { return "test" }

func (a *blockingAutomator) RunBlocking(_, _, _ string) (*core.AutomationArtifact, error) {
	if a.release != nil {
		<-a.release
	}
	if a.panics {
		panic("browser session exploded")
	}
	if a.err != nil {
		return nil, a.err
	}
	return &core.AutomationArtifact{
		Token:     "extracted-session-token-value",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func newTestOrchestrator(a core.Automator) (*Orchestrator, *store.Memory) {
	mem := store.NewMemory()
	return New(guard.New(), a, mem, mem, nil, 2), mem
}

func TestExtractTokenSuccess(t *testing.T) {
	o, mem := newTestOrchestrator(&blockingAutomator{})

	result := o.ExtractToken(context.Background(), Request{UserLogin: "maikon", Password: "pw", MFACode: "123456"})

	if !result.Success {
		t.Fatalf("result = %+v", result)
	}
	if result.TokenID == "" || result.ExpiresAt == nil {
		t.Errorf("success result missing token id or expiry: %+v", result)
	}

	tok, err := mem.LatestToken(context.Background(), "maikon")
	if err != nil || tok == nil {
		t.Fatalf("token not persisted: tok=%v err=%v", tok, err)
	}
	if tok.SecretValue != "extracted-session-token-value" {
		t.Errorf("SecretValue = %q", tok.SecretValue)
	}

	logs, _ := mem.RecentLogs(context.Background(), 10)
	if len(logs) != 1 || logs[0].Status != core.StatusSuccess {
		t.Errorf("extraction log = %+v", logs)
	}

	if o.Guard().Status().IsProcessing {
		t.Error("guard should be released after completion")
	}
}

func TestConcurrentCallersExactlyOneProceeds(t *testing.T) {
	auto := &blockingAutomator{release: make(chan struct{})}
	o, _ := newTestOrchestrator(auto)

	const callers = 8
	results := make([]core.ExtractionResult, callers)
	started := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			<-started
			results[i] = o.ExtractToken(context.Background(), Request{UserLogin: "maikon"})
		}(i)
	}
	close(started)

	// let the winner reach the automation, then give the rejections time
	// to come back before releasing the run
	time.Sleep(50 * time.Millisecond)
	close(auto.release)
	wg.Wait()

	var wins, rejections int
	for _, r := range results {
		if r.Success {
			wins++
		} else if r.Message == MsgAlreadyInProgress {
			rejections++
		}
	}
	if wins != 1 {
		t.Errorf("got %d successful extractions, want exactly 1", wins)
	}
	if rejections != callers-1 {
		t.Errorf("got %d rejections, want %d", rejections, callers-1)
	}
}

func TestAutomationFailureReleasesGuard(t *testing.T) {
	o, mem := newTestOrchestrator(&blockingAutomator{err: errFailedLogin})

	result := o.ExtractToken(context.Background(), Request{UserLogin: "maikon"})

	if result.Success {
		t.Fatal("result should not be successful")
	}
	if result.ErrorDetails == "" {
		t.Error("failure result should carry error details")
	}
	if o.Guard().Status().IsProcessing {
		t.Error("guard must be released after automation failure")
	}

	logs, _ := mem.RecentLogs(context.Background(), 10)
	if len(logs) != 1 || logs[0].Status != core.StatusFailed {
		t.Errorf("extraction log = %+v", logs)
	}

	// a fresh run is possible immediately
	if !o.Guard().Start("probe") {
		t.Error("guard should accept a new run after failure")
	}
}

func TestAutomationPanicIsContained(t *testing.T) {
	o, _ := newTestOrchestrator(&blockingAutomator{panics: true})

	// must not panic the caller
	result := o.ExtractToken(context.Background(), Request{UserLogin: "maikon"})

	if result.Success {
		t.Fatal("panicked run must produce a failure result")
	}
	if !strings.Contains(result.ErrorDetails, "panicked") {
		t.Errorf("ErrorDetails = %q", result.ErrorDetails)
	}
	if o.Guard().Status().IsProcessing {
		t.Error("guard must be released after a panic")
	}
}

func TestCallerTimeoutDoesNotLeakGuard(t *testing.T) {
	auto := &blockingAutomator{release: make(chan struct{})}
	o, _ := newTestOrchestrator(auto)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	result := o.ExtractToken(ctx, Request{UserLogin: "maikon"})
	if result.Success {
		t.Fatal("timed-out caller should get a failure result")
	}
	if result.Message != MsgWaitTimeout {
		t.Errorf("Message = %q", result.Message)
	}

	// the guard is still held by the in-flight run
	if !o.Guard().Status().IsProcessing {
		t.Fatal("run should still be in flight after the caller left")
	}

	// once the automation completes, the guard converges to released
	close(auto.release)
	deadline := time.After(2 * time.Second)
	for o.Guard().Status().IsProcessing {
		select {
		case <-deadline:
			t.Fatal("guard was never released after the abandoned run completed")
		case <-time.After(10 * time.Millisecond):
		}
	}

	if !o.Guard().Start("next") {
		t.Error("a subsequent start should succeed")
	}

	last := o.Guard().Status()
	if last.IsProcessing && last.LastResult != nil {
		t.Error("Start should have cleared the previous result")
	}
}

func TestLastResultReflectsCompletedRun(t *testing.T) {
	o, _ := newTestOrchestrator(&blockingAutomator{})

	o.ExtractToken(context.Background(), Request{UserLogin: "maikon"})

	st := o.Guard().Status()
	if st.LastResult == nil || !st.LastResult.Success {
		t.Errorf("LastResult = %+v", st.LastResult)
	}
}

var errFailedLogin = &loginError{}

type loginError struct{}

func (*loginError) Error() string { return "portal rejected the credentials" }
