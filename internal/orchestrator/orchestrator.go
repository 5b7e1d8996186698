// Package orchestrator bridges request handlers to the blocking browser
// automation. It enforces the single-flight rule through the guard and runs
// the automation on a bounded worker pool so a caller that gives up waiting
// never interrupts the run or leaks the guard.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/mdMaikon/Mesa-Premium-sub001/internal/core"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/guard"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/journal"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/redact"
)

const (
	// MsgAlreadyInProgress is the rejection message callers match on.
	MsgAlreadyInProgress = "processing already in progress"

	// MsgWaitTimeout is returned to a caller whose wait expired while the
	// automation keeps running in the background.
	MsgWaitTimeout = "timed out waiting for extraction; the run continues in the background"
)

type Orchestrator struct {
	guard     *guard.Guard
	automator core.Automator
	tokens    core.TokenStore
	logs      core.ExtractionLogStore
	journal   journal.Journal

	// pool bounds concurrent blocking automation work system-wide. The
	// guard is the correctness mechanism; the pool is defense in depth
	// should the guard ever be bypassed.
	pool *semaphore.Weighted
}

type Request struct {
	UserLogin string
	Password  string
	MFACode   string

	// ProcessID is optional; the guard generates one when empty.
	ProcessID string
}

func New(g *guard.Guard, automator core.Automator, tokens core.TokenStore, logs core.ExtractionLogStore, jrnl journal.Journal, poolSize int64) *Orchestrator {
	if poolSize <= 0 {
		poolSize = 1
	}
	if jrnl == nil {
		jrnl = journal.NewNoop()
	}
	return &Orchestrator{
		guard:     g,
		automator: automator,
		tokens:    tokens,
		logs:      logs,
		journal:   jrnl,
		pool:      semaphore.NewWeighted(poolSize),
	}
}

// Guard exposes the guard for status queries and operator recovery.
func (o *Orchestrator) Guard() *guard.Guard {
	return o.guard
}

// ExtractToken runs one extraction. It is safe to call concurrently; only
// one caller proceeds into automation, the rest receive an immediate
// rejection result. The calling goroutine waits for the dispatched work or
// for ctx; cancellation of ctx abandons the wait only, the dispatched run
// completes on its own and releases the guard when it does.
func (o *Orchestrator) ExtractToken(ctx context.Context, req Request) core.ExtractionResult {
	processID := req.ProcessID
	if processID == "" {
		processID = xid.New().String()
	}

	if !o.guard.Start(processID) {
		log.Info().
			Str("user", redact.MaskUsername(req.UserLogin)).
			Str("kind", string(core.KindRejected)).
			Msg("extraction request rejected: " + MsgAlreadyInProgress)
		return core.ExtractionResult{
			Success:   false,
			Message:   MsgAlreadyInProgress,
			UserLogin: req.UserLogin,
		}
	}

	if !o.pool.TryAcquire(1) {
		// should not happen while the guard holds; still release cleanly
		result := core.ExtractionResult{
			Success:      false,
			Message:      "no automation worker available",
			UserLogin:    req.UserLogin,
			ErrorDetails: "worker pool exhausted",
		}
		o.guard.Finish(result)
		return result
	}

	logID := o.appendPendingLog(req.UserLogin)

	done := make(chan core.ExtractionResult, 1)
	go o.dispatch(processID, logID, req, done)

	select {
	case result := <-done:
		return result
	case <-ctx.Done():
		log.Warn().
			Str("process_id", processID).
			Str("user", redact.MaskUsername(req.UserLogin)).
			Msg("caller stopped waiting; automation continues and will release the guard on completion")
		return core.ExtractionResult{
			Success:      false,
			Message:      MsgWaitTimeout,
			UserLogin:    req.UserLogin,
			ErrorDetails: ctx.Err().Error(),
		}
	}
}

// dispatch owns the full lifetime of one automation run. Guard release is
// attached to this goroutine's completion, not to the caller's continuation.
func (o *Orchestrator) dispatch(processID, logID string, req Request, done chan<- core.ExtractionResult) {
	defer o.pool.Release(1)

	result := core.ExtractionResult{
		Success:      false,
		Message:      "extraction aborted",
		UserLogin:    req.UserLogin,
		ErrorDetails: "dispatch did not complete",
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("process_id", processID).
				Interface("panic", r).
				Msg("extraction dispatch panicked")
			result = core.ExtractionResult{
				Success:      false,
				Message:      "extraction failed",
				UserLogin:    req.UserLogin,
				ErrorDetails: redact.Sanitize(fmt.Sprint(r)),
			}
			o.failLog(logID, result.ErrorDetails)
		}
		o.guard.Finish(result)
		if err := o.journal.Record(journal.Entry{
			Time:      time.Now(),
			ProcessID: processID,
			UserLogin: req.UserLogin,
			Result:    result,
		}); err != nil {
			log.Error().Err(err).Msg("failed to journal extraction result")
		}
		done <- result
	}()

	result = o.run(logID, req)
}

// run executes the automation and persists its outcome, converting every
// failure into a tagged result at the boundary where the blocking call
// returns.
func (o *Orchestrator) run(logID string, req Request) core.ExtractionResult {
	o.updateLog(logID, core.StatusInProgress, nil, "")

	started := time.Now()
	artifact, err := o.safeRunAutomation(req)
	elapsed := time.Since(started)

	if err != nil {
		details := redact.Sanitize(err.Error())
		log.Error().
			Str("user", redact.MaskUsername(req.UserLogin)).
			Str("kind", string(errKind(err))).
			Dur("elapsed", elapsed).
			Str("cause", details).
			Msg("automation run failed")
		now := time.Now()
		o.updateLog(logID, core.StatusFailed, &now, details)
		return core.ExtractionResult{
			Success:      false,
			Message:      "automation failed",
			UserLogin:    req.UserLogin,
			ErrorDetails: details,
		}
	}

	tokenID, err := o.persistToken(req.UserLogin, artifact)
	if err != nil {
		details := redact.Sanitize(err.Error())
		log.Error().
			Str("user", redact.MaskUsername(req.UserLogin)).
			Str("kind", string(errKind(err))).
			Str("cause", details).
			Msg("failed to persist extracted token")
		now := time.Now()
		o.updateLog(logID, core.StatusFailed, &now, details)
		return core.ExtractionResult{
			Success:      false,
			Message:      "storage failed",
			UserLogin:    req.UserLogin,
			ErrorDetails: details,
		}
	}

	now := time.Now()
	o.updateLog(logID, core.StatusSuccess, &now, "")

	log.Info().
		Str("user", redact.MaskUsername(req.UserLogin)).
		Str("token_id", tokenID).
		Dur("elapsed", elapsed).
		Msg("token extracted")

	expires := artifact.ExpiresAt
	return core.ExtractionResult{
		Success:   true,
		Message:   "token extracted",
		UserLogin: req.UserLogin,
		TokenID:   tokenID,
		ExpiresAt: &expires,
	}
}

// safeRunAutomation contains the only call into the opaque collaborator.
// Panics become automation errors here so nothing escapes to guard
// bookkeeping.
func (o *Orchestrator) safeRunAutomation(req Request) (artifact *core.AutomationArtifact, err error) {
	defer func() {
		if r := recover(); r != nil {
			artifact = nil
			err = core.AutomationError(fmt.Errorf("automation panicked: %v", r))
		}
	}()

	artifact, err = o.automator.RunBlocking(req.UserLogin, req.Password, req.MFACode)
	if err != nil {
		return nil, core.AutomationError(err)
	}
	if artifact == nil || artifact.Token == "" {
		return nil, core.AutomationError(fmt.Errorf("automation returned no token"))
	}
	return artifact, nil
}

func (o *Orchestrator) persistToken(userLogin string, artifact *core.AutomationArtifact) (string, error) {
	ctx := context.Background()

	if err := o.tokens.DeactivateTokens(ctx, userLogin); err != nil {
		return "", core.StorageError(err)
	}

	id, err := o.tokens.SaveToken(ctx, core.Token{
		UserLogin:   userLogin,
		SecretValue: artifact.Token,
		ExpiresAt:   artifact.ExpiresAt,
		ExtractedAt: time.Now(),
		IsActive:    true,
	})
	if err != nil {
		return "", core.StorageError(err)
	}
	return id, nil
}

func (o *Orchestrator) appendPendingLog(userLogin string) string {
	id, err := o.logs.AppendLog(context.Background(), core.ExtractionLog{
		HubLogin:  userLogin,
		Status:    core.StatusPending,
		StartedAt: time.Now(),
	})
	if err != nil {
		// the run proceeds; the attempt is simply not tracked
		log.Error().Err(err).Msg("failed to append extraction log entry")
		return ""
	}
	return id
}

func (o *Orchestrator) updateLog(id string, status core.LogStatus, completedAt *time.Time, errorMessage string) {
	if id == "" {
		return
	}
	if err := o.logs.UpdateLog(context.Background(), id, status, completedAt, errorMessage); err != nil {
		log.Error().Err(err).Str("log_id", id).Msg("failed to update extraction log entry")
	}
}

// failLog marks the entry failed from the panic path, tolerating entries
// already in a terminal state.
func (o *Orchestrator) failLog(id, details string) {
	now := time.Now()
	o.updateLog(id, core.StatusFailed, &now, details)
}

// errKind pulls the taxonomy tag off a tagged failure for log fields.
func errKind(err error) core.ErrorKind {
	var extractionErr *core.ExtractionError
	if errors.As(err, &extractionErr) {
		return extractionErr.Kind
	}
	return core.KindAutomation
}
