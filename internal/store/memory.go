package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mdMaikon/Mesa-Premium-sub001/internal/core"
)

var (
	_ core.TokenStore         = (*Memory)(nil)
	_ core.ExtractionLogStore = (*Memory)(nil)
)

// Memory keeps tokens and extraction logs in process memory. Used for
// development and tests; production deployments use the SQLite store.
type Memory struct {
	mu     sync.RWMutex
	tokens []core.Token
	logs   []core.ExtractionLog
}

func NewMemory() *Memory {
	return &Memory{
		tokens: make([]core.Token, 0),
		logs:   make([]core.ExtractionLog, 0),
	}
}

func (m *Memory) SaveToken(_ context.Context, tok core.Token) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if tok.ID == "" {
		tok.ID = uuid.NewString()
	}
	if tok.CreatedAt.IsZero() {
		tok.CreatedAt = time.Now()
	}
	m.tokens = append(m.tokens, tok)
	return tok.ID, nil
}

func (m *Memory) LatestToken(_ context.Context, userLogin string) (*core.Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// newest record wins; the slice is append-only
	for i := len(m.tokens) - 1; i >= 0; i-- {
		if m.tokens[i].UserLogin == userLogin && m.tokens[i].IsActive {
			tok := m.tokens[i]
			return &tok, nil
		}
	}
	return nil, nil
}

func (m *Memory) DeactivateTokens(_ context.Context, userLogin string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.tokens {
		if m.tokens[i].UserLogin == userLogin {
			m.tokens[i].IsActive = false
		}
	}
	return nil
}

func (m *Memory) AppendLog(_ context.Context, entry core.ExtractionLog) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Status == "" {
		entry.Status = core.StatusPending
	}
	m.logs = append(m.logs, entry)
	return entry.ID, nil
}

func (m *Memory) UpdateLog(_ context.Context, id string, status core.LogStatus, completedAt *time.Time, errorMessage string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.logs {
		if m.logs[i].ID != id {
			continue
		}
		if !m.logs[i].Status.CanTransitionTo(status) {
			return fmt.Errorf("invalid extraction log transition %s -> %s", m.logs[i].Status, status)
		}
		m.logs[i].Status = status
		m.logs[i].CompletedAt = completedAt
		m.logs[i].ErrorMessage = errorMessage
		return nil
	}
	return fmt.Errorf("extraction log entry %q not found", id)
}

func (m *Memory) RecentLogs(_ context.Context, limit int) ([]core.ExtractionLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 || limit > len(m.logs) {
		limit = len(m.logs)
	}
	out := make([]core.ExtractionLog, limit)
	copy(out, m.logs[len(m.logs)-limit:])
	return out, nil
}
