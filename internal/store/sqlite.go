package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mdMaikon/Mesa-Premium-sub001/internal/core"
)

var (
	_ core.TokenStore         = (*SQLite)(nil)
	_ core.ExtractionLogStore = (*SQLite)(nil)
)

// SQLite persists tokens and extraction logs in a single SQLite database
// file. The driver is pure Go (modernc.org/sqlite), so the binary stays
// CGO-free.
type SQLite struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS hub_tokens (
	id           TEXT PRIMARY KEY,
	user_login   TEXT NOT NULL,
	secret_value TEXT NOT NULL,
	expires_at   TIMESTAMP NOT NULL,
	extracted_at TIMESTAMP NOT NULL,
	created_at   TIMESTAMP NOT NULL,
	is_active    INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_hub_tokens_login ON hub_tokens (user_login, is_active, created_at);

CREATE TABLE IF NOT EXISTS extraction_logs (
	id            TEXT PRIMARY KEY,
	hub_login     TEXT NOT NULL,
	status        TEXT NOT NULL,
	started_at    TIMESTAMP NOT NULL,
	completed_at  TIMESTAMP,
	error_message TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_extraction_logs_started ON extraction_logs (started_at);
`

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent handlers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) SaveToken(ctx context.Context, tok core.Token) (string, error) {
	if tok.ID == "" {
		tok.ID = uuid.NewString()
	}
	if tok.CreatedAt.IsZero() {
		tok.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO hub_tokens (id, user_login, secret_value, expires_at, extracted_at, created_at, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tok.ID, tok.UserLogin, tok.SecretValue, tok.ExpiresAt, tok.ExtractedAt, tok.CreatedAt, boolToInt(tok.IsActive))
	if err != nil {
		return "", fmt.Errorf("inserting token: %w", err)
	}
	return tok.ID, nil
}

func (s *SQLite) LatestToken(ctx context.Context, userLogin string) (*core.Token, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_login, secret_value, expires_at, extracted_at, created_at, is_active
		 FROM hub_tokens
		 WHERE user_login = ? AND is_active = 1
		 ORDER BY created_at DESC
		 LIMIT 1`, userLogin)

	var tok core.Token
	var active int
	err := row.Scan(&tok.ID, &tok.UserLogin, &tok.SecretValue, &tok.ExpiresAt, &tok.ExtractedAt, &tok.CreatedAt, &active)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest token: %w", err)
	}
	tok.IsActive = active != 0
	return &tok, nil
}

func (s *SQLite) DeactivateTokens(ctx context.Context, userLogin string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE hub_tokens SET is_active = 0 WHERE user_login = ?`, userLogin)
	if err != nil {
		return fmt.Errorf("deactivating tokens: %w", err)
	}
	return nil
}

func (s *SQLite) AppendLog(ctx context.Context, entry core.ExtractionLog) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Status == "" {
		entry.Status = core.StatusPending
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO extraction_logs (id, hub_login, status, started_at, completed_at, error_message)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.HubLogin, string(entry.Status), entry.StartedAt, entry.CompletedAt, entry.ErrorMessage)
	if err != nil {
		return "", fmt.Errorf("inserting extraction log: %w", err)
	}
	return entry.ID, nil
}

func (s *SQLite) UpdateLog(ctx context.Context, id string, status core.LogStatus, completedAt *time.Time, errorMessage string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT status FROM extraction_logs WHERE id = ?`, id).Scan(&current)
	if err == sql.ErrNoRows {
		return fmt.Errorf("extraction log entry %q not found", id)
	}
	if err != nil {
		return fmt.Errorf("querying extraction log: %w", err)
	}

	if !core.LogStatus(current).CanTransitionTo(status) {
		return fmt.Errorf("invalid extraction log transition %s -> %s", current, status)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE extraction_logs SET status = ?, completed_at = ?, error_message = ? WHERE id = ?`,
		string(status), completedAt, errorMessage, id)
	if err != nil {
		return fmt.Errorf("updating extraction log: %w", err)
	}
	return tx.Commit()
}

func (s *SQLite) RecentLogs(ctx context.Context, limit int) ([]core.ExtractionLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, hub_login, status, started_at, completed_at, error_message
		 FROM (
			SELECT * FROM extraction_logs ORDER BY started_at DESC LIMIT ?
		 ) ORDER BY started_at ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying extraction logs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []core.ExtractionLog
	for rows.Next() {
		var entry core.ExtractionLog
		var status string
		var completed sql.NullTime
		if err := rows.Scan(&entry.ID, &entry.HubLogin, &status, &entry.StartedAt, &completed, &entry.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scanning extraction log: %w", err)
		}
		entry.Status = core.LogStatus(status)
		if completed.Valid {
			t := completed.Time
			entry.CompletedAt = &t
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
