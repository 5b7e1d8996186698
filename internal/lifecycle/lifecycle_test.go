package lifecycle

import (
	"testing"
	"time"

	"github.com/mdMaikon/Mesa-Premium-sub001/internal/core"
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIsExpired(t *testing.T) {
	m := NewWithClock(fixedClock(base))

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"expired one second ago", base.Add(-time.Second), true},
		{"expires exactly now", base, true},
		{"expires in one nanosecond", base.Add(time.Nanosecond), false},
		{"expires in an hour", base.Add(time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := &core.Token{ExpiresAt: tt.expiresAt}
			if got := m.IsExpired(tok); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsExpiredMonotonic(t *testing.T) {
	tok := &core.Token{ExpiresAt: base}

	// once expired at T, it stays expired for every later instant
	for _, offset := range []time.Duration{0, time.Second, time.Hour, 24 * time.Hour} {
		m := NewWithClock(fixedClock(base.Add(offset)))
		if !m.IsExpired(tok) {
			t.Errorf("token expired at T must remain expired at T+%s", offset)
		}
	}
}

func TestTimeUntilExpiry(t *testing.T) {
	m := NewWithClock(fixedClock(base))

	expired := &core.Token{ExpiresAt: base.Add(-time.Second)}
	if got := m.TimeUntilExpiry(expired); got != nil {
		t.Errorf("TimeUntilExpiry(expired) = %v, want nil", got)
	}

	valid := &core.Token{ExpiresAt: base.Add(90 * time.Minute)}
	got := m.TimeUntilExpiry(valid)
	if got == nil {
		t.Fatal("TimeUntilExpiry(valid) = nil, want duration")
	}
	if *got != 90*time.Minute {
		t.Errorf("TimeUntilExpiry(valid) = %v, want 90m", *got)
	}
}

func TestNeedsRefresh(t *testing.T) {
	m := NewWithClock(fixedClock(base))
	valid := &core.Token{ExpiresAt: base.Add(time.Hour)}
	expired := &core.Token{ExpiresAt: base.Add(-time.Hour)}

	tests := []struct {
		name  string
		tok   *core.Token
		force bool
		want  bool
	}{
		{"valid token, no force", valid, false, false},
		{"valid token, forced", valid, true, true},
		{"no token", nil, false, true},
		{"expired token", expired, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.NeedsRefresh(tt.tok, tt.force); got != tt.want {
				t.Errorf("NeedsRefresh() = %v, want %v", got, tt.want)
			}
		})
	}
}
