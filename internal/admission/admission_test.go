package admission

import (
	"testing"
	"time"
)

func TestAllowWithinBurst(t *testing.T) {
	c := New(Config{RequestsPerMinute: 60, Burst: 3, IdleTTL: time.Minute})
	defer c.Stop()

	for i := 0; i < 3; i++ {
		if !c.Allow("user-a") {
			t.Fatalf("request %d within burst should be allowed", i+1)
		}
	}
	if c.Allow("user-a") {
		t.Error("request beyond burst should be rejected")
	}
}

func TestCallersAreIndependent(t *testing.T) {
	c := New(Config{RequestsPerMinute: 60, Burst: 1, IdleTTL: time.Minute})
	defer c.Stop()

	if !c.Allow("user-a") {
		t.Fatal("first request for user-a should pass")
	}
	if c.Allow("user-a") {
		t.Error("second immediate request for user-a should be limited")
	}
	if !c.Allow("user-b") {
		t.Error("user-b must not be affected by user-a's budget")
	}
}

func TestRefill(t *testing.T) {
	// 1200 rpm = one token every 50ms
	c := New(Config{RequestsPerMinute: 1200, Burst: 1, IdleTTL: time.Minute})
	defer c.Stop()

	if !c.Allow("user-a") {
		t.Fatal("first request should pass")
	}
	if c.Allow("user-a") {
		t.Fatal("bucket should be empty immediately after")
	}

	time.Sleep(120 * time.Millisecond)
	if !c.Allow("user-a") {
		t.Error("bucket should have refilled after waiting")
	}
}
