package stubapi

import (
	"testing"
	"time"
)

func TestLoginLimiter_BlocksAfterThreshold(t *testing.T) {
	t.Parallel()
	lim := newLoginLimiter(3, time.Minute)

	for i := 0; i < 2; i++ {
		if !lim.allow("a@x", "ip1") {
			t.Fatalf("blocked before threshold")
		}
		lim.failure("a@x", "ip1")
	}
	if blocked := lim.failure("a@x", "ip1"); !blocked {
		t.Fatalf("third failure did not block")
	}
	if lim.allow("a@x", "ip1") {
		t.Fatalf("allowed while blocked")
	}
	// A different (email, ip) pair is unaffected.
	if !lim.allow("a@x", "ip2") || !lim.allow("b@x", "ip1") {
		t.Fatalf("block leaked to another key")
	}
}

func TestLoginLimiter_CooldownAndSuccessReset(t *testing.T) {
	t.Parallel()
	lim := newLoginLimiter(1, time.Minute)
	now := time.Unix(1000, 0)
	lim.now = func() time.Time { return now }

	lim.failure("a@x", "ip1")
	if lim.allow("a@x", "ip1") {
		t.Fatalf("not blocked")
	}

	// Cooldown elapses.
	now = now.Add(2 * time.Minute)
	if !lim.allow("a@x", "ip1") {
		t.Fatalf("still blocked after cooldown")
	}

	// Success resets counters outright.
	lim.failure("b@x", "ip1")
	lim.success("b@x", "ip1")
	if !lim.allow("b@x", "ip1") {
		t.Fatalf("blocked after success reset")
	}
}
