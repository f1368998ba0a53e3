package service

import (
	"testing"
	"time"
)

func TestLoginRateLimiter_AllowsUpToMax(t *testing.T) {
	limiter := NewLoginRateLimiter(time.Minute, 3)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("alice@example.com") {
			t.Fatalf("attempt %d should be allowed", i)
		}
	}
	if limiter.Allow("alice@example.com") {
		t.Fatalf("attempt over the limit should be blocked")
	}
}

func TestLoginRateLimiter_KeysAreIndependent(t *testing.T) {
	limiter := NewLoginRateLimiter(time.Minute, 1)

	if !limiter.Allow("alice@example.com") {
		t.Fatalf("first attempt for alice should be allowed")
	}
	if limiter.Allow("alice@example.com") {
		t.Fatalf("second attempt for alice should be blocked")
	}
	if !limiter.Allow("bob@example.com") {
		t.Fatalf("bob must not be affected by alice's attempts")
	}
}

func TestLoginRateLimiter_WindowExpires(t *testing.T) {
	limiter := NewLoginRateLimiter(20*time.Millisecond, 1)

	if !limiter.Allow("alice@example.com") {
		t.Fatalf("first attempt should be allowed")
	}
	if limiter.Allow("alice@example.com") {
		t.Fatalf("second attempt inside the window should be blocked")
	}

	time.Sleep(30 * time.Millisecond)
	if !limiter.Allow("alice@example.com") {
		t.Fatalf("attempt after the window should be allowed again")
	}
}
