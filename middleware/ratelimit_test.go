package middleware

import (
	"math"
	"testing"

	"photo-portfolio-platform/internal/config"
)

func TestLocalLimiterHandlesZeroWindow(t *testing.T) {
	l := newLocalLimiter(&config.Config{RateLimitReqs: 100, RateLimitWindow: 0})

	if math.IsInf(float64(l.limit), 1) {
		t.Fatal("zero window must not produce an infinite rate")
	}
	if !l.allow("10.0.0.1") {
		t.Fatal("first request within burst should be allowed")
	}
}

func TestLocalLimiterEnforcesRate(t *testing.T) {
	// 4 requests over 60s, burst 1: the second immediate request from the
	// same IP must be rejected.
	l := newLocalLimiter(&config.Config{RateLimitReqs: 4, RateLimitWindow: 60})

	if !l.allow("10.0.0.2") {
		t.Fatal("first request should be allowed")
	}
	if l.allow("10.0.0.2") {
		t.Fatal("burst exceeded, second immediate request should be rejected")
	}
	if !l.allow("10.0.0.3") {
		t.Fatal("different IP has its own bucket")
	}
}
