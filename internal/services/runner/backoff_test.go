package runner

import (
	"testing"
	"time"
)

func TestBackoffDelayDoublesAndCaps(t *testing.T) {
	p := BackoffPolicy{BaseDelay: 2 * time.Second, MaxDelay: 10 * time.Second, MaxRetries: 5}

	want := []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second, 10 * time.Second, 10 * time.Second}
	for i, w := range want {
		if got := p.Delay(i+1, SignatureRateLimited); got != w {
			t.Errorf("Delay(%d) = %v, want %v", i+1, got, w)
		}
	}
}

func TestBackoffBotDelayIsLonger(t *testing.T) {
	p := BackoffPolicy{BaseDelay: time.Second, MaxDelay: 30 * time.Second, BotMultiplier: 2}

	if got := p.Delay(1, SignatureBotDetected); got != 2*time.Second {
		t.Errorf("bot Delay(1) = %v, want 2s", got)
	}
	if got := p.Delay(5, SignatureBotDetected); got != 30*time.Second {
		t.Errorf("bot Delay(5) = %v, want capped 30s", got)
	}
}

func TestBackoffJitterBounds(t *testing.T) {
	p := BackoffPolicy{BaseDelay: time.Second, MaxDelay: time.Minute, Jitter: 500 * time.Millisecond}

	for i := 0; i < 50; i++ {
		got := p.Delay(1, SignatureRateLimited)
		if got < time.Second || got >= time.Second+500*time.Millisecond {
			t.Fatalf("Delay(1) = %v, want within [1s, 1.5s)", got)
		}
	}
}

func TestPolicyFor(t *testing.T) {
	def := PolicyFor(false)
	shared := PolicyFor(true)

	if shared.BaseDelay <= def.BaseDelay || shared.MaxDelay <= def.MaxDelay || shared.MaxRetries <= def.MaxRetries {
		t.Errorf("shared network policy %+v must be stricter than default %+v", shared, def)
	}
}
