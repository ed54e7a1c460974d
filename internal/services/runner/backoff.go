package runner

import (
	"math/rand"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// BackoffPolicy bounds the retries on rate-limit and bot-detection signatures.
type BackoffPolicy struct {
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	MaxRetries    int
	Jitter        time.Duration
	BotMultiplier float64
}

func DefaultBackoffPolicy() BackoffPolicy {
	return BackoffPolicy{
		BaseDelay:     2 * time.Second,
		MaxDelay:      30 * time.Second,
		MaxRetries:    3,
		Jitter:        time.Second,
		BotMultiplier: 2,
	}
}

// SharedNetworkBackoffPolicy is used when the service runs from an address
// range the upstream sites already treat with suspicion.
func SharedNetworkBackoffPolicy() BackoffPolicy {
	return BackoffPolicy{
		BaseDelay:     5 * time.Second,
		MaxDelay:      60 * time.Second,
		MaxRetries:    5,
		Jitter:        2 * time.Second,
		BotMultiplier: 2,
	}
}

// PolicyFor picks the policy for the current network origin.
func PolicyFor(sharedNetwork bool) BackoffPolicy {
	if sharedNetwork {
		return SharedNetworkBackoffPolicy()
	}
	return DefaultBackoffPolicy()
}

// Delay returns the wait before retry number retry (1-based). Bot challenges
// wait BotMultiplier times longer, still capped at MaxDelay, and jitter is
// added on top.
func (p BackoffPolicy) Delay(retry int, sig Signature) time.Duration {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.Multiplier = 2
	b.MaxInterval = p.MaxDelay
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()

	var delay time.Duration
	for i := 0; i < max(retry, 1); i++ {
		delay = b.NextBackOff()
	}

	if sig == SignatureBotDetected && p.BotMultiplier > 1 {
		delay = min(time.Duration(float64(delay)*p.BotMultiplier), p.MaxDelay)
	}
	if p.Jitter > 0 {
		delay += time.Duration(rand.Int63n(int64(p.Jitter)))
	}
	return delay
}
