package runner

import (
	"errors"
	"io/fs"
	"os/exec"
	"strings"
)

// Signature is the class of a failed attempt's diagnostic output.
type Signature int

const (
	SignatureNone Signature = iota
	SignatureInterpreterMissing
	SignatureRateLimited
	SignatureBotDetected
	SignatureCapabilityUnavailable
)

func (s Signature) String() string {
	switch s {
	case SignatureInterpreterMissing:
		return "interpreter_missing"
	case SignatureRateLimited:
		return "rate_limited"
	case SignatureBotDetected:
		return "bot_detected"
	case SignatureCapabilityUnavailable:
		return "capability_unavailable"
	default:
		return "none"
	}
}

type signatureRule struct {
	signature Signature
	phrases   []string
}

// Evaluated in order; phrases are lower case and matched as substrings.
var signatureRules = []signatureRule{
	{SignatureInterpreterMissing, []string{
		"no module named",
		"command not found",
		"is not recognized as an internal or external command",
		"enoent",
	}},
	{SignatureRateLimited, []string{
		"http error 429",
		"too many requests",
		"rate limit",
		"rate-limit",
		"ratelimit",
	}},
	{SignatureBotDetected, []string{
		"sign in to confirm you're not a bot",
		"sign in to confirm you’re not a bot",
		"not a bot",
		"bot detection",
		"captcha",
		"unusual traffic",
	}},
	{SignatureCapabilityUnavailable, []string{
		"no supported javascript runtime",
		"javascript runtime",
		"js runtime",
		"no such option: --js-runtimes",
		"unrecognized arguments",
	}},
}

// Classify maps diagnostic text to a Signature.
func Classify(diagnostic string) Signature {
	text := strings.ToLower(diagnostic)
	for _, rule := range signatureRules {
		for _, phrase := range rule.phrases {
			if strings.Contains(text, phrase) {
				return rule.signature
			}
		}
	}
	return SignatureNone
}

// IsLaunchNotFound reports whether a launch error means the executable is absent.
func IsLaunchNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}
