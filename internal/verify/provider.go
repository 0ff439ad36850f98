// Package verify abstracts the out-of-band code challenge. The core treats the
// provider as authoritative: a check is issued exactly once per verification
// attempt and never retried, since providers may invalidate a code after one
// check.
package verify

import (
	"context"
	"errors"
)

// Provider errors. Callers distinguish a rejected phone (caller error) from an
// unreachable provider (server failure); everything else wraps ErrUnavailable.
var (
	ErrInvalidPhone = errors.New("verify: invalid phone number")
	ErrUnavailable  = errors.New("verify: provider unavailable")
)

// Challenge reports the provider's view of an initiated code send.
type Challenge struct {
	Status string
}

// CheckResult reports a code check. Approved is authoritative; a false value
// with a nil error means the provider saw the code and rejected it.
type CheckResult struct {
	Approved bool
}

type Provider interface {
	StartChallenge(ctx context.Context, phone string) (Challenge, error)
	CheckChallenge(ctx context.Context, phone, code string) (CheckResult, error)
}
