package verify

import (
	"context"
	"time"
)

// StaticProvider approves a fixed code and is used when Twilio credentials are
// absent (local development) and in tests. Latency mimics a real round trip.
type StaticProvider struct {
	Code    string
	Latency time.Duration
}

func (p StaticProvider) StartChallenge(_ context.Context, _ string) (Challenge, error) {
	time.Sleep(p.Latency)
	return Challenge{Status: "pending"}, nil
}

func (p StaticProvider) CheckChallenge(_ context.Context, _, code string) (CheckResult, error) {
	time.Sleep(p.Latency)
	return CheckResult{Approved: code == p.Code}, nil
}
