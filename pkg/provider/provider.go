package provider

import (
	"context"
	"errors"

	"github.com/mpapenbr/f1replay-go/pkg/model"
)

// ErrSessionNotFound signals that the requested year/round/kind combination
// has no data. Fatal to load, never retried.
var ErrSessionNotFound = errors.New("session not found")

// RawSample is a provider-native telemetry reading. Timestamps may be
// unordered and duplicated; the normalizer owns the cleanup.
type RawSample struct {
	T     float64 `json:"t"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Speed float64 `json:"speed"`
	Lap   int     `json:"lap"`
}

// SessionData holds everything fetched for one session. Telemetry is
// keyed by driver code.
type SessionData struct {
	Event         model.EventInfo        `json:"event"`
	Drivers       []model.DriverIdentity `json:"drivers"`
	TrackStatuses []model.TrackStatus    `json:"trackStatuses"`
	Telemetry     map[string][]RawSample `json:"telemetry"`
}

// Provider supplies session data and schedule metadata.
type Provider interface {
	FetchSession(ctx context.Context, year, round int, kind model.SessionKind) (
		*SessionData, error)
	ListRounds(ctx context.Context, year int) ([]model.RoundInfo, error)
	ListSprints(ctx context.Context, year int) ([]model.RoundInfo, error)
}
