package normalize

import (
	"math"
	"slices"

	"github.com/mpapenbr/f1replay-go/log"
	"github.com/mpapenbr/f1replay-go/pkg/model"
)

const (
	DefaultMaxPlausibleKph  = 400.0
	DefaultGapThresholdSecs = 2.0
)

// Normalizer converts a driver's raw, irregularly timed samples into an
// ordered, deduplicated sequence. Gaps above the threshold are preserved
// and resolved later by the synchronizer.
type Normalizer struct {
	maxPlausibleKph  float64
	gapThresholdSecs float64
	l                *log.Logger
}

type Option func(*Normalizer)

// WithMaxPlausibleSpeed sets the km/h threshold above which a position
// jump is treated as a sensor glitch.
func WithMaxPlausibleSpeed(kph float64) Option {
	return func(n *Normalizer) {
		n.maxPlausibleKph = kph
	}
}

func WithGapThreshold(seconds float64) Option {
	return func(n *Normalizer) {
		n.gapThresholdSecs = seconds
	}
}

func WithLogger(l *log.Logger) Option {
	return func(n *Normalizer) {
		n.l = l
	}
}

func NewNormalizer(opts ...Option) *Normalizer {
	ret := &Normalizer{
		maxPlausibleKph:  DefaultMaxPlausibleKph,
		gapThresholdSecs: DefaultGapThresholdSecs,
		l:                log.Default().Named("normalize"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (n *Normalizer) GapThreshold() float64 {
	return n.gapThresholdSecs
}

// Normalize builds the DriverTrack for one driver. A driver with zero
// usable samples yields an empty track, not an error.
//
//nolint:whitespace // editor/linter issue
func (n *Normalizer) Normalize(
	driver model.DriverIdentity, raw []model.TelemetrySample,
) *model.DriverTrack {
	sorted := make([]model.TelemetrySample, len(raw))
	copy(sorted, raw)
	// stable: on exact-time collisions the later raw sample wins below
	slices.SortStableFunc(sorted, func(a, b model.TelemetrySample) int {
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		}
		return 0
	})

	samples := make([]model.TelemetrySample, 0, len(sorted))
	dropped := 0
	for _, cur := range sorted {
		if len(samples) == 0 {
			samples = append(samples, cur)
			continue
		}
		prev := &samples[len(samples)-1]
		if cur.Time == prev.Time {
			// keep latest
			*prev = cur
			continue
		}
		if n.implausible(*prev, cur) {
			dropped++
			continue
		}
		samples = append(samples, cur)
	}
	if dropped > 0 {
		n.l.Debug("dropped implausible samples",
			log.String("driver", driver.Code), log.Int("count", dropped))
	}
	if len(samples) == 0 && len(raw) > 0 {
		n.l.Warn("no usable samples", log.String("driver", driver.Code))
	}
	return &model.DriverTrack{Driver: driver, Samples: samples}
}

// implausible reports whether moving prev->cur would require a speed
// above the configured limit. Gaps above the threshold are exempt: the
// car may legitimately reappear elsewhere (pit lane, red flag).
func (n *Normalizer) implausible(prev, cur model.TelemetrySample) bool {
	dt := cur.Time - prev.Time
	if dt > n.gapThresholdSecs {
		return false
	}
	// telemetry coordinates are 1/10 m
	distMeters := math.Hypot(cur.X-prev.X, cur.Y-prev.Y) / 10.0
	kph := distMeters / dt * 3.6
	return kph > n.maxPlausibleKph
}
