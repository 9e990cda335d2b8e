package timeline

import (
	"math"
	"sort"

	"github.com/mpapenbr/f1replay-go/pkg/model"
	"github.com/mpapenbr/f1replay-go/pkg/processing/normalize"
)

// Position is the interpolated state of a driver at a query time.
type Position struct {
	X     float64
	Y     float64
	Speed float64
	Lap   int
	Dist  float64 // cumulative race distance in telemetry units
}

type trackState struct {
	track   *model.DriverTrack
	cumDist []float64 // per sample, straight line accumulation
	cursor  int       // last index with sample.Time <= query time
}

// Synchronizer answers "where is driver D at time t" for the whole
// session. Queries usually arrive in non-decreasing t order; a backward
// seek resets the cursor via binary search.
type Synchronizer struct {
	drivers      map[string]*trackState
	gapThreshold float64
	tMin, tMax   float64
}

type Option func(*Synchronizer)

func WithGapThreshold(seconds float64) Option {
	return func(s *Synchronizer) {
		s.gapThreshold = seconds
	}
}

func NewSynchronizer(tracks []*model.DriverTrack, opts ...Option) *Synchronizer {
	ret := &Synchronizer{
		drivers:      make(map[string]*trackState, len(tracks)),
		gapThreshold: normalize.DefaultGapThresholdSecs,
		tMin:         math.Inf(1),
		tMax:         math.Inf(-1),
	}
	for _, opt := range opts {
		opt(ret)
	}
	for _, t := range tracks {
		ret.drivers[t.Driver.Code] = &trackState{
			track:   t,
			cumDist: accumulateDist(t.Samples),
			cursor:  -1,
		}
		if tMin, tMax, ok := t.Bounds(); ok {
			ret.tMin = math.Min(ret.tMin, tMin)
			ret.tMax = math.Max(ret.tMax, tMax)
		}
	}
	if ret.tMin > ret.tMax {
		ret.tMin, ret.tMax = 0, 0
	}
	return ret
}

// Bounds returns the union time range over all non-empty tracks.
func (s *Synchronizer) Bounds() (tMin, tMax float64) {
	return s.tMin, s.tMax
}

// Query returns the interpolated position of a driver at t, or ok=false
// when the driver is absent: t before their first sample, after their
// last, or inside a gap exceeding the threshold.
func (s *Synchronizer) Query(code string, t float64) (Position, bool) {
	st, ok := s.drivers[code]
	if !ok || st.track.Empty() {
		return Position{}, false
	}
	samples := st.track.Samples
	st.seek(t)
	idx := st.cursor
	if idx < 0 {
		return Position{}, false
	}
	cur := samples[idx]
	if idx == len(samples)-1 {
		if t > cur.Time {
			return Position{}, false
		}
		return Position{
			X: cur.X, Y: cur.Y, Speed: cur.Speed,
			Lap: cur.Lap, Dist: st.cumDist[idx],
		}, true
	}
	next := samples[idx+1]
	if next.Time-cur.Time > s.gapThreshold {
		// declared gap, do not interpolate across it
		return Position{}, false
	}
	frac := (t - cur.Time) / (next.Time - cur.Time)
	return Position{
		X:     lerp(cur.X, next.X, frac),
		Y:     lerp(cur.Y, next.Y, frac),
		Speed: lerp(cur.Speed, next.Speed, frac),
		Lap:   cur.Lap,
		Dist:  lerp(st.cumDist[idx], st.cumDist[idx+1], frac),
	}, true
}

// seek moves the cursor to the last index with sample.Time <= t.
// Forward movement is incremental, backward movement is a binary search.
func (st *trackState) seek(t float64) {
	samples := st.track.Samples
	if st.cursor >= 0 && samples[st.cursor].Time > t {
		st.cursor = sort.Search(len(samples), func(i int) bool {
			return samples[i].Time > t
		}) - 1
		return
	}
	for st.cursor+1 < len(samples) && samples[st.cursor+1].Time <= t {
		st.cursor++
	}
}

func accumulateDist(samples []model.TelemetrySample) []float64 {
	ret := make([]float64, len(samples))
	for i := 1; i < len(samples); i++ {
		step := math.Hypot(
			samples[i].X-samples[i-1].X,
			samples[i].Y-samples[i-1].Y)
		ret[i] = ret[i-1] + step
	}
	return ret
}

func lerp(a, b, frac float64) float64 {
	return a + (b-a)*frac
}
