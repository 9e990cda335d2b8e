package timeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/f1replay-go/pkg/model"
)

func track(code string, samples ...model.TelemetrySample) *model.DriverTrack {
	return &model.DriverTrack{
		Driver:  model.DriverIdentity{Code: code},
		Samples: samples,
	}
}

func TestSynchronizer_Interpolation(t *testing.T) {
	s := NewSynchronizer([]*model.DriverTrack{
		track("VER",
			model.TelemetrySample{Time: 0, X: 0, Y: 0, Speed: 100, Lap: 1},
			model.TelemetrySample{Time: 2, X: 10, Y: 20, Speed: 200, Lap: 1},
			model.TelemetrySample{Time: 4, X: 20, Y: 40, Speed: 300, Lap: 2},
		),
	})

	pos, ok := s.Query("VER", 1)
	assert.True(t, ok)
	assert.InDelta(t, 5.0, pos.X, 1e-9)
	assert.InDelta(t, 10.0, pos.Y, 1e-9)
	assert.InDelta(t, 150.0, pos.Speed, 1e-9)
	assert.Equal(t, 1, pos.Lap)
	assert.InDelta(t, math.Hypot(10, 20)/2, pos.Dist, 1e-9)

	// exact sample hit
	pos, ok = s.Query("VER", 2)
	assert.True(t, ok)
	assert.InDelta(t, 10.0, pos.X, 1e-9)

	// lap number comes from the left bracket
	pos, ok = s.Query("VER", 3)
	assert.True(t, ok)
	assert.Equal(t, 1, pos.Lap)
}

func TestSynchronizer_Absence(t *testing.T) {
	s := NewSynchronizer([]*model.DriverTrack{
		track("NOR",
			model.TelemetrySample{Time: 2, X: 0},
			model.TelemetrySample{Time: 3, X: 10},
			// 5s hole before the next sample
			model.TelemetrySample{Time: 8, X: 20},
			model.TelemetrySample{Time: 9, X: 30},
		),
	}, WithGapThreshold(2.0))

	tests := []struct {
		name    string
		t       float64
		present bool
	}{
		{name: "before first sample", t: 1.5, present: false},
		{name: "at first sample", t: 2, present: true},
		{name: "inside declared gap", t: 5, present: false},
		{name: "after gap ends", t: 8.5, present: true},
		{name: "at last sample", t: 9, present: true},
		{name: "after last sample", t: 9.5, present: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := s.Query("NOR", tt.t)
			assert.Equal(t, tt.present, ok)
		})
	}
}

func TestSynchronizer_GapAtThresholdInterpolates(t *testing.T) {
	s := NewSynchronizer([]*model.DriverTrack{
		track("HAM",
			model.TelemetrySample{Time: 0, X: 0},
			model.TelemetrySample{Time: 2, X: 20},
		),
	}, WithGapThreshold(2.0))

	// gaps must exceed the threshold to count as absence
	pos, ok := s.Query("HAM", 1)
	assert.True(t, ok)
	assert.InDelta(t, 10.0, pos.X, 1e-9)
}

func TestSynchronizer_TwoDriversOneMissing(t *testing.T) {
	regular := func(code string, skipFrom, skipTo float64) *model.DriverTrack {
		ret := track(code)
		for ts := 0.0; ts <= 10; ts++ {
			if ts > skipFrom && ts < skipTo {
				continue
			}
			ret.Samples = append(ret.Samples,
				model.TelemetrySample{Time: ts, X: ts * 10, Lap: 1})
		}
		return ret
	}
	s := NewSynchronizer([]*model.DriverTrack{
		regular("VER", -1, -1),
		// missing samples between t=4 and t=7
		regular("PER", 4, 7),
	}, WithGapThreshold(2.0))

	pos, ok := s.Query("VER", 5)
	assert.True(t, ok)
	assert.InDelta(t, 50.0, pos.X, 1e-9)

	_, ok = s.Query("PER", 5)
	assert.False(t, ok)

	// both present again once PER reappears
	_, ok = s.Query("PER", 7.5)
	assert.True(t, ok)
}

func TestSynchronizer_BackwardSeek(t *testing.T) {
	s := NewSynchronizer([]*model.DriverTrack{
		track("LEC",
			model.TelemetrySample{Time: 0, X: 0},
			model.TelemetrySample{Time: 1, X: 10},
			model.TelemetrySample{Time: 2, X: 20},
			model.TelemetrySample{Time: 3, X: 30},
		),
	})

	pos, ok := s.Query("LEC", 2.5)
	assert.True(t, ok)
	assert.InDelta(t, 25.0, pos.X, 1e-9)

	// seeking backwards must yield the same result as a fresh query
	pos, ok = s.Query("LEC", 0.5)
	assert.True(t, ok)
	assert.InDelta(t, 5.0, pos.X, 1e-9)
}

func TestSynchronizer_UnknownAndEmpty(t *testing.T) {
	s := NewSynchronizer([]*model.DriverTrack{
		track("OCO"),
		track("GAS", model.TelemetrySample{Time: 1, X: 1}),
	})

	_, ok := s.Query("XXX", 1)
	assert.False(t, ok)
	_, ok = s.Query("OCO", 1)
	assert.False(t, ok)

	tMin, tMax := s.Bounds()
	assert.InDelta(t, 1.0, tMin, 1e-9)
	assert.InDelta(t, 1.0, tMax, 1e-9)
}

func TestSynchronizer_BoundsUnion(t *testing.T) {
	s := NewSynchronizer([]*model.DriverTrack{
		track("ALO",
			model.TelemetrySample{Time: 5, X: 0},
			model.TelemetrySample{Time: 20, X: 0}),
		track("STR",
			model.TelemetrySample{Time: 2, X: 0},
			model.TelemetrySample{Time: 12, X: 0}),
	})
	tMin, tMax := s.Bounds()
	assert.InDelta(t, 2.0, tMin, 1e-9)
	assert.InDelta(t, 20.0, tMax, 1e-9)
}
