//nolint:funlen // ok for tests
package normalize

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/f1replay-go/pkg/model"
)

func sampleDriver() model.DriverIdentity {
	return model.DriverIdentity{Code: "VER", Name: "Max Verstappen", Number: "1"}
}

func TestNormalizer_Normalize(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		raw  []model.TelemetrySample
		want []model.TelemetrySample
	}{
		{
			name: "sorts by time",
			raw: []model.TelemetrySample{
				{Time: 2, X: 20, Lap: 1},
				{Time: 0, X: 0, Lap: 1},
				{Time: 1, X: 10, Lap: 1},
			},
			want: []model.TelemetrySample{
				{Time: 0, X: 0, Lap: 1},
				{Time: 1, X: 10, Lap: 1},
				{Time: 2, X: 20, Lap: 1},
			},
		},
		{
			name: "exact time collision keeps latest",
			raw: []model.TelemetrySample{
				{Time: 0, X: 0, Lap: 1},
				{Time: 1, X: 5, Lap: 1},
				{Time: 1, X: 6, Lap: 1},
			},
			want: []model.TelemetrySample{
				{Time: 0, X: 0, Lap: 1},
				{Time: 1, X: 6, Lap: 1},
			},
		},
		{
			name: "implausible jump dropped as glitch",
			raw: []model.TelemetrySample{
				{Time: 0, X: 0, Lap: 1},
				// 1000m in 1s would be 3600 km/h
				{Time: 1, X: 10000, Lap: 1},
				{Time: 2, X: 20, Lap: 1},
			},
			want: []model.TelemetrySample{
				{Time: 0, X: 0, Lap: 1},
				{Time: 2, X: 20, Lap: 1},
			},
		},
		{
			name: "jump across a declared gap is kept",
			opts: []Option{WithGapThreshold(2.0)},
			raw: []model.TelemetrySample{
				{Time: 0, X: 0, Lap: 1},
				// pit exit far away, but 5s gap: not a glitch
				{Time: 5, X: 10000, Lap: 2},
			},
			want: []model.TelemetrySample{
				{Time: 0, X: 0, Lap: 1},
				{Time: 5, X: 10000, Lap: 2},
			},
		},
		{
			name: "empty input yields empty track",
			raw:  []model.TelemetrySample{},
			want: []model.TelemetrySample{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNormalizer(tt.opts...)
			got := n.Normalize(sampleDriver(), tt.raw)
			assert.Equal(t, "VER", got.Driver.Code)
			if diff := cmp.Diff(tt.want, got.Samples); diff != "" {
				t.Errorf("samples not correct: %s", diff)
			}
		})
	}
}

func TestNormalizer_StrictlyIncreasing(t *testing.T) {
	raw := []model.TelemetrySample{
		{Time: 3, X: 30}, {Time: 1, X: 10}, {Time: 1, X: 11},
		{Time: 0, X: 0}, {Time: 2, X: 20}, {Time: 3, X: 31},
	}
	got := NewNormalizer().Normalize(sampleDriver(), raw)
	for i := 1; i < len(got.Samples); i++ {
		assert.Greater(t, got.Samples[i].Time, got.Samples[i-1].Time)
	}
}

func TestNormalizer_EmptyTrackExcludedButNotError(t *testing.T) {
	got := NewNormalizer().Normalize(sampleDriver(), nil)
	assert.True(t, got.Empty())
	_, _, ok := got.Bounds()
	assert.False(t, ok)
}

func TestNormalizer_ConfigurableThreshold(t *testing.T) {
	raw := []model.TelemetrySample{
		{Time: 0, X: 0},
		// 100 m/s = 360 km/h
		{Time: 1, X: 1000},
	}
	relaxed := NewNormalizer(WithMaxPlausibleSpeed(400)).
		Normalize(sampleDriver(), raw)
	assert.Len(t, relaxed.Samples, 2)

	strict := NewNormalizer(WithMaxPlausibleSpeed(300)).
		Normalize(sampleDriver(), raw)
	assert.Len(t, strict.Samples, 1)
}
