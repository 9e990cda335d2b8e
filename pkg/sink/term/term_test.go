package term

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/f1replay-go/pkg/model"
)

func testGeometry() *model.CircuitGeometry {
	return &model.CircuitGeometry{
		Outline: []model.Point{
			{X: 0, Y: 0}, {X: 9, Y: 0}, {X: 9, Y: 4}, {X: 0, Y: 4}, {X: 0, Y: 0},
		},
		Transform: model.IdentityTransform(),
	}
}

func TestRenderer_DrawFrameRequiresCircuit(t *testing.T) {
	r := NewRenderer(10, 5, WithOutput(&bytes.Buffer{}))
	err := r.DrawFrame(&model.FrameSnapshot{})
	assert.Error(t, err)
}

func TestRenderer_DrawFrame(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(10, 5, WithOutput(&buf),
		WithEvent(model.EventInfo{Name: "Bahrain Grand Prix"}))
	assert.NoError(t, r.DrawCircuit(testGeometry()))

	frame := &model.FrameSnapshot{
		T: 125, LeaderLap: 3, TotalLaps: 57,
		Drivers: []model.DriverFrame{
			{Code: "VER", Label: "VER", Color: "#3671C6",
				ScreenX: 5, ScreenY: 2, Position: 1},
		},
	}
	assert.NoError(t, r.DrawFrame(frame))

	out := buf.String()
	assert.Contains(t, out, "Bahrain Grand Prix")
	assert.Contains(t, out, "Lap 3/57")
	assert.Contains(t, out, "00:02:05")
	assert.Contains(t, out, "●")
	assert.Contains(t, out, "1.VER")
	// circuit edge rendered as track dots
	assert.Contains(t, out, "·")
}

func TestRenderer_OffscreenDriversSkipped(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(10, 5, WithOutput(&buf))
	assert.NoError(t, r.DrawCircuit(testGeometry()))

	frame := &model.FrameSnapshot{
		Drivers: []model.DriverFrame{
			{Code: "OCO", Label: "OCO", ScreenX: -3, ScreenY: 99, Position: 1},
		},
	}
	assert.NoError(t, r.DrawFrame(frame))
	assert.NotContains(t, buf.String(), "●")
}

func TestRenderer_LeaderboardTruncation(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(20, 5, WithOutput(&buf))
	assert.NoError(t, r.DrawCircuit(testGeometry()))

	frame := &model.FrameSnapshot{}
	for i := 0; i < 15; i++ {
		frame.Drivers = append(frame.Drivers, model.DriverFrame{
			Label: "D" + string(rune('A'+i)), Position: i + 1,
		})
	}
	assert.NoError(t, r.DrawFrame(frame))
	out := buf.String()
	assert.Contains(t, out, "10.DJ")
	assert.NotContains(t, out, "11.DK")
	assert.Contains(t, out, "+5")
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00:00", formatClock(0))
	assert.Equal(t, "00:01:05", formatClock(65.7))
	assert.Equal(t, "02:05:42", formatClock(7542))
}

func TestAnsiColor(t *testing.T) {
	assert.Equal(t, "\x1b[38;2;54;113;198m", ansiColor("#3671C6"))
	assert.Equal(t, "\x1b[38;2;255;0;0m", ansiColor("FF0000"))
	// malformed input degrades to plain white
	assert.Equal(t, "\x1b[37m", ansiColor("red"))
	assert.Equal(t, "\x1b[37m", ansiColor("#zzzzzz"))
}

func TestRenderer_ClearOnlyOnFirstFrame(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(10, 5, WithOutput(&buf))
	assert.NoError(t, r.DrawCircuit(testGeometry()))
	assert.NoError(t, r.DrawFrame(&model.FrameSnapshot{}))
	assert.NoError(t, r.DrawFrame(&model.FrameSnapshot{}))
	assert.Equal(t, 1, strings.Count(buf.String(), "\x1b[2J"))
}
