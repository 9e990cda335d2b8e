package term

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mpapenbr/f1replay-go/pkg/model"
)

// Renderer draws frame snapshots onto an ANSI terminal. The circuit is
// rasterized once into a base grid; every frame copies that grid and
// places the cars on top. Screen coordinates arrive already in cell
// units via the circuit transform.
type Renderer struct {
	out    io.Writer
	width  int
	height int
	base   [][]rune
	geo    *model.CircuitGeometry
	event  model.EventInfo
	speed  float64
	first  bool
}

type Option func(*Renderer)

func WithOutput(w io.Writer) Option {
	return func(r *Renderer) {
		r.out = w
	}
}

func WithEvent(event model.EventInfo) Option {
	return func(r *Renderer) {
		r.event = event
	}
}

// SetEvent attaches the event metadata once the session is loaded.
func (r *Renderer) SetEvent(event model.EventInfo) {
	r.event = event
}

func WithSpeed(speed float64) Option {
	return func(r *Renderer) {
		r.speed = speed
	}
}

func NewRenderer(width, height int, opts ...Option) *Renderer {
	ret := &Renderer{
		out:    os.Stdout,
		width:  width,
		height: height,
		speed:  1.0,
		first:  true,
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (r *Renderer) DrawCircuit(geo *model.CircuitGeometry) error {
	r.geo = geo
	r.base = make([][]rune, r.height)
	for i := range r.base {
		r.base[i] = make([]rune, r.width)
		for j := range r.base[i] {
			r.base[i][j] = ' '
		}
	}
	tr := geo.Transform
	prevX, prevY := tr.Apply(geo.Outline[0].X, geo.Outline[0].Y)
	for _, p := range geo.Outline[1:] {
		sx, sy := tr.Apply(p.X, p.Y)
		r.line(prevX, prevY, sx, sy)
		prevX, prevY = sx, sy
	}
	return nil
}

func (r *Renderer) DrawFrame(frame *model.FrameSnapshot) error {
	if r.base == nil {
		return fmt.Errorf("no circuit drawn yet")
	}
	var b strings.Builder
	if r.first {
		b.WriteString("\x1b[2J\x1b[?25l") // clear, hide cursor
		r.first = false
	}
	b.WriteString("\x1b[H")

	lap := frame.LeaderLap
	header := fmt.Sprintf("Lap %d", lap)
	if frame.TotalLaps > 0 {
		header = fmt.Sprintf("Lap %d/%d", lap, frame.TotalLaps)
	}
	fmt.Fprintf(&b, "%s  |  %s  %s (x%.1f)", r.event.Name, header,
		formatClock(frame.T), r.speed)
	if frame.TrackStatus != "" && frame.TrackStatus != "1" {
		fmt.Fprintf(&b, "  [status %s]", frame.TrackStatus)
	}
	b.WriteString("\x1b[K\r\n")

	grid := make([][]rune, len(r.base))
	colors := make(map[[2]int]string, len(frame.Drivers))
	for i := range r.base {
		grid[i] = append([]rune(nil), r.base[i]...)
	}
	for _, d := range frame.Drivers {
		col, row := r.cell(d.ScreenX, d.ScreenY)
		if row < 0 || row >= r.height || col < 0 || col >= r.width {
			continue
		}
		grid[row][col] = '●'
		colors[[2]int{row, col}] = d.Color
	}
	for row := range grid {
		for col, ch := range grid[row] {
			if c, ok := colors[[2]int{row, col}]; ok {
				b.WriteString(ansiColor(c))
				b.WriteRune(ch)
				b.WriteString("\x1b[0m")
			} else {
				b.WriteRune(ch)
			}
		}
		b.WriteString("\x1b[K\r\n")
	}

	// leaderboard, one line, leader first
	var lb strings.Builder
	for i, d := range frame.Drivers {
		if i >= 10 {
			fmt.Fprintf(&lb, " +%d", len(frame.Drivers)-i)
			break
		}
		fmt.Fprintf(&lb, " %d.%s", d.Position, d.Label)
	}
	b.WriteString(lb.String())
	b.WriteString("\x1b[K")

	_, err := io.WriteString(r.out, b.String())
	return err
}

func (r *Renderer) Close() error {
	_, err := io.WriteString(r.out, "\x1b[0m\x1b[?25h\r\n")
	return err
}

// cell converts transform output (y up) to grid coordinates (row down).
func (r *Renderer) cell(sx, sy float64) (col, row int) {
	return int(math.Round(sx)), r.height - 1 - int(math.Round(sy))
}

func (r *Renderer) line(x0, y0, x1, y1 float64) {
	steps := int(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))) + 1
	for i := 0; i <= steps; i++ {
		frac := float64(i) / float64(steps)
		col, row := r.cell(x0+(x1-x0)*frac, y0+(y1-y0)*frac)
		if row >= 0 && row < r.height && col >= 0 && col < r.width {
			r.base[row][col] = '·'
		}
	}
}

func formatClock(t float64) string {
	secs := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}

// ansiColor converts #rrggbb to a 24-bit foreground escape. Falls back
// to plain white on malformed input.
func ansiColor(hex string) string {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return "\x1b[37m"
	}
	rv, err1 := strconv.ParseUint(hex[0:2], 16, 8)
	gv, err2 := strconv.ParseUint(hex[2:4], 16, 8)
	bv, err3 := strconv.ParseUint(hex[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return "\x1b[37m"
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", rv, gv, bv)
}
