package replay

import (
	"context"
	"sort"
	"time"

	"github.com/mpapenbr/f1replay-go/log"
	"github.com/mpapenbr/f1replay-go/pkg/model"
)

type State string

const (
	StateLoading  State = "Loading"
	StateReady    State = "Ready"
	StateRunning  State = "Running"
	StatePaused   State = "Paused"
	StateFinished State = "Finished"
)

// Controller owns the replay clock. It advances current time once per
// tick by elapsed wall time times the speed multiplier, queries the
// synchronizer for every driver and emits one frame snapshot per tick
// to the registered sinks.
type Controller struct {
	loader   *Loader
	session  *Session
	sinks    []Sink
	state    State
	playback model.PlaybackState
	tMin     float64
	tMax     float64
	l        *log.Logger
}

type Option func(*Controller)

func WithSpeed(speed float64) Option {
	return func(c *Controller) {
		if speed > 0 {
			c.playback.Speed = speed
		}
	}
}

func WithSinks(sinks ...Sink) Option {
	return func(c *Controller) {
		c.sinks = append(c.sinks, sinks...)
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		c.l = l
	}
}

func NewController(loader *Loader, opts ...Option) *Controller {
	ret := &Controller{
		loader:   loader,
		state:    StateLoading,
		playback: model.PlaybackState{Speed: 1.0},
		l:        log.Default().Named("replay"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Session() *Session {
	return c.session
}

// Playback returns a copy; the controller remains the sole writer.
func (c *Controller) Playback() model.PlaybackState {
	return c.playback
}

// Load runs the loading stage and transitions Loading -> Ready. On
// failure the controller never reaches Ready and the session cannot
// start.
func (c *Controller) Load(ctx context.Context, year, round int, kind model.SessionKind) error {
	session, err := c.loader.Load(ctx, year, round, kind)
	if err != nil {
		return err
	}
	c.session = session
	c.tMin, c.tMax = session.Sync.Bounds()
	c.playback.CurrentTime = c.tMin
	for _, s := range c.sinks {
		if err := s.DrawCircuit(session.Geometry); err != nil {
			return err
		}
	}
	c.state = StateReady
	c.l.Info("session ready",
		log.String("event", session.Event.Name),
		log.Float64("tMin", c.tMin),
		log.Float64("tMax", c.tMax))
	return nil
}

// Start transitions Ready/Paused -> Running.
func (c *Controller) Start() {
	if c.state == StateReady || c.state == StatePaused {
		c.state = StateRunning
		c.playback.Running = true
	}
}

// Pause freezes the replay clock.
func (c *Controller) Pause() {
	if c.state == StateRunning {
		c.state = StatePaused
		c.playback.Running = false
	}
}

// Seek moves the replay clock, clamped to the session bounds. Works in
// any state after load; the next tick renders from the new time.
func (c *Controller) Seek(t float64) {
	if c.session == nil {
		return
	}
	if t < c.tMin {
		t = c.tMin
	}
	if t > c.tMax {
		t = c.tMax
	}
	c.playback.CurrentTime = t
	if c.state == StateFinished && t < c.tMax {
		c.state = StatePaused
		c.playback.Running = false
	}
}

// Close transitions any state directly to Finished. Modeled after the
// window close signal; no cleanup beyond releasing the session.
func (c *Controller) Close() {
	c.state = StateFinished
	c.playback.Running = false
	for _, s := range c.sinks {
		if err := s.Close(); err != nil {
			c.l.Warn("sink close failed", log.ErrorField(err))
		}
	}
	c.session = nil
}

// Tick advances the replay clock by elapsed*speed and emits the frame
// snapshot for the new time. A slow tick simply yields a larger elapsed
// value next time; advancement is proportional to wall time, not tick
// count. Returns nil when not running.
func (c *Controller) Tick(elapsed time.Duration) *model.FrameSnapshot {
	if c.state != StateRunning {
		return nil
	}
	c.playback.CurrentTime += elapsed.Seconds() * c.playback.Speed
	if c.playback.CurrentTime >= c.tMax {
		c.playback.CurrentTime = c.tMax
		c.state = StateFinished
		c.playback.Running = false
		c.l.Info("replay finished", log.Float64("t", c.tMax))
	}
	frame := c.buildFrame(c.playback.CurrentTime)
	for _, s := range c.sinks {
		if err := s.DrawFrame(frame); err != nil {
			c.l.Warn("sink rejected frame", log.ErrorField(err))
		}
	}
	return frame
}

// buildFrame queries every driver at t, maps present drivers to screen
// space and assigns race positions by cumulative covered distance.
func (c *Controller) buildFrame(t float64) *model.FrameSnapshot {
	frame := &model.FrameSnapshot{
		T:           t,
		TotalLaps:   c.session.Event.TotalLaps,
		TrackStatus: statusAt(c.session.Statuses, t),
		Drivers:     make([]model.DriverFrame, 0, len(c.session.Drivers)),
	}
	tr := c.session.Geometry.Transform
	for _, d := range c.session.Drivers {
		pos, ok := c.session.Sync.Query(d.Code, t)
		if !ok {
			// gap, pit lane or retired: omitted, not an error
			continue
		}
		sx, sy := tr.Apply(pos.X, pos.Y)
		frame.Drivers = append(frame.Drivers, model.DriverFrame{
			Code:    d.Code,
			Label:   d.Code,
			Color:   d.Color,
			ScreenX: sx,
			ScreenY: sy,
			Speed:   pos.Speed,
			Lap:     pos.Lap,
			Dist:    pos.Dist,
		})
	}
	// leader = largest race distance covered
	sort.SliceStable(frame.Drivers, func(i, j int) bool {
		return frame.Drivers[i].Dist > frame.Drivers[j].Dist
	})
	for i := range frame.Drivers {
		frame.Drivers[i].Position = i + 1
	}
	if len(frame.Drivers) > 0 {
		frame.LeaderLap = frame.Drivers[0].Lap
	}
	return frame
}

func statusAt(statuses []model.TrackStatus, t float64) string {
	for _, s := range statuses {
		if t >= s.StartTime && (s.EndTime < 0 || t < s.EndTime) {
			return s.Status
		}
	}
	return ""
}
