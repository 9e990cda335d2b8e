package replay

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/mpapenbr/f1replay-go/log"
	"github.com/mpapenbr/f1replay-go/pkg/model"
	"github.com/mpapenbr/f1replay-go/pkg/processing/geometry"
	"github.com/mpapenbr/f1replay-go/pkg/processing/normalize"
	"github.com/mpapenbr/f1replay-go/pkg/processing/timeline"
	"github.com/mpapenbr/f1replay-go/pkg/provider"
)

// Session is the fully prepared result of the loading stage. All fields
// are read-only once Load returns.
type Session struct {
	Event    model.EventInfo
	Drivers  []model.DriverIdentity
	Tracks   []*model.DriverTrack
	Statuses []model.TrackStatus
	Geometry *model.CircuitGeometry
	Sync     *timeline.Synchronizer
}

// Loader performs the Loading stage: fetch, normalize, build geometry,
// build the synchronizer. This is the only place where network latency
// is tolerated; failures here are fatal to load.
type Loader struct {
	provider   provider.Provider
	normalizer *normalize.Normalizer
	viewportW  float64
	viewportH  float64
	margin     float64
	l          *log.Logger
}

type LoaderOption func(*Loader)

func WithNormalizer(n *normalize.Normalizer) LoaderOption {
	return func(ld *Loader) {
		ld.normalizer = n
	}
}

func WithViewport(width, height, margin float64) LoaderOption {
	return func(ld *Loader) {
		ld.viewportW = width
		ld.viewportH = height
		ld.margin = margin
	}
}

func WithLoaderLogger(l *log.Logger) LoaderOption {
	return func(ld *Loader) {
		ld.l = l
	}
}

func NewLoader(p provider.Provider, opts ...LoaderOption) *Loader {
	ret := &Loader{
		provider:   p,
		normalizer: normalize.NewNormalizer(),
		viewportW:  geometry.DefaultViewportWidth,
		viewportH:  geometry.DefaultViewportHeight,
		margin:     geometry.DefaultMargin,
		l:          log.Default().Named("loader"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

//nolint:whitespace // editor/linter issue
func (ld *Loader) Load(
	ctx context.Context, year, round int, kind model.SessionKind,
) (*Session, error) {
	data, err := ld.provider.FetchSession(ctx, year, round, kind)
	if err != nil {
		return nil, fmt.Errorf("loading session %d/%d/%s: %w", year, round, kind, err)
	}
	ld.l.Info("session fetched",
		log.String("event", data.Event.Name),
		log.Int("drivers", len(data.Drivers)))

	tracks := make([]*model.DriverTrack, 0, len(data.Drivers))
	for _, d := range data.Drivers {
		raw := lo.Map(data.Telemetry[d.Code],
			func(s provider.RawSample, _ int) model.TelemetrySample {
				return model.TelemetrySample{
					Time: s.T, X: s.X, Y: s.Y, Speed: s.Speed, Lap: s.Lap,
				}
			})
		track := ld.normalizer.Normalize(d, raw)
		tracks = append(tracks, track)
	}

	builder := geometry.NewBuilder(
		geometry.WithViewport(ld.viewportW, ld.viewportH, ld.margin),
		geometry.WithRotation(data.Event.CircuitRotation),
		geometry.WithLogger(ld.l.Named("geometry")),
	)
	geo, err := builder.Build(tracks)
	if err != nil {
		return nil, fmt.Errorf("building circuit geometry: %w", err)
	}

	sync := timeline.NewSynchronizer(tracks,
		timeline.WithGapThreshold(ld.normalizer.GapThreshold()))

	return &Session{
		Event:    data.Event,
		Drivers:  data.Drivers,
		Tracks:   tracks,
		Statuses: data.TrackStatuses,
		Geometry: geo,
		Sync:     sync,
	}, nil
}
