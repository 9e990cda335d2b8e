package replay

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/f1replay-go/log"
	"github.com/mpapenbr/f1replay-go/pkg/config"
	"github.com/mpapenbr/f1replay-go/pkg/model"
	"github.com/mpapenbr/f1replay-go/pkg/processing/normalize"
	"github.com/mpapenbr/f1replay-go/pkg/provider/cache"
	"github.com/mpapenbr/f1replay-go/pkg/provider/f1api"
	"github.com/mpapenbr/f1replay-go/pkg/replay"
	natssink "github.com/mpapenbr/f1replay-go/pkg/sink/nats"
	"github.com/mpapenbr/f1replay-go/pkg/sink/term"
)

var (
	sprint     bool
	qualifying bool
)

//nolint:funlen // by design
func NewReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "replays a session as a 2D animation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&config.Year, "year", 2024,
		"season year")
	cmd.Flags().IntVar(&config.Round, "round", 1,
		"round number within the season")
	cmd.Flags().BoolVar(&sprint, "sprint", false,
		"load the Sprint session")
	cmd.Flags().BoolVar(&qualifying, "qualifying", false,
		"load the Qualifying session")
	cmd.Flags().Float64Var(&config.Speed, "speed", 1.0,
		"playback speed multiplier")
	cmd.Flags().IntVar(&config.FPS, "fps", 25,
		"target frames per second")
	cmd.Flags().BoolVar(&config.RefreshData, "refresh-data", false,
		"bypass the local cache and refetch telemetry")
	cmd.Flags().Float64Var(&config.MaxPlausibleKph, "max-plausible-speed", 400,
		"position jumps implying a higher km/h value are dropped as glitches")
	cmd.Flags().Float64Var(&config.GapThresholdSecs, "gap-threshold", 2.0,
		"sample gaps larger than this many seconds are kept as declared gaps")
	cmd.Flags().IntVar(&config.ScreenWidth, "width", 100,
		"viewport width in terminal cells")
	cmd.Flags().IntVar(&config.ScreenHeight, "height", 35,
		"viewport height in terminal cells")
	cmd.Flags().IntVar(&config.ScreenMargin, "margin", 2,
		"margin around the circuit in terminal cells")
	cmd.Flags().BoolVar(&config.Broadcast, "broadcast", false,
		"publish frame snapshots via NATS")
	cmd.Flags().StringVar(&config.NatsURL, "nats-url", "nats://localhost:4222",
		"NATS server URL for broadcasting")
	return cmd
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

func setupLogger() *log.Logger {
	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel))
	default:
		logger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel))
	}
	log.ResetDefault(logger)
	return logger
}

func newNormalizer(logger *log.Logger) *normalize.Normalizer {
	return normalize.NewNormalizer(
		normalize.WithMaxPlausibleSpeed(config.MaxPlausibleKph),
		normalize.WithGapThreshold(config.GapThresholdSecs),
		normalize.WithLogger(logger.Named("normalize")))
}

func sessionKind() model.SessionKind {
	switch {
	case sprint && qualifying:
		return model.KindSprintQualifying
	case sprint:
		return model.KindSprint
	case qualifying:
		return model.KindQualifying
	}
	return model.KindRace
}

//nolint:funlen // by design
func runReplay(ctx context.Context) error {
	logger := setupLogger()

	apiClient := f1api.NewClient(config.APIUrl,
		f1api.WithLogger(logger.Named("f1api")))
	store, err := cache.NewStore(config.CacheFile, apiClient,
		cache.WithRefresh(config.RefreshData),
		cache.WithLogger(logger.Named("cache")))
	if err != nil {
		return err
	}
	defer store.Close()

	kind := sessionKind()
	log.Info("loading session",
		log.Int("year", config.Year),
		log.Int("round", config.Round),
		log.String("kind", kind.DisplayName()))

	loader := replay.NewLoader(store,
		replay.WithNormalizer(newNormalizer(logger)),
		replay.WithViewport(
			float64(config.ScreenWidth),
			float64(config.ScreenHeight),
			float64(config.ScreenMargin)),
		replay.WithLoaderLogger(logger.Named("loader")))

	renderer := term.NewRenderer(config.ScreenWidth, config.ScreenHeight,
		term.WithSpeed(config.Speed))
	sinks := []replay.Sink{renderer}
	if config.Broadcast {
		bcst, bErr := natssink.NewBroadcaster(config.NatsURL,
			natssink.WithLogger(logger.Named("nats")))
		if bErr != nil {
			return bErr
		}
		sinks = append(sinks, bcst)
	}

	controller := replay.NewController(loader,
		replay.WithSpeed(config.Speed),
		replay.WithSinks(sinks...),
		replay.WithLogger(logger.Named("replay")))

	if err := controller.Load(ctx, config.Year, config.Round, kind); err != nil {
		log.Error("session load failed", log.ErrorField(err))
		return err
	}
	if session := controller.Session(); session != nil {
		renderer.SetEvent(session.Event)
	}

	return runTickLoop(controller)
}

// runTickLoop drives the controller from wall clock ticks. The loop is
// the sole driver of time advancement; Ctrl-C acts as the window close
// signal. After a natural finish the last frame stays rendered until
// the user quits.
func runTickLoop(controller *replay.Controller) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ticker := time.NewTicker(time.Second / time.Duration(config.FPS))
	defer ticker.Stop()

	controller.Start()
	last := time.Now()
	for {
		select {
		case <-sigChan:
			controller.Close()
			return nil
		case now := <-ticker.C:
			controller.Tick(now.Sub(last))
			last = now
			if controller.State() == replay.StateFinished {
				<-sigChan
				controller.Close()
				return nil
			}
		}
	}
}
