package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	Year             int     // season year
	Round            int     // round number within the season
	Speed            float64 // playback speed multiplier
	FPS              int     // target frames per second for the tick loop
	LogLevel         string  // sets the log level (zap log level values)
	LogFormat        string  // text vs json
	APIUrl           string  // base URL of the telemetry data API
	CacheFile        string  // path of the local telemetry cache (sqlite)
	RefreshData      bool    // bypass the local cache and refetch telemetry
	MaxPlausibleKph  float64 // position jumps implying a higher speed are dropped as glitches
	GapThresholdSecs float64 // sample gaps larger than this are kept as declared gaps
	ScreenWidth      int     // viewport width in cells/pixels
	ScreenHeight     int     // viewport height in cells/pixels
	ScreenMargin     int     // margin around the circuit within the viewport
	Broadcast        bool    // publish frame snapshots via NATS
	NatsURL          string  // NATS server URL for broadcasting
)
