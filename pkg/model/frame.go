package model

// DriverFrame is one driver's entry in a frame snapshot.
// Screen coordinates are derived via the circuit transform.
type DriverFrame struct {
	Code     string  `json:"code"`
	Label    string  `json:"label"`
	Color    string  `json:"color"`
	ScreenX  float64 `json:"screenX"`
	ScreenY  float64 `json:"screenY"`
	Speed    float64 `json:"speed"`
	Lap      int     `json:"lap"`
	Position int     `json:"position"`
	Dist     float64 `json:"dist"` // cumulative race distance, basis of Position
}

// FrameSnapshot is what the playback controller emits once per tick.
// Drivers absent at T (gap, pit, retired) are not listed.
type FrameSnapshot struct {
	T           float64       `json:"t"`
	LeaderLap   int           `json:"leaderLap"`
	TotalLaps   int           `json:"totalLaps"`
	TrackStatus string        `json:"trackStatus"`
	Drivers     []DriverFrame `json:"drivers"` // sorted by Position
}

// PlaybackState is mutated exclusively by the playback controller.
type PlaybackState struct {
	CurrentTime float64
	Speed       float64
	Running     bool
}
