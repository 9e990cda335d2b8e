package model

// TelemetrySample is one timestamped reading for one driver.
// Time is in seconds since session start, X/Y in telemetry space
// (1/10 m, fastf1 convention), Speed in km/h.
type TelemetrySample struct {
	Time  float64 `json:"t"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Speed float64 `json:"speed"`
	Lap   int     `json:"lap"`
}

type DriverIdentity struct {
	Code   string `json:"code"` // three letter abbreviation
	Name   string `json:"name"`
	Number string `json:"number"`
	Color  string `json:"color"` // #rrggbb
}

// DriverTrack owns the normalized sample sequence of one driver.
// Immutable once built; sample times are strictly increasing.
type DriverTrack struct {
	Driver  DriverIdentity
	Samples []TelemetrySample
}

func (t *DriverTrack) Empty() bool {
	return len(t.Samples) == 0
}

// Bounds returns the covered time range; ok is false for an empty track.
func (t *DriverTrack) Bounds() (tMin, tMax float64, ok bool) {
	if t.Empty() {
		return 0, 0, false
	}
	return t.Samples[0].Time, t.Samples[len(t.Samples)-1].Time, true
}
