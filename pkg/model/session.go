package model

// SessionKind identifies the session segment of a race weekend.
type SessionKind string

const (
	KindRace             SessionKind = "R"
	KindSprint           SessionKind = "S"
	KindQualifying       SessionKind = "Q"
	KindSprintQualifying SessionKind = "SQ"
	KindPractice         SessionKind = "P"
)

func (k SessionKind) DisplayName() string {
	switch k {
	case KindRace:
		return "Race"
	case KindSprint:
		return "Sprint"
	case KindQualifying:
		return "Qualifying"
	case KindSprintQualifying:
		return "Sprint Qualifying"
	case KindPractice:
		return "Practice"
	}
	return string(k)
}

// EventInfo describes the loaded session.
type EventInfo struct {
	Year            int         `json:"year"`
	Round           int         `json:"round"`
	Name            string      `json:"name"`
	Kind            SessionKind `json:"kind"`
	TotalLaps       int         `json:"totalLaps"`
	CircuitRotation float64     `json:"circuitRotation"` // degrees, applied about the track centre
}

// RoundInfo is one entry of the season schedule.
type RoundInfo struct {
	Round     int    `json:"round"`
	Name      string `json:"name"`
	Country   string `json:"country"`
	HasSprint bool   `json:"hasSprint"`
}

// TrackStatus covers one interval of the session.
// EndTime < 0 means the status was still active at session end.
type TrackStatus struct {
	Status    string  `json:"status"`
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
}
