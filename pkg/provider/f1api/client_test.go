package f1api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/f1replay-go/pkg/model"
	"github.com/mpapenbr/f1replay-go/pkg/provider"
)

const scheduleJSON = `{
  "rounds": [
    {"round": 1, "name": "Bahrain Grand Prix", "country": "Bahrain", "hasSprint": false},
    {"round": 5, "name": "Chinese Grand Prix", "country": "China", "hasSprint": true},
    {"round": 6, "name": "Miami Grand Prix", "country": "USA", "hasSprint": true}
  ]
}`

const sessionJSON = `{
  "event": {"year": 2024, "round": 1, "name": "Bahrain Grand Prix",
            "kind": "R", "totalLaps": 57},
  "drivers": [
    {"code": "VER", "name": "Max Verstappen", "number": "1", "color": "#3671C6"},
    {"code": "SAR", "name": "Logan Sargeant", "number": "2", "color": "#64C4FF"}
  ],
  "trackStatuses": [
    {"status": "1", "startTime": 0, "endTime": -1}
  ]
}`

const telemetryJSON = `{
  "samples": [
    {"t": 0, "x": 100, "y": 200, "speed": 280, "lap": 1},
    {"t": 0.04, "x": 103, "y": 201, "speed": 281, "lap": 1}
  ]
}`

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/2024/schedule.json",
		func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(scheduleJSON))
		})
	mux.HandleFunc("/2024/1/R/session.json",
		func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(sessionJSON))
		})
	mux.HandleFunc("/2024/1/R/telemetry/VER.json",
		func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(telemetryJSON))
		})
	// no route for SAR: his telemetry request yields 404
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FetchSession(t *testing.T) {
	srv := testServer(t)
	client := NewClient(srv.URL)

	data, err := client.FetchSession(context.Background(), 2024, 1, model.KindRace)
	assert.NoError(t, err)
	assert.Equal(t, "Bahrain Grand Prix", data.Event.Name)
	assert.Equal(t, 57, data.Event.TotalLaps)
	assert.Len(t, data.Drivers, 2)
	assert.Len(t, data.TrackStatuses, 1)

	// VER has samples, SAR stays on the roster without telemetry
	assert.Len(t, data.Telemetry["VER"], 2)
	assert.InDelta(t, 0.04, data.Telemetry["VER"][1].T, 1e-9)
	assert.NotContains(t, data.Telemetry, "SAR")
}

func TestClient_FetchSessionNotFound(t *testing.T) {
	srv := testServer(t)
	client := NewClient(srv.URL)

	_, err := client.FetchSession(context.Background(), 2024, 999, model.KindRace)
	assert.ErrorIs(t, err, provider.ErrSessionNotFound)
}

func TestClient_ListRounds(t *testing.T) {
	srv := testServer(t)
	client := NewClient(srv.URL)

	rounds, err := client.ListRounds(context.Background(), 2024)
	assert.NoError(t, err)
	assert.Len(t, rounds, 3)
	assert.Equal(t, "Bahrain Grand Prix", rounds[0].Name)
}

func TestClient_ListSprints(t *testing.T) {
	srv := testServer(t)
	client := NewClient(srv.URL)

	sprints, err := client.ListSprints(context.Background(), 2024)
	assert.NoError(t, err)
	assert.Len(t, sprints, 2)
	assert.Equal(t, 5, sprints[0].Round)
	assert.Equal(t, 6, sprints[1].Round)
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
	defer srv.Close()
	client := NewClient(srv.URL)

	_, err := client.ListRounds(context.Background(), 2024)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, provider.ErrSessionNotFound)
}
