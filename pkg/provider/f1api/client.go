package f1api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ohler55/ojg/oj"
	"github.com/samber/lo"

	"github.com/mpapenbr/f1replay-go/log"
	"github.com/mpapenbr/f1replay-go/pkg/model"
	"github.com/mpapenbr/f1replay-go/pkg/provider"
)

// Client fetches session data from the telemetry HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
	l       *log.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.l = l
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	ret := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
		l:       log.Default().Named("f1api"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

type scheduleDoc struct {
	Rounds []model.RoundInfo `json:"rounds"`
}

type sessionDoc struct {
	Event         model.EventInfo        `json:"event"`
	Drivers       []model.DriverIdentity `json:"drivers"`
	TrackStatuses []model.TrackStatus    `json:"trackStatuses"`
}

type telemetryDoc struct {
	Samples []provider.RawSample `json:"samples"`
}

//nolint:whitespace // editor/linter issue
func (c *Client) FetchSession(
	ctx context.Context, year, round int, kind model.SessionKind,
) (*provider.SessionData, error) {
	var session sessionDoc
	url := fmt.Sprintf("%s/%d/%d/%s/session.json", c.baseURL, year, round, kind)
	if err := c.get(ctx, url, &session); err != nil {
		return nil, err
	}
	ret := &provider.SessionData{
		Event:         session.Event,
		Drivers:       session.Drivers,
		TrackStatuses: session.TrackStatuses,
		Telemetry:     make(map[string][]provider.RawSample, len(session.Drivers)),
	}
	for _, d := range session.Drivers {
		var tel telemetryDoc
		url := fmt.Sprintf("%s/%d/%d/%s/telemetry/%s.json",
			c.baseURL, year, round, kind, d.Code)
		if err := c.get(ctx, url, &tel); err != nil {
			// roster entry without telemetry is valid (DNS, no data recorded)
			if errors.Is(err, provider.ErrSessionNotFound) {
				c.l.Warn("no telemetry for driver", log.String("driver", d.Code))
				continue
			}
			return nil, err
		}
		c.l.Debug("fetched telemetry",
			log.String("driver", d.Code),
			log.Int("samples", len(tel.Samples)))
		ret.Telemetry[d.Code] = tel.Samples
	}
	return ret, nil
}

func (c *Client) ListRounds(ctx context.Context, year int) ([]model.RoundInfo, error) {
	var schedule scheduleDoc
	url := fmt.Sprintf("%s/%d/schedule.json", c.baseURL, year)
	if err := c.get(ctx, url, &schedule); err != nil {
		return nil, err
	}
	return schedule.Rounds, nil
}

func (c *Client) ListSprints(ctx context.Context, year int) ([]model.RoundInfo, error) {
	rounds, err := c.ListRounds(ctx, year)
	if err != nil {
		return nil, err
	}
	return lo.Filter(rounds, func(r model.RoundInfo, _ int) bool {
		return r.HasSprint
	}), nil
}

func (c *Client) get(ctx context.Context, url string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return provider.ErrSessionNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return oj.Unmarshal(data, target)
}
