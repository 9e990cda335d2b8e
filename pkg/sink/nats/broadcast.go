package nats

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/ohler55/ojg/oj"

	"github.com/mpapenbr/f1replay-go/log"
	"github.com/mpapenbr/f1replay-go/pkg/model"
)

// Broadcaster publishes the replay output on NATS so other consumers
// (dashboards, recorders) can follow along. Subjects are scoped by a
// replay instance ID:
//
//	f1replay.<id>.circuit   geometry, once per load
//	f1replay.<id>.frames    one frame snapshot per tick
//	f1replay.<id>.finished  end marker
type Broadcaster struct {
	conn     *nats.Conn
	replayID string
	l        *log.Logger
}

type Option func(*Broadcaster)

func WithLogger(l *log.Logger) Option {
	return func(b *Broadcaster) {
		b.l = l
	}
}

func WithReplayID(id string) Option {
	return func(b *Broadcaster) {
		b.replayID = id
	}
}

func NewBroadcaster(url string, opts ...Option) (*Broadcaster, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS %s: %w", url, err)
	}
	ret := &Broadcaster{
		conn:     conn,
		replayID: uuid.NewString(),
		l:        log.Default().Named("nats"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	ret.l.Info("broadcasting replay", log.String("replayId", ret.replayID))
	return ret, nil
}

func (b *Broadcaster) ReplayID() string {
	return b.replayID
}

func (b *Broadcaster) DrawCircuit(geo *model.CircuitGeometry) error {
	return b.conn.Publish(b.subject("circuit"), []byte(oj.JSON(geo)))
}

func (b *Broadcaster) DrawFrame(frame *model.FrameSnapshot) error {
	return b.conn.Publish(b.subject("frames"), []byte(oj.JSON(frame)))
}

func (b *Broadcaster) Close() error {
	if err := b.conn.Publish(b.subject("finished"), []byte(b.replayID)); err != nil {
		b.l.Warn("could not publish end marker", log.ErrorField(err))
	}
	b.conn.Close()
	return nil
}

func (b *Broadcaster) subject(suffix string) string {
	return fmt.Sprintf("f1replay.%s.%s", b.replayID, suffix)
}
