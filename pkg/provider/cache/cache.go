package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ohler55/ojg/oj"
	_ "modernc.org/sqlite" // database/sql driver

	"github.com/mpapenbr/f1replay-go/log"
	"github.com/mpapenbr/f1replay-go/pkg/model"
	"github.com/mpapenbr/f1replay-go/pkg/provider"
)

const schema = `
CREATE TABLE IF NOT EXISTS session_data (
	year    INTEGER NOT NULL,
	round   INTEGER NOT NULL,
	kind    TEXT    NOT NULL,
	payload BLOB    NOT NULL,
	PRIMARY KEY (year, round, kind)
);`

// Store is a read-through cache around a Provider. Fetched sessions are
// kept in a local sqlite file so later runs skip the network entirely.
type Store struct {
	delegate provider.Provider
	db       *sql.DB
	refresh  bool
	l        *log.Logger
}

type Option func(*Store)

// WithRefresh forces a refetch even when a cached payload exists.
func WithRefresh(refresh bool) Option {
	return func(s *Store) {
		s.refresh = refresh
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.l = l
	}
}

func NewStore(file string, delegate provider.Provider, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", file, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}
	ret := &Store{
		delegate: delegate,
		db:       db,
		l:        log.Default().Named("cache"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

//nolint:whitespace // editor/linter issue
func (s *Store) FetchSession(
	ctx context.Context, year, round int, kind model.SessionKind,
) (*provider.SessionData, error) {
	if !s.refresh {
		if data, ok := s.lookup(ctx, year, round, kind); ok {
			s.l.Info("serving session from cache",
				log.Int("year", year), log.Int("round", round),
				log.String("kind", string(kind)))
			return data, nil
		}
	}
	data, err := s.delegate.FetchSession(ctx, year, round, kind)
	if err != nil {
		return nil, err
	}
	s.store(ctx, year, round, kind, data)
	return data, nil
}

func (s *Store) ListRounds(ctx context.Context, year int) ([]model.RoundInfo, error) {
	return s.delegate.ListRounds(ctx, year)
}

func (s *Store) ListSprints(ctx context.Context, year int) ([]model.RoundInfo, error) {
	return s.delegate.ListSprints(ctx, year)
}

//nolint:whitespace // editor/linter issue
func (s *Store) lookup(
	ctx context.Context, year, round int, kind model.SessionKind,
) (*provider.SessionData, bool) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM session_data WHERE year=? AND round=? AND kind=?",
		year, round, string(kind)).Scan(&payload)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.l.Warn("cache lookup failed", log.ErrorField(err))
		}
		return nil, false
	}
	var data provider.SessionData
	if err := oj.Unmarshal(payload, &data); err != nil {
		s.l.Warn("discarding corrupt cache entry", log.ErrorField(err))
		return nil, false
	}
	return &data, true
}

//nolint:whitespace // editor/linter issue
func (s *Store) store(
	ctx context.Context, year, round int, kind model.SessionKind,
	data *provider.SessionData,
) {
	payload := []byte(oj.JSON(data))
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO session_data (year, round, kind, payload) "+
			"VALUES (?,?,?,?)",
		year, round, string(kind), payload)
	if err != nil {
		// cache failures must never fail the load
		s.l.Warn("could not store session in cache", log.ErrorField(err))
		return
	}
	s.l.Debug("session cached",
		log.Int("year", year), log.Int("round", round),
		log.String("kind", string(kind)), log.Int("bytes", len(payload)))
}
