package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/MolViz/internal/domain/session"
	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolViz/pkg/errors"
)

const (
	fieldSMILES = "smiles"
	fieldXYZ    = "xyz"
)

// SessionStore keeps each session as a hash {smiles, xyz} with a sliding TTL.
type SessionStore struct {
	client *Client
	ttl    time.Duration
	logger logging.Logger
}

var _ session.Store = (*SessionStore)(nil)

// NewSessionStore creates a SessionStore. A non-positive ttl selects
// session.DefaultTTL.
func NewSessionStore(client *Client, ttl time.Duration, log logging.Logger) *SessionStore {
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}
	return &SessionStore{client: client, ttl: ttl, logger: log}
}

// Key returns the hash key for a session id.
func (s *SessionStore) Key(id string) string {
	return s.client.KeyPrefix() + "session:" + id
}

// Get loads a session and refreshes its TTL. A missing key or a hash missing
// either field yields an empty state.
func (s *SessionStore) Get(ctx context.Context, id string) (*session.State, error) {
	if s.client.isClosed() {
		return nil, ErrClientClosed
	}
	key := s.Key(id)
	fields, err := s.client.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSessionStore, "failed to load session")
	}
	if len(fields) == 0 {
		return &session.State{}, nil
	}
	st := &session.State{SMILES: fields[fieldSMILES], XYZ: fields[fieldXYZ]}
	if !st.IsLoaded() {
		s.logger.Warn("discarding partial session", logging.String("key", key))
		return &session.State{}, nil
	}
	if err := s.client.rdb.Expire(ctx, key, s.ttl).Err(); err != nil {
		s.logger.Warn("failed to refresh session ttl", logging.String("key", key), logging.Err(err))
	}
	return st, nil
}

// Save writes both fields with one HSET inside a transaction that also sets
// the TTL.
func (s *SessionStore) Save(ctx context.Context, id string, st *session.State) error {
	if id == "" || st == nil {
		return errors.New(errors.CodeSessionStore, "session id and state are required")
	}
	if s.client.isClosed() {
		return ErrClientClosed
	}
	key := s.Key(id)
	_, err := s.client.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldSMILES, st.SMILES, fieldXYZ, st.XYZ)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return errors.Wrap(err, errors.CodeSessionStore, "failed to save session")
	}
	return nil
}

// Delete removes a session.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if s.client.isClosed() {
		return ErrClientClosed
	}
	if err := s.client.rdb.Del(ctx, s.Key(id)).Err(); err != nil {
		return errors.Wrap(err, errors.CodeSessionStore, "failed to delete session")
	}
	return nil
}

// Ping reports store health.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

//Personal.AI order the ending
