package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/MolViz/internal/domain/session"
	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolViz/pkg/errors"
)

// Stats defaults.
const (
	DefaultRecentLimit = 50
	DefaultSeenTTL     = 24 * time.Hour
)

// PopularMolecule is one leaderboard entry.
type PopularMolecule struct {
	SMILES string `json:"smiles"`
	Count  int64  `json:"count"`
}

// StatsStore aggregates visualized events: a popularity sorted set, a capped
// list of recent SMILES and running totals. Events are deduplicated by id so
// redelivery does not double count.
type StatsStore struct {
	client      *Client
	recentLimit int64
	seenTTL     time.Duration
	logger      logging.Logger
}

// NewStatsStore creates a StatsStore with the default limits.
func NewStatsStore(client *Client, log logging.Logger) *StatsStore {
	return &StatsStore{client: client, recentLimit: DefaultRecentLimit, seenTTL: DefaultSeenTTL, logger: log}
}

func (s *StatsStore) key(name string) string { return s.client.KeyPrefix() + "stats:" + name }

// Record folds one event into the aggregates. It reports false when the
// event id was already recorded.
func (s *StatsStore) Record(ctx context.Context, ev *session.VisualizedEvent) (bool, error) {
	if ev == nil || ev.SMILES == "" {
		return false, errors.New(errors.CodeInvalidParam, "event has no SMILES")
	}
	if s.client.isClosed() {
		return false, ErrClientClosed
	}
	seenKey := ""
	if ev.ID != "" {
		seenKey = s.key("seen:" + ev.ID)
		fresh, err := s.client.rdb.SetNX(ctx, seenKey, 1, s.seenTTL).Result()
		if err != nil {
			return false, errors.Wrap(err, errors.CodeSessionStore, "failed to mark event")
		}
		if !fresh {
			s.logger.Debug("duplicate event skipped", logging.String("event_id", ev.ID))
			return false, nil
		}
	}

	_, err := s.client.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZIncrBy(ctx, s.key("popular"), 1, ev.SMILES)
		pipe.LPush(ctx, s.key("recent"), ev.SMILES)
		pipe.LTrim(ctx, s.key("recent"), 0, s.recentLimit-1)
		pipe.HIncrBy(ctx, s.key("totals"), "visualized", 1)
		pipe.HIncrBy(ctx, s.key("totals"), "atoms", int64(ev.AtomCount))
		return nil
	})
	if err != nil {
		// unmark so a retry is not mistaken for a duplicate
		if seenKey != "" {
			s.client.rdb.Del(context.WithoutCancel(ctx), seenKey)
		}
		return false, errors.Wrap(err, errors.CodeSessionStore, "failed to record event")
	}
	return true, nil
}

// Top returns the n most visualized molecules, most popular first.
func (s *StatsStore) Top(ctx context.Context, n int) ([]PopularMolecule, error) {
	if n <= 0 {
		return nil, nil
	}
	zs, err := s.client.rdb.ZRevRangeWithScores(ctx, s.key("popular"), 0, int64(n-1)).Result()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSessionStore, "failed to read leaderboard")
	}
	out := make([]PopularMolecule, 0, len(zs))
	for _, z := range zs {
		smiles, _ := z.Member.(string)
		out = append(out, PopularMolecule{SMILES: smiles, Count: int64(z.Score)})
	}
	return out, nil
}

// Recent returns up to n SMILES, newest first.
func (s *StatsStore) Recent(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	out, err := s.client.rdb.LRange(ctx, s.key("recent"), 0, int64(n-1)).Result()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSessionStore, "failed to read recent molecules")
	}
	return out, nil
}

// Ping reports store health.
func (s *StatsStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

//Personal.AI order the ending
