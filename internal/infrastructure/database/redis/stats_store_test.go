package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolViz/internal/domain/session"
	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolViz/pkg/errors"
)

func newStatsStore(t *testing.T) (*StatsStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewClient(&Config{Addr: mr.Addr(), KeyPrefix: "t:"}, logging.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewStatsStore(client, logging.NewNopLogger()), mr
}

func event(id, smiles string, atoms int) *session.VisualizedEvent {
	ev := session.NewVisualizedEvent("s1", smiles, "", atoms, atoms)
	ev.ID = id
	return ev
}

func TestStatsStore_RecordAndTop(t *testing.T) {
	store, mr := newStatsStore(t)
	ctx := context.Background()

	for i, smiles := range []string{"CCO", "c1ccccc1O", "CCO", "C", "CCO", "C"} {
		ok, err := store.Record(ctx, event(string(rune('a'+i)), smiles, 9))
		require.NoError(t, err)
		assert.True(t, ok)
	}

	top, err := store.Top(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []PopularMolecule{{SMILES: "CCO", Count: 3}, {SMILES: "C", Count: 2}}, top)

	recent, err := store.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "CCO", "C"}, recent)

	assert.Equal(t, "6", mr.HGet("t:stats:totals", "visualized"))
	assert.Equal(t, "54", mr.HGet("t:stats:totals", "atoms"))
}

func TestStatsStore_DuplicateEventSkipped(t *testing.T) {
	store, _ := newStatsStore(t)
	ctx := context.Background()

	ok, err := store.Record(ctx, event("same", "CCO", 9))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Record(ctx, event("same", "CCO", 9))
	require.NoError(t, err)
	assert.False(t, ok)

	top, err := store.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, int64(1), top[0].Count)
}

func TestStatsStore_RecentIsCapped(t *testing.T) {
	store, mr := newStatsStore(t)
	store.recentLimit = 3
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.Record(ctx, event(string(rune('a'+i)), "C", 5))
		require.NoError(t, err)
	}
	list, err := mr.List("t:stats:recent")
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestStatsStore_RejectsEmptyEvent(t *testing.T) {
	store, _ := newStatsStore(t)
	_, err := store.Record(context.Background(), &session.VisualizedEvent{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestStatsStore_NonPositiveLimits(t *testing.T) {
	store, _ := newStatsStore(t)
	top, err := store.Top(context.Background(), 0)
	assert.NoError(t, err)
	assert.Nil(t, top)
	recent, err := store.Recent(context.Background(), -1)
	assert.NoError(t, err)
	assert.Nil(t, recent)
}

//Personal.AI order the ending
