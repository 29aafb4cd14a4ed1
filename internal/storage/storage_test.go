package storage

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jwebster45206/food-guardian/pkg/session"
	"github.com/jwebster45206/food-guardian/pkg/stats"
	"github.com/jwebster45206/food-guardian/pkg/story"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func testSession(t *testing.T) *session.Session {
	t.Helper()
	g, err := story.New("market", map[story.NodeID]story.Node{
		"market": {
			ScenarioText: "At the market.",
			Choices: []story.Choice{{
				AltText:  "Buy vegetables",
				NextID:   story.End,
				Effects:  map[stats.Attribute]int{stats.Health: 5, stats.Knowledge: 1},
				Feedback: "Good pick.",
			}},
		},
	})
	require.NoError(t, err)
	return session.New(g, "Lan", testLogger())
}

func setupTestRedis(t *testing.T, ttl time.Duration) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	store, err := NewRedisStorage("redis://"+mr.Addr(), ttl, testLogger())
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create redis storage: %v", err)
	}
	return store, mr
}

func exerciseStorage(t *testing.T, store Storage) {
	ctx := context.Background()
	require.NoError(t, store.Ping(ctx))

	s := testSession(t)
	_, err := s.SelectChoice(0)
	require.NoError(t, err)
	st := s.State()

	require.NoError(t, store.SaveSession(ctx, &st))

	loaded, err := store.LoadSession(ctx, st.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, st.ID, loaded.ID)
	assert.Equal(t, session.PhaseAwaitingContinue, loaded.Phase)
	assert.Equal(t, st.Stats, loaded.Stats)
	assert.Equal(t, st.History, loaded.History)
	require.NotNil(t, loaded.PendingFeedback)
	assert.Equal(t, *st.PendingFeedback, *loaded.PendingFeedback)
	require.NotNil(t, loaded.PendingNextID)
	assert.Equal(t, story.End, *loaded.PendingNextID)

	// Mutating the loaded copy does not touch the stored value.
	loaded.Stats.Health = -1
	again, err := store.LoadSession(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, st.Stats, again.Stats)

	missing, err := store.LoadSession(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, store.DeleteSession(ctx, st.ID))
	gone, err := store.LoadSession(ctx, st.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	assert.Error(t, store.SaveSession(ctx, nil))
}

func TestMemoryStorage(t *testing.T) {
	exerciseStorage(t, NewMemoryStorage())
}

func TestMemoryStorage_PingError(t *testing.T) {
	store := NewMemoryStorage()
	store.SetPingError(errors.New("down"))
	assert.Error(t, store.Ping(context.Background()))
	store.SetPingError(nil)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestRedisStorage(t *testing.T) {
	store, mr := setupTestRedis(t, time.Hour)
	defer mr.Close()
	defer store.Close()

	exerciseStorage(t, store)
}

func TestRedisStorage_TTL(t *testing.T) {
	store, mr := setupTestRedis(t, 10*time.Minute)
	defer mr.Close()
	defer store.Close()

	ctx := context.Background()
	st := testSession(t).State()
	require.NoError(t, store.SaveSession(ctx, &st))
	assert.Equal(t, 10*time.Minute, mr.TTL(sessionKey(st.ID)))

	mr.FastForward(11 * time.Minute)

	loaded, err := store.LoadSession(ctx, st.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStorage_CorruptValue(t *testing.T) {
	store, mr := setupTestRedis(t, time.Hour)
	defer mr.Close()
	defer store.Close()

	id := uuid.New()
	require.NoError(t, mr.Set(sessionKey(id), "{not json"))

	_, err := store.LoadSession(context.Background(), id)
	assert.Error(t, err)
}

func TestRedisStorage_BareAddress(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	store, err := NewRedisStorage(mr.Addr(), time.Hour, testLogger())
	require.NoError(t, err)
	defer store.Close()

	assert.NoError(t, store.Ping(context.Background()))
}

func TestRedisStorage_InvalidURL(t *testing.T) {
	_, err := NewRedisStorage("redis://host:notaport/zero", time.Hour, testLogger())
	assert.Error(t, err)
}

func TestRedisStorage_WaitForConnectionTimeout(t *testing.T) {
	store, err := NewRedisStorage("localhost:9999", time.Hour, testLogger())
	require.NoError(t, err)
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	assert.Error(t, store.WaitForConnection(ctx))
}

func TestRedisStorage_WaitForConnection(t *testing.T) {
	store, mr := setupTestRedis(t, time.Hour)
	defer mr.Close()
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.NoError(t, store.WaitForConnection(ctx))
}
