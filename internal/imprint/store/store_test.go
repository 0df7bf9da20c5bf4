package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdanilov/imprintbot/internal/imprint/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "imprint-test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNew_Idempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "imprint-test.db")

	s1, err := store.New(dbPath)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	// Opening the same file again must re-run schema init without error.
	s2, err := store.New(dbPath)
	require.NoError(t, err)
	defer s2.Close()

	_, _, err = s2.ResolveOrCreate(context.Background(), 1, "Alice")
	require.NoError(t, err)
}

// --- Users ---

func TestResolveOrCreate_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	token1, created, err := s.ResolveOrCreate(ctx, 100, "Alice")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, token1)

	token2, created, err := s.ResolveOrCreate(ctx, 100, "Alice Renamed")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, token1, token2)

	n, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// The display name is captured once at creation and never synced.
	u, err := s.GetUser(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)
}

func TestResolveOrCreate_DistinctTokens(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for id := int64(1); id <= 20; id++ {
		token, _, err := s.ResolveOrCreate(ctx, id, "user")
		require.NoError(t, err)
		assert.False(t, seen[token], "token %q reused", token)
		seen[token] = true
	}
}

func TestGetImprintID_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetImprintID(context.Background(), 999)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

// --- Memories ---

func TestAddMemory_TouchesLastUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, _, err := s.ResolveOrCreate(ctx, 100, "Alice")
	require.NoError(t, err)

	before, err := s.GetUser(ctx, 100)
	require.NoError(t, err)

	at := before.LastUpdate.Add(time.Hour)
	require.NoError(t, s.AddMemory(ctx, 100, "hello", store.KindText, at))

	after, err := s.GetUser(ctx, 100)
	require.NoError(t, err)
	assert.True(t, after.LastUpdate.After(before.LastUpdate),
		"last_update not refreshed: before=%v after=%v", before.LastUpdate, after.LastUpdate)
}

func TestRecentMemories_Empty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, _, err := s.ResolveOrCreate(ctx, 100, "Alice")
	require.NoError(t, err)

	memories, err := s.RecentMemories(ctx, 100, 5)
	require.NoError(t, err)
	assert.Empty(t, memories)
}

func TestRecentMemories_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, _, err := s.ResolveOrCreate(ctx, 100, "Alice")
	require.NoError(t, err)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, content := range []string{"first", "second", "third"} {
		require.NoError(t, s.AddMemory(ctx, 100, content, store.KindText, base.Add(time.Duration(i)*time.Minute)))
	}

	memories, err := s.RecentMemories(ctx, 100, 5)
	require.NoError(t, err)
	require.Len(t, memories, 3)
	assert.Equal(t, "third", memories[0].Content)
	assert.Equal(t, "second", memories[1].Content)
	assert.Equal(t, "first", memories[2].Content)
}

func TestRecentMemories_Limit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, _, err := s.ResolveOrCreate(ctx, 100, "Alice")
	require.NoError(t, err)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		content := string(rune('a' + i))
		require.NoError(t, s.AddMemory(ctx, 100, content, store.KindText, base.Add(time.Duration(i)*time.Minute)))
	}

	memories, err := s.RecentMemories(ctx, 100, 5)
	require.NoError(t, err)
	require.Len(t, memories, 5)
	// The five most recent: g, f, e, d, c.
	assert.Equal(t, "g", memories[0].Content)
	assert.Equal(t, "c", memories[4].Content)
}

func TestRecentMemories_CrossUserIsolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, _, err := s.ResolveOrCreate(ctx, 100, "Alice")
	require.NoError(t, err)
	_, _, err = s.ResolveOrCreate(ctx, 200, "Bob")
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, s.AddMemory(ctx, 100, "alice's secret", store.KindText, now))

	memories, err := s.RecentMemories(ctx, 200, 5)
	require.NoError(t, err)
	assert.Empty(t, memories)
}
