// pkg/eventstore/eventstore_test.go
package eventstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStore connects to the database named by TEST_DATABASE_URL, skipping the
// test when no database is reachable.
func testStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	if err := db.PingContext(context.Background()); err != nil {
		t.Skipf("database unreachable: %v", err)
	}

	store := New(db)
	require.NoError(t, store.EnsureSchema(context.Background()))
	return store
}

func TestAppendAndLoad(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	streamID := uuid.New()

	records := []Record{
		{EventType: "MemberRegistered", Payload: json.RawMessage(`{"dni": 7}`)},
		{EventType: "PaymentRecorded", Payload: json.RawMessage(`{"dni": 7, "payment_id": 1}`)},
	}
	require.NoError(t, store.Append(ctx, streamID, "club", 0, records))

	loaded, err := store.Load(ctx, streamID, 0)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "MemberRegistered", loaded[0].EventType)
	assert.Equal(t, 1, loaded[0].Version)
	assert.Equal(t, "PaymentRecorded", loaded[1].EventType)
	assert.Equal(t, 2, loaded[1].Version)

	version, err := store.CurrentVersion(ctx, streamID)
	require.NoError(t, err)
	assert.Equal(t, 2, version)
}

func TestAppendDetectsVersionConflict(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	streamID := uuid.New()

	record := []Record{{EventType: "PriceChanged", Payload: json.RawMessage(`{"category": "A"}`)}}
	require.NoError(t, store.Append(ctx, streamID, "club", 0, record))

	// A stale writer expecting the old head must be turned away.
	err := store.Append(ctx, streamID, "club", 0, record)
	assert.ErrorIs(t, err, ErrConcurrencyConflict)

	require.NoError(t, store.Append(ctx, streamID, "club", 1, record))
}

func TestAppendRejectsNegativeVersion(t *testing.T) {
	store := testStore(t)
	err := store.Append(context.Background(), uuid.New(), "club", -1, nil)
	assert.ErrorIs(t, err, ErrInvalidVersion)
}

func TestLoadFromVersion(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	streamID := uuid.New()

	var records []Record
	for _, et := range []string{"e1", "e2", "e3"} {
		records = append(records, Record{EventType: et, Payload: json.RawMessage(`{}`)})
	}
	require.NoError(t, store.Append(ctx, streamID, "club", 0, records))

	loaded, err := store.Load(ctx, streamID, 3)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "e3", loaded[0].EventType)
}

func TestRecorderSequencesEvents(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	rec := NewRecorder(store, "club")
	require.NoError(t, rec.Append(ctx, "MemberRegistered", map[string]uint64{"dni": 7}))
	require.NoError(t, rec.Append(ctx, "PaymentRecorded", map[string]uint64{"dni": 7, "payment_id": 1}))

	loaded, err := store.Load(ctx, rec.StreamID(), 0)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, 1, loaded[0].Version)
	assert.Equal(t, 2, loaded[1].Version)

	var payload map[string]uint64
	require.NoError(t, json.Unmarshal(loaded[1].Payload, &payload))
	assert.Equal(t, uint64(1), payload["payment_id"])
}
