// pkg/eventstore/eventstore.go

// Package eventstore is the append-only Postgres journal the club services
// write their domain events to. The in-memory ledger stays authoritative;
// the journal is the audit trail.
package eventstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrConcurrencyConflict = errors.New("concurrency conflict: version mismatch")
	ErrInvalidVersion      = errors.New("invalid version number")
)

// Record is one journaled domain event.
type Record struct {
	ID         int64           `json:"id"`
	StreamID   uuid.UUID       `json:"stream_id"`
	StreamType string          `json:"stream_type"`
	EventType  string          `json:"event_type"`
	Payload    json.RawMessage `json:"payload"`
	Version    int             `json:"version"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// Store appends and loads records with optimistic concurrency per stream.
type Store struct {
	db     *sql.DB
	tracer trace.Tracer
}

func New(db *sql.DB) *Store {
	return &Store{
		db:     db,
		tracer: otel.Tracer("clubledger/eventstore"),
	}
}

// EnsureSchema creates the journal table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS club_events (
			id BIGSERIAL PRIMARY KEY,
			stream_id UUID NOT NULL,
			stream_type TEXT NOT NULL,
			event_type TEXT NOT NULL,
			payload JSONB NOT NULL,
			version INT NOT NULL,
			recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (stream_id, version)
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Append atomically appends records to a stream, failing with
// ErrConcurrencyConflict when expectedVersion does not match the stream head.
func (s *Store) Append(ctx context.Context, streamID uuid.UUID, streamType string, expectedVersion int, records []Record) error {
	ctx, span := s.tracer.Start(ctx, "eventstore.append",
		trace.WithAttributes(
			attribute.String("stream.id", streamID.String()),
			attribute.String("stream.type", streamType),
			attribute.Int("expected.version", expectedVersion),
			attribute.Int("record.count", len(records)),
		),
	)
	defer span.End()

	if expectedVersion < 0 {
		return ErrInvalidVersion
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var currentVersion int
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(version), 0)
		FROM club_events
		WHERE stream_id = $1
	`, streamID).Scan(&currentVersion)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("query current version: %w", err)
	}

	if currentVersion != expectedVersion {
		span.SetAttributes(
			attribute.Int("actual.version", currentVersion),
			attribute.Bool("conflict.detected", true),
		)
		return ErrConcurrencyConflict
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO club_events (stream_id, stream_type, event_type, payload, version, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, record := range records {
		version := expectedVersion + i + 1

		var recordID int64
		err = stmt.QueryRowContext(
			ctx,
			streamID,
			streamType,
			record.EventType,
			record.Payload,
			version,
			time.Now().UTC(),
		).Scan(&recordID)

		if err != nil {
			// Unique constraint violation means another writer won the race.
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
				return ErrConcurrencyConflict
			}
			return fmt.Errorf("insert record %d: %w", i, err)
		}

		span.AddEvent("record.appended", trace.WithAttributes(
			attribute.Int64("record.id", recordID),
			attribute.Int("record.version", version),
			attribute.String("record.event_type", record.EventType),
		))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Load retrieves a stream's records from fromVersion on, in version order.
func (s *Store) Load(ctx context.Context, streamID uuid.UUID, fromVersion int) ([]Record, error) {
	ctx, span := s.tracer.Start(ctx, "eventstore.load",
		trace.WithAttributes(
			attribute.String("stream.id", streamID.String()),
			attribute.Int("from.version", fromVersion),
		),
	)
	defer span.End()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, stream_id, stream_type, event_type, payload, version, recorded_at
		FROM club_events
		WHERE stream_id = $1 AND version >= $2
		ORDER BY version ASC
	`, streamID, fromVersion)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var record Record
		err := rows.Scan(
			&record.ID,
			&record.StreamID,
			&record.StreamType,
			&record.EventType,
			&record.Payload,
			&record.Version,
			&record.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	span.SetAttributes(attribute.Int("records.loaded", len(records)))
	return records, nil
}

// CurrentVersion returns the latest version of a stream, 0 when empty.
func (s *Store) CurrentVersion(ctx context.Context, streamID uuid.UUID) (int, error) {
	var version int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(version), 0)
		FROM club_events
		WHERE stream_id = $1
	`, streamID).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("query version: %w", err)
	}
	return version, nil
}

// Recorder is a single-stream appender that tracks the stream version for
// its caller. It satisfies the club service's Journal interface.
type Recorder struct {
	store      *Store
	streamID   uuid.UUID
	streamType string

	mu      sync.Mutex
	version int
}

// NewRecorder opens a fresh stream of the given type.
func NewRecorder(store *Store, streamType string) *Recorder {
	return &Recorder{
		store:      store,
		streamID:   uuid.New(),
		streamType: streamType,
	}
}

// StreamID identifies the recorder's stream in the journal.
func (r *Recorder) StreamID() uuid.UUID {
	return r.streamID
}

// Append journals one event, marshalled to JSON.
func (r *Recorder) Append(ctx context.Context, eventType string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record := Record{EventType: eventType, Payload: payload}
	if err := r.store.Append(ctx, r.streamID, r.streamType, r.version, []Record{record}); err != nil {
		return err
	}
	r.version++
	return nil
}
