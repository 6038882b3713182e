package store

import (
	"context"
	"fmt"

	"github.com/dkeye/meetsignal/internal/core"
	"github.com/dkeye/meetsignal/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS meetings (
	id             BIGSERIAL PRIMARY KEY,
	meeting_id     TEXT NOT NULL,
	appointment_id TEXT,
	date           TEXT NOT NULL,
	time           TEXT NOT NULL,
	timestamp_ms   BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS call_events (
	id             BIGSERIAL PRIMARY KEY,
	kind           TEXT NOT NULL,
	appointment_id TEXT NOT NULL,
	meeting_id     TEXT,
	doctor_name    TEXT,
	at             TIMESTAMPTZ NOT NULL
);`

type PostgresSink struct {
	pool *pgxpool.Pool
}

func NewPostgresSink(ctx context.Context, databaseURL string) (*PostgresSink, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	log.Info().Str("module", "store.postgres").Msg("connected to database")
	return &PostgresSink{pool: pool}, nil
}

func (s *PostgresSink) MeetingCreated(ctx context.Context, rec domain.MeetingRecord) error {
	query := `
		INSERT INTO meetings (meeting_id, appointment_id, date, time, timestamp_ms)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5)`
	if _, err := s.pool.Exec(ctx, query,
		string(rec.MeetingID), string(rec.AppointmentID), rec.Date, rec.Time, rec.Timestamp,
	); err != nil {
		return fmt.Errorf("insert meeting: %w", err)
	}
	return nil
}

func (s *PostgresSink) CallEvent(ctx context.Context, ev core.CallEvent) error {
	query := `
		INSERT INTO call_events (kind, appointment_id, meeting_id, doctor_name, at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)`
	if _, err := s.pool.Exec(ctx, query,
		ev.Kind, string(ev.AppointmentID), string(ev.MeetingID), ev.DoctorName, ev.At,
	); err != nil {
		return fmt.Errorf("insert call event: %w", err)
	}
	return nil
}

func (s *PostgresSink) Close() error {
	s.pool.Close()
	return nil
}
