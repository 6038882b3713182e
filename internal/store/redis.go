package store

import (
	"context"
	"fmt"

	"github.com/dkeye/meetsignal/internal/core"
	"github.com/dkeye/meetsignal/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DefaultRedisPrefix = "healthcare:"

// RedisSink appends meeting records to a list and mirrors active calls in a
// hash so dashboards outside this process can read them.
type RedisSink struct {
	client *redis.Client
	prefix string
}

func NewRedisSink(ctx context.Context, redisURL, prefix string) (*RedisSink, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	log.Info().Str("module", "store.redis").Str("prefix", prefix).Msg("connected to Redis")
	return &RedisSink{client: client, prefix: prefix}, nil
}

func (s *RedisSink) meetingsKey() string { return s.prefix + "meetings" }
func (s *RedisSink) callsKey() string    { return s.prefix + "calls" }

func (s *RedisSink) MeetingCreated(ctx context.Context, rec domain.MeetingRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal meeting: %w", err)
	}
	return s.client.RPush(ctx, s.meetingsKey(), b).Err()
}

func (s *RedisSink) CallEvent(ctx context.Context, ev core.CallEvent) error {
	switch ev.Kind {
	case core.CallEventStarted:
		b, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal call: %w", err)
		}
		return s.client.HSet(ctx, s.callsKey(), string(ev.AppointmentID), b).Err()
	case core.CallEventEnded:
		return s.client.HDel(ctx, s.callsKey(), string(ev.AppointmentID)).Err()
	}
	return nil
}

func (s *RedisSink) Close() error {
	return s.client.Close()
}
