// Package store records meeting and call metadata in external systems.
// The core never waits on it: events are queued on a Dispatcher whose single
// worker writes them to the configured sinks and logs failures.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkeye/meetsignal/internal/core"
	"github.com/dkeye/meetsignal/internal/domain"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	DriverPostgres = "postgres"
	DriverKafka    = "kafka"
	DriverRedis    = "redis"
)

var ErrUnknownDriver = errors.New("unknown sink driver")

// Nop discards every event.
type Nop struct{}

func (Nop) MeetingCreated(context.Context, domain.MeetingRecord) error { return nil }
func (Nop) CallEvent(context.Context, core.CallEvent) error            { return nil }
func (Nop) Close() error                                               { return nil }

// Multi writes each event to every sink and joins their errors.
type Multi []core.EventSink

func (m Multi) MeetingCreated(ctx context.Context, rec domain.MeetingRecord) error {
	var errs []error
	for _, s := range m {
		if err := s.MeetingCreated(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) CallEvent(ctx context.Context, ev core.CallEvent) error {
	var errs []error
	for _, s := range m {
		if err := s.CallEvent(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Options selects and configures the sink backends.
type Options struct {
	Drivers     []string
	PostgresURL string
	KafkaBroker []string
	KafkaTopic  string
	RedisURL    string
	RedisPrefix string
}

// Open connects every requested backend. With no drivers it returns Nop.
func Open(ctx context.Context, opts Options) (core.EventSink, error) {
	var sinks Multi
	for _, d := range opts.Drivers {
		var (
			s   core.EventSink
			err error
		)
		switch d {
		case DriverPostgres:
			s, err = NewPostgresSink(ctx, opts.PostgresURL)
		case DriverKafka:
			s, err = NewKafkaSink(opts.KafkaBroker, opts.KafkaTopic)
		case DriverRedis:
			s, err = NewRedisSink(ctx, opts.RedisURL, opts.RedisPrefix)
		default:
			err = fmt.Errorf("%w: %q", ErrUnknownDriver, d)
		}
		if err != nil {
			_ = sinks.Close()
			return nil, fmt.Errorf("open %s sink: %w", d, err)
		}
		sinks = append(sinks, s)
	}
	if len(sinks) == 0 {
		return Nop{}, nil
	}
	return sinks, nil
}
