package store

import (
	"context"
	"sync"
	"time"

	"github.com/dkeye/meetsignal/internal/core"
	"github.com/dkeye/meetsignal/internal/domain"
	"github.com/rs/zerolog/log"
)

type job struct {
	meeting *domain.MeetingRecord
	call    *core.CallEvent
}

// Dispatcher queues sink writes so callers never block on I/O.
// It implements core.EventRecorder.
type Dispatcher struct {
	sink    core.EventSink
	timeout time.Duration
	queue   chan job

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(sink core.EventSink, queueSize int, timeout time.Duration) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	d := &Dispatcher{
		sink:    sink,
		timeout: timeout,
		queue:   make(chan job, queueSize),
		done:    make(chan struct{}),
	}
	go d.run()
	return d
}

// RecordMeetingCreated enqueues the record; false means it was dropped.
func (d *Dispatcher) RecordMeetingCreated(rec domain.MeetingRecord) bool {
	return d.enqueue(job{meeting: &rec})
}

// RecordCall enqueues the call event; false means it was dropped.
func (d *Dispatcher) RecordCall(ev core.CallEvent) bool {
	return d.enqueue(job{call: &ev})
}

func (d *Dispatcher) enqueue(j job) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}
	select {
	case d.queue <- j:
		return true
	default:
		log.Warn().Str("module", "store").Msg("sink queue full, event dropped")
		return false
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for j := range d.queue {
		d.write(j)
	}
}

func (d *Dispatcher) write(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	switch {
	case j.meeting != nil:
		if err := d.sink.MeetingCreated(ctx, *j.meeting); err != nil {
			log.Error().Err(err).Str("module", "store").Str("meeting", string(j.meeting.MeetingID)).Msg("store meeting failed")
			return
		}
		log.Info().Str("module", "store").Str("meeting", string(j.meeting.MeetingID)).Str("appointment", string(j.meeting.AppointmentID)).Msg("meeting stored")
	case j.call != nil:
		if err := d.sink.CallEvent(ctx, *j.call); err != nil {
			log.Error().Err(err).Str("module", "store").Str("appointment", string(j.call.AppointmentID)).Str("kind", j.call.Kind).Msg("store call event failed")
			return
		}
		log.Debug().Str("module", "store").Str("appointment", string(j.call.AppointmentID)).Str("kind", j.call.Kind).Msg("call event stored")
	}
}

// Close stops accepting events, drains the queue and closes the sink.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	<-d.done
	return d.sink.Close()
}
