package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/meetsignal/internal/core"
	"github.com/dkeye/meetsignal/internal/domain"
)

type memSink struct {
	mu       sync.Mutex
	meetings []domain.MeetingRecord
	calls    []core.CallEvent
	err      error
	closed   bool
	block    chan struct{}
}

func (s *memSink) MeetingCreated(_ context.Context, rec domain.MeetingRecord) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meetings = append(s.meetings, rec)
	return s.err
}

func (s *memSink) CallEvent(_ context.Context, ev core.CallEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, ev)
	return s.err
}

func (s *memSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return s.err
}

func TestMultiFansOutAndJoinsErrors(t *testing.T) {
	errA := errors.New("a down")
	a := &memSink{err: errA}
	b := &memSink{}
	m := Multi{a, b}

	rec := domain.NewMeetingRecord("ABC", "", time.Now())
	err := m.MeetingCreated(context.Background(), rec)
	if !errors.Is(err, errA) {
		t.Fatalf("err = %v, want %v", err, errA)
	}
	if len(a.meetings) != 1 || len(b.meetings) != 1 {
		t.Fatalf("not every sink got the record: %d/%d", len(a.meetings), len(b.meetings))
	}

	if err := m.CallEvent(context.Background(), core.CallEvent{Kind: core.CallEventEnded, AppointmentID: "apt"}); !errors.Is(err, errA) {
		t.Fatalf("call err = %v", err)
	}
	_ = m.Close()
	if !a.closed || !b.closed {
		t.Fatalf("Close did not reach every sink")
	}
}

func TestOpen(t *testing.T) {
	s, err := Open(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := s.(Nop); !ok {
		t.Fatalf("Open with no drivers = %T, want Nop", s)
	}

	_, err = Open(context.Background(), Options{Drivers: []string{"carrier-pigeon"}})
	if !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("err = %v, want ErrUnknownDriver", err)
	}

	_, err = Open(context.Background(), Options{Drivers: []string{DriverKafka}})
	if err == nil {
		t.Fatalf("kafka without brokers opened")
	}
}

func TestDispatcherDeliversAndDrainsOnClose(t *testing.T) {
	sink := &memSink{}
	d := NewDispatcher(sink, 8, time.Second)

	if !d.RecordMeetingCreated(domain.NewMeetingRecord("ABC", "apt", time.Now())) {
		t.Fatalf("meeting record dropped")
	}
	if !d.RecordCall(core.CallEvent{Kind: core.CallEventStarted, AppointmentID: "apt", At: time.Now()}) {
		t.Fatalf("call event dropped")
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if len(sink.meetings) != 1 || len(sink.calls) != 1 || !sink.closed {
		t.Fatalf("sink = %d meetings, %d calls, closed=%v", len(sink.meetings), len(sink.calls), sink.closed)
	}
	if d.RecordCall(core.CallEvent{Kind: core.CallEventEnded}) {
		t.Fatalf("closed dispatcher accepted an event")
	}
	if err := d.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	sink := &memSink{block: make(chan struct{})}
	d := NewDispatcher(sink, 1, time.Second)

	rec := domain.NewMeetingRecord("ABC", "", time.Now())
	// The worker takes the first job and blocks on it; the next fills the
	// queue; anything after that is dropped.
	accepted := 0
	for range 5 {
		if d.RecordMeetingCreated(rec) {
			accepted++
		}
	}
	if accepted < 1 || accepted > 2 {
		t.Fatalf("accepted = %d, want 1 or 2", accepted)
	}
	close(sink.block)
	_ = d.Close()
	if len(sink.meetings) != accepted {
		t.Fatalf("stored %d, accepted %d", len(sink.meetings), accepted)
	}
}
