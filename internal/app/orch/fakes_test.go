package orch

import (
	"sync"
	"time"

	"github.com/dkeye/meetsignal/internal/core"
	"github.com/dkeye/meetsignal/internal/domain"
)

type sent struct {
	to  domain.ConnID
	env core.Envelope
}

type fakeTransport struct {
	mu     sync.Mutex
	sent   []sent
	global []core.Envelope
	closed map[domain.ConnID]time.Time
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{closed: make(map[domain.ConnID]time.Time)}
}

func (f *fakeTransport) Send(to domain.ConnID, env core.Envelope) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sent{to: to, env: env})
}

func (f *fakeTransport) SendAll(env core.Envelope) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.global = append(f.global, env)
}

func (f *fakeTransport) Close(id domain.ConnID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed[id] = time.Now()
}

// to returns what conn received, optionally filtered by type.
func (f *fakeTransport) to(conn domain.ConnID, typ string) []core.Envelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.Envelope
	for _, s := range f.sent {
		if s.to == conn && (typ == "" || s.env.Type == typ) {
			out = append(out, s.env)
		}
	}
	return out
}

func (f *fakeTransport) ofType(typ string) []sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sent
	for _, s := range f.sent {
		if s.env.Type == typ {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakeTransport) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent) + len(f.global)
}

func (f *fakeTransport) closedAt(id domain.ConnID) (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.closed[id]
	return t, ok
}

func (f *fakeTransport) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
	f.global = nil
}

type fakeRecorder struct {
	mu       sync.Mutex
	meetings []domain.MeetingRecord
	calls    []core.CallEvent
}

func (r *fakeRecorder) RecordMeetingCreated(rec domain.MeetingRecord) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.meetings = append(r.meetings, rec)
	return true
}

func (r *fakeRecorder) RecordCall(ev core.CallEvent) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, ev)
	return true
}

func newTestOrch() (*Orchestrator, *fakeTransport, *fakeRecorder) {
	tr := newFakeTransport()
	rec := &fakeRecorder{}
	o := New(tr, rec)
	o.RemovalGrace = 50 * time.Millisecond
	return o, tr, rec
}

func join(o *Orchestrator, conn, meeting, id, name string, host bool) {
	o.Join(domain.ConnID(conn), JoinRequest{
		MeetingID:       domain.MeetingID(meeting),
		ParticipantID:   domain.ParticipantID(id),
		ParticipantName: name,
		IsHost:          host,
	})
}

func ptr[T any](v T) *T { return &v }
