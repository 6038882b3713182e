// Package orch is the event-processing core. Every inbound event runs to
// completion, including its broadcasts, under a single lock, so registry and
// call state are never mutated concurrently.
package orch

import (
	"sync"
	"time"

	"github.com/dkeye/meetsignal/internal/app"
	"github.com/dkeye/meetsignal/internal/core"
	"github.com/dkeye/meetsignal/internal/domain"
	"github.com/rs/zerolog/log"
)

const DefaultRemovalGrace = time.Second

type Orchestrator struct {
	Registry  *app.Registry
	Calls     *app.CallTracker
	Policy    app.Policy
	Transport core.Transport
	Events    core.EventRecorder

	// RemovalGrace is the pause between removed-by-host and the forced close.
	RemovalGrace time.Duration

	mu       sync.Mutex
	removals map[domain.ConnID]*time.Timer
}

func New(transport core.Transport, events core.EventRecorder) *Orchestrator {
	return &Orchestrator{
		Registry:     app.NewRegistry(),
		Calls:        app.NewCallTracker(),
		Policy:       app.HostPolicy{},
		Transport:    transport,
		Events:       events,
		RemovalGrace: DefaultRemovalGrace,
	}
}

// Stats is the health snapshot.
type Stats struct {
	ActiveMeetings     int `json:"activeMeetings"`
	ActiveParticipants int `json:"activeParticipants"`
	ActiveCalls        int `json:"activeCalls"`
}

func (o *Orchestrator) Stats() Stats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Stats{
		ActiveMeetings:     o.Registry.MeetingCount(),
		ActiveParticipants: o.Registry.ParticipantCount(),
		ActiveCalls:        o.Calls.Count(),
	}
}

// OnDisconnect is the gateway's close hook. It cancels a pending forced
// removal and runs the same leave path as an explicit leave.
func (o *Orchestrator) OnDisconnect(conn domain.ConnID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if t, ok := o.removals[conn]; ok {
		t.Stop()
		delete(o.removals, conn)
	}
	log.Debug().Str("module", "app.orch").Str("conn", string(conn)).Msg("disconnect")
	o.leave(conn)
}

func (o *Orchestrator) send(to domain.ConnID, typ string, payload any) {
	if o.Transport == nil {
		return
	}
	o.Transport.Send(to, core.Envelope{Type: typ, Payload: payload})
}

// broadcast sends to every member of the meeting except skip ("" skips nobody).
func (o *Orchestrator) broadcast(meeting domain.MeetingID, skip domain.ConnID, typ string, payload any) int {
	n := 0
	for _, conn := range o.Registry.Members(meeting) {
		if conn == skip {
			continue
		}
		o.send(conn, typ, payload)
		n++
	}
	return n
}

func (o *Orchestrator) broadcastAll(typ string, payload any) {
	if o.Transport == nil {
		return
	}
	o.Transport.SendAll(core.Envelope{Type: typ, Payload: payload})
}

func (o *Orchestrator) recorder() core.EventRecorder {
	if o.Events == nil {
		return nopRecorder{}
	}
	return o.Events
}

type nopRecorder struct{}

func (nopRecorder) RecordMeetingCreated(domain.MeetingRecord) bool { return true }
func (nopRecorder) RecordCall(core.CallEvent) bool                 { return true }
