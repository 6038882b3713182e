package app

import (
	"time"

	"github.com/dkeye/meetsignal/internal/domain"
	"github.com/rs/zerolog/log"
)

// CallTracker maps appointment ids to active calls. It is independent of
// meeting membership: joins and leaves never touch it.
// Not safe for concurrent use.
type CallTracker struct {
	calls map[domain.AppointmentID]domain.Call
	now   func() time.Time
}

func NewCallTracker() *CallTracker {
	return &CallTracker{
		calls: make(map[domain.AppointmentID]domain.Call),
		now:   time.Now,
	}
}

// Start upserts the call; the last writer wins.
func (t *CallTracker) Start(id domain.AppointmentID, meeting domain.MeetingID, doctor string) domain.Call {
	c := domain.Call{
		MeetingID:  meeting,
		DoctorName: doctor,
		StartedAt:  t.now().UnixMilli(),
		Status:     domain.CallStatusActive,
	}
	t.calls[id] = c
	log.Info().Str("module", "app.calls").Str("appointment", string(id)).Str("meeting", string(meeting)).Msg("call started")
	return c
}

// End removes the call and reports whether one existed.
func (t *CallTracker) End(id domain.AppointmentID) bool {
	_, ok := t.calls[id]
	delete(t.calls, id)
	log.Info().Str("module", "app.calls").Str("appointment", string(id)).Bool("existed", ok).Msg("call ended")
	return ok
}

func (t *CallTracker) Status(id domain.AppointmentID) domain.CallStatus {
	st := domain.CallStatus{AppointmentID: id}
	if c, ok := t.calls[id]; ok {
		st.IsActive = true
		st.CallInfo = &c
	}
	return st
}

func (t *CallTracker) Count() int { return len(t.calls) }

// AppointmentFor finds an active call running in the meeting.
func (t *CallTracker) AppointmentFor(meeting domain.MeetingID) (domain.AppointmentID, bool) {
	for id, c := range t.calls {
		if c.MeetingID == meeting {
			return id, true
		}
	}
	return "", false
}
