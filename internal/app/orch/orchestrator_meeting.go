package orch

import (
	"time"

	"github.com/dkeye/meetsignal/internal/core"
	"github.com/dkeye/meetsignal/internal/domain"
	"github.com/rs/zerolog/log"
)

// Join binds the connection to a participant in req.MeetingID, returns the
// snapshot of the other members to the joiner and announces the joiner to
// them. participantId is not checked for uniqueness: a second join with the
// same id from another connection creates an independent record.
func (o *Orchestrator) Join(conn domain.ConnID, req JoinRequest) {
	o.mu.Lock()
	defer o.mu.Unlock()

	p, err := domain.NewParticipant(conn, req.MeetingID, req.ParticipantID, req.ParticipantName, req.IsHost)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.orch").Str("conn", string(conn)).Msg("join rejected")
		return
	}

	if prev, ok := o.Registry.Participant(conn); ok && prev.MeetingID != req.MeetingID {
		o.leave(conn)
	}

	others, created := o.Registry.Join(p)
	if created {
		appointment, _ := o.Calls.AppointmentFor(p.MeetingID)
		o.recorder().RecordMeetingCreated(domain.NewMeetingRecord(p.MeetingID, appointment, time.Now()))
	}

	o.broadcast(p.MeetingID, conn, core.TypeParticipantJoined, participantJoined{
		ParticipantID:   p.ID,
		ParticipantName: p.DisplayName,
		IsHost:          p.IsHost,
	})
	o.send(conn, core.TypeExistingParticipants, others)

	log.Info().
		Str("module", "app.orch").
		Str("conn", string(conn)).
		Str("meeting", string(p.MeetingID)).
		Str("participant", string(p.ID)).
		Int("existing", len(others)).
		Msg("join")
}

// Leave handles an explicit leave-meeting. The bound record is authoritative;
// the request fields are only logged.
func (o *Orchestrator) Leave(conn domain.ConnID, req LeaveRequest) {
	o.mu.Lock()
	defer o.mu.Unlock()
	log.Debug().
		Str("module", "app.orch").
		Str("conn", string(conn)).
		Str("meeting", string(req.MeetingID)).
		Str("participant", string(req.ParticipantID)).
		Msg("leave requested")
	o.leave(conn)
}

// leave is idempotent: an unbound connection is a no-op.
func (o *Orchestrator) leave(conn domain.ConnID) {
	p, _, ok := o.Registry.Leave(conn)
	if !ok {
		return
	}
	o.broadcast(p.MeetingID, conn, core.TypeParticipantLeft, participantLeft{
		ParticipantID:   p.ID,
		ParticipantName: p.DisplayName,
	})
}

// Chat forwards the message verbatim to the meeting, excluding the sender.
func (o *Orchestrator) Chat(conn domain.ConnID, req ChatRequest) {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := o.broadcast(req.MeetingID, conn, core.TypeChatMessage, req.Message)
	log.Debug().Str("module", "app.orch").Str("conn", string(conn)).Str("meeting", string(req.MeetingID)).Int("sent_to", n).Msg("chat")
}

// UpdateState applies a partial audio/video update from the participant
// itself and echoes the merged state to the whole meeting, sender included.
func (o *Orchestrator) UpdateState(conn domain.ConnID, req StateUpdateRequest) {
	o.mu.Lock()
	defer o.mu.Unlock()

	p, ok := o.Registry.Participant(conn)
	if !ok || p.ID != req.ParticipantID {
		log.Debug().Str("module", "app.orch").Str("conn", string(conn)).Str("participant", string(req.ParticipantID)).Msg("state update rejected")
		return
	}
	if req.IsAudioMuted != nil {
		p.IsAudioMuted = *req.IsAudioMuted
	}
	if req.IsVideoOff != nil {
		p.IsVideoOff = *req.IsVideoOff
	}
	o.broadcast(p.MeetingID, "", core.TypeParticipantStateChanged, stateOf(p))
}
