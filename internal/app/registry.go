package app

import (
	"slices"

	"github.com/dkeye/meetsignal/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

type directoryEntry struct {
	Participant *domain.Participant
	seq         uint64
}

// Registry is the Meeting Registry and Participant Directory.
// It is not safe for concurrent use; the orchestrator serializes every call.
//
// A connection appears in a meeting's member set iff its directory entry
// names that meeting, and a meeting with an empty member set is deleted.
type Registry struct {
	meetings  map[domain.MeetingID]*domain.Meeting
	directory map[domain.ConnID]*directoryEntry
	nextSeq   uint64
}

func NewRegistry() *Registry {
	return &Registry{
		meetings:  make(map[domain.MeetingID]*domain.Meeting),
		directory: make(map[domain.ConnID]*directoryEntry),
	}
}

// Join binds p to its connection and adds the connection to p's meeting,
// creating the meeting when unseen. The caller must have released any binding
// the connection had in a different meeting. It returns the other members of
// the meeting in join order and whether the meeting was created.
func (r *Registry) Join(p *domain.Participant) ([]domain.Participant, bool) {
	created := false
	m, ok := r.meetings[p.MeetingID]
	if !ok {
		m = domain.NewMeeting(p.MeetingID)
		r.meetings[p.MeetingID] = m
		created = true
		log.Info().Str("module", "app.registry").Str("meeting", string(p.MeetingID)).Msg("created meeting")
	}

	if e, ok := r.directory[p.ConnID]; ok && e.Participant.MeetingID == p.MeetingID {
		e.Participant = p
	} else {
		r.nextSeq++
		r.directory[p.ConnID] = &directoryEntry{Participant: p, seq: r.nextSeq}
	}
	m.Members[p.ConnID] = struct{}{}

	log.Info().
		Str("module", "app.registry").
		Str("conn", string(p.ConnID)).
		Str("meeting", string(p.MeetingID)).
		Str("participant", string(p.ID)).
		Int("members", len(m.Members)).
		Msg("participant joined")

	others := lo.Filter(r.membersOf(m), func(e *directoryEntry, _ int) bool {
		return e.Participant.ConnID != p.ConnID
	})
	return lo.Map(others, func(e *directoryEntry, _ int) domain.Participant {
		return *e.Participant
	}), created
}

// Leave unbinds the connection. It reports the removed participant and
// whether its meeting was deleted; ok is false when nothing was bound.
func (r *Registry) Leave(conn domain.ConnID) (p domain.Participant, meetingDeleted bool, ok bool) {
	e, ok := r.directory[conn]
	if !ok {
		return domain.Participant{}, false, false
	}
	delete(r.directory, conn)

	if m, exists := r.meetings[e.Participant.MeetingID]; exists {
		delete(m.Members, conn)
		if len(m.Members) == 0 {
			delete(r.meetings, m.ID)
			meetingDeleted = true
			log.Info().Str("module", "app.registry").Str("meeting", string(m.ID)).Msg("meeting ended, no participants")
		}
	}
	log.Info().
		Str("module", "app.registry").
		Str("conn", string(conn)).
		Str("meeting", string(e.Participant.MeetingID)).
		Str("participant", string(e.Participant.ID)).
		Msg("participant left")
	return *e.Participant, meetingDeleted, true
}

// Participant returns the live record bound to conn.
func (r *Registry) Participant(conn domain.ConnID) (*domain.Participant, bool) {
	e, ok := r.directory[conn]
	if !ok {
		return nil, false
	}
	return e.Participant, true
}

// FindByParticipantID scans the whole directory, not just one meeting.
// With duplicate ids the earliest bound connection wins.
// TODO: add a participantId index if meetings grow past a handful of members.
func (r *Registry) FindByParticipantID(id domain.ParticipantID) (*domain.Participant, bool) {
	var found *directoryEntry
	for _, e := range r.directory {
		if e.Participant.ID != id {
			continue
		}
		if found == nil || e.seq < found.seq {
			found = e
		}
	}
	if found == nil {
		return nil, false
	}
	return found.Participant, true
}

// Members returns the connections of a meeting in join order.
func (r *Registry) Members(id domain.MeetingID) []domain.ConnID {
	m, ok := r.meetings[id]
	if !ok {
		return nil
	}
	return lo.Map(r.membersOf(m), func(e *directoryEntry, _ int) domain.ConnID {
		return e.Participant.ConnID
	})
}

func (r *Registry) HasMeeting(id domain.MeetingID) bool {
	_, ok := r.meetings[id]
	return ok
}

func (r *Registry) MeetingCount() int     { return len(r.meetings) }
func (r *Registry) ParticipantCount() int { return len(r.directory) }

func (r *Registry) membersOf(m *domain.Meeting) []*directoryEntry {
	out := make([]*directoryEntry, 0, len(m.Members))
	for conn := range m.Members {
		if e, ok := r.directory[conn]; ok {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b *directoryEntry) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})
	return out
}
