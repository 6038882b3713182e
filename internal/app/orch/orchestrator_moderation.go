package orch

import (
	"time"

	"github.com/dkeye/meetsignal/internal/app"
	"github.com/dkeye/meetsignal/internal/core"
	"github.com/dkeye/meetsignal/internal/domain"
	"github.com/rs/zerolog/log"
)

// Moderate runs a host-only action. Requests from non-hosts, and requests
// naming an unknown target, are ignored without any reply.
func (o *Orchestrator) Moderate(conn domain.ConnID, action app.ModerationAction, req ModerationRequest) {
	o.mu.Lock()
	defer o.mu.Unlock()

	logger := log.With().
		Str("module", "app.orch").
		Str("action", action.String()).
		Str("conn", string(conn)).
		Str("target", string(req.ParticipantID)).
		Logger()

	actor, ok := o.Registry.Participant(conn)
	if !ok || !o.Policy.CanModerate(actor, action) {
		logger.Debug().Msg("moderation rejected: not a host")
		return
	}
	target, ok := o.Registry.FindByParticipantID(req.ParticipantID)
	if !ok {
		logger.Debug().Msg("moderation dropped: unknown target")
		return
	}
	logger.Info().Str("host", string(actor.ID)).Msg("moderation")

	switch action {
	case app.ActionMute, app.ActionUnmute:
		muted := action == app.ActionMute
		target.IsAudioMuted = muted
		notice := core.TypeUnmutedByHost
		if muted {
			notice = core.TypeMutedByHost
		}
		o.send(target.ConnID, notice, nil)

		meeting := req.MeetingID
		if meeting == "" {
			meeting = target.MeetingID
		}
		o.broadcast(meeting, "", core.TypeParticipantStateChanged, stateOf(target))
	case app.ActionRemove:
		o.send(target.ConnID, core.TypeRemovedByHost, nil)
		o.scheduleRemoval(target.ConnID)
	}
}

// scheduleRemoval closes the connection after the grace delay. A removal
// already pending for the connection is kept as is.
func (o *Orchestrator) scheduleRemoval(conn domain.ConnID) {
	if o.removals == nil {
		o.removals = make(map[domain.ConnID]*time.Timer)
	}
	if _, pending := o.removals[conn]; pending {
		return
	}
	o.removals[conn] = time.AfterFunc(o.RemovalGrace, func() {
		o.mu.Lock()
		delete(o.removals, conn)
		o.mu.Unlock()

		log.Info().Str("module", "app.orch").Str("conn", string(conn)).Msg("forced close after removal")
		if o.Transport != nil {
			o.Transport.Close(conn)
		}
	})
}
