package orch

import (
	"github.com/dkeye/meetsignal/internal/core"
	"github.com/dkeye/meetsignal/internal/domain"
	"github.com/rs/zerolog/log"
)

// Relay delivers an offer, answer or ICE candidate to exactly the target's
// connection. An unbound sender or unknown target drops the message silently.
func (o *Orchestrator) Relay(kind string, conn domain.ConnID, req RelayRequest) {
	o.mu.Lock()
	defer o.mu.Unlock()

	logger := log.With().
		Str("module", "app.orch").
		Str("kind", kind).
		Str("conn", string(conn)).
		Str("to", string(req.ToParticipantID)).
		Logger()

	sender, ok := o.Registry.Participant(conn)
	if !ok {
		logger.Debug().Msg("relay dropped: sender not joined")
		return
	}
	target, ok := o.Registry.FindByParticipantID(req.ToParticipantID)
	if !ok {
		logger.Debug().Msg("relay dropped: unknown target")
		return
	}

	var payload any
	switch kind {
	case core.TypeOffer:
		payload = relayedOffer{
			FromParticipantID:   sender.ID,
			FromParticipantName: sender.DisplayName,
			Offer:               req.Offer,
		}
	case core.TypeAnswer:
		payload = relayedAnswer{FromParticipantID: sender.ID, Answer: req.Answer}
	case core.TypeICECandidate:
		payload = relayedCandidate{FromParticipantID: sender.ID, Candidate: req.Candidate}
	default:
		logger.Warn().Msg("relay dropped: unknown kind")
		return
	}

	o.send(target.ConnID, kind, payload)
	logger.Debug().Str("from", string(sender.ID)).Str("target_conn", string(target.ConnID)).Msg("relayed")
}
