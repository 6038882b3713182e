package app

import "github.com/dkeye/meetsignal/internal/domain"

type ModerationAction int

const (
	ActionMute ModerationAction = iota
	ActionUnmute
	ActionRemove
)

func (a ModerationAction) String() string {
	switch a {
	case ActionMute:
		return "mute"
	case ActionUnmute:
		return "unmute"
	case ActionRemove:
		return "remove"
	}
	return "unknown"
}

// Policy authorizes host-only actions.
type Policy interface {
	CanModerate(actor *domain.Participant, action ModerationAction) bool
}

// HostPolicy trusts the caller-supplied host flag.
type HostPolicy struct{}

func (HostPolicy) CanModerate(actor *domain.Participant, _ ModerationAction) bool {
	return actor != nil && actor.IsHost
}
