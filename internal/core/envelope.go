package core

import "encoding/json"

// Client -> server message types.
const (
	TypeJoinMeeting            = "join-meeting"
	TypeLeaveMeeting           = "leave-meeting"
	TypeOffer                  = "offer"
	TypeAnswer                 = "answer"
	TypeICECandidate           = "ice-candidate"
	TypeChatMessage            = "chat-message"
	TypeUpdateParticipantState = "update-participant-state"
	TypeMuteParticipant        = "mute-participant"
	TypeUnmuteParticipant      = "unmute-participant"
	TypeRemoveParticipant      = "remove-participant"
	TypeStartCall              = "start-call"
	TypeCheckCallStatus        = "check-call-status"
	TypeEndCall                = "end-call"
	TypePing                   = "ping"
)

// Server -> client message types.
const (
	TypeExistingParticipants    = "existing-participants"
	TypeParticipantJoined       = "participant-joined"
	TypeParticipantLeft         = "participant-left"
	TypeParticipantStateChanged = "participant-state-changed"
	TypeMutedByHost             = "muted-by-host"
	TypeUnmutedByHost           = "unmuted-by-host"
	TypeRemovedByHost           = "removed-by-host"
	TypeCallStarted             = "call-started"
	TypeCallStartConfirmed      = "call-start-confirmed"
	TypeCallStatusResponse      = "call-status-response"
	TypeCallEnded               = "call-ended"
	TypePong                    = "pong"
)

// Envelope is the wire frame in both directions.
type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Inbound is a decoded client frame whose payload is still raw.
type Inbound struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}
