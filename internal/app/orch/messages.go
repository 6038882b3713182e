package orch

import (
	"encoding/json"

	"github.com/dkeye/meetsignal/internal/domain"
)

// Inbound payloads. Validation tags are checked by the gateway before the
// orchestrator sees a request.

type JoinRequest struct {
	MeetingID       domain.MeetingID     `json:"meetingId" validate:"required"`
	ParticipantID   domain.ParticipantID `json:"participantId" validate:"required"`
	ParticipantName string               `json:"participantName" validate:"required"`
	IsHost          bool                 `json:"isHost"`
}

type LeaveRequest struct {
	MeetingID     domain.MeetingID     `json:"meetingId"`
	ParticipantID domain.ParticipantID `json:"participantId"`
}

// RelayRequest covers offer, answer and ice-candidate; exactly one of the
// payload fields is set depending on the kind.
type RelayRequest struct {
	MeetingID       domain.MeetingID     `json:"meetingId"`
	ToParticipantID domain.ParticipantID `json:"toParticipantId" validate:"required"`
	Offer           json.RawMessage      `json:"offer,omitempty"`
	Answer          json.RawMessage      `json:"answer,omitempty"`
	Candidate       json.RawMessage      `json:"candidate,omitempty"`
}

type ChatRequest struct {
	MeetingID domain.MeetingID `json:"meetingId" validate:"required"`
	Message   json.RawMessage  `json:"message"`
}

type StateUpdateRequest struct {
	MeetingID     domain.MeetingID     `json:"meetingId"`
	ParticipantID domain.ParticipantID `json:"participantId" validate:"required"`
	IsAudioMuted  *bool                `json:"isAudioMuted,omitempty"`
	IsVideoOff    *bool                `json:"isVideoOff,omitempty"`
}

type ModerationRequest struct {
	MeetingID     domain.MeetingID     `json:"meetingId"`
	ParticipantID domain.ParticipantID `json:"participantId" validate:"required"`
}

type StartCallRequest struct {
	AppointmentID domain.AppointmentID `json:"appointmentId" validate:"required"`
	MeetingID     domain.MeetingID     `json:"meetingId"`
	DoctorName    string               `json:"doctorName"`
}

type CallRequest struct {
	AppointmentID domain.AppointmentID `json:"appointmentId" validate:"required"`
}

// Outbound payloads.

type participantJoined struct {
	ParticipantID   domain.ParticipantID `json:"participantId"`
	ParticipantName string               `json:"participantName"`
	IsHost          bool                 `json:"isHost"`
}

type participantLeft struct {
	ParticipantID   domain.ParticipantID `json:"participantId"`
	ParticipantName string               `json:"participantName"`
}

type participantState struct {
	ParticipantID   domain.ParticipantID `json:"participantId"`
	ParticipantName string               `json:"participantName"`
	IsAudioMuted    bool                 `json:"isAudioMuted"`
	IsVideoOff      bool                 `json:"isVideoOff"`
}

func stateOf(p *domain.Participant) participantState {
	return participantState{
		ParticipantID:   p.ID,
		ParticipantName: p.DisplayName,
		IsAudioMuted:    p.IsAudioMuted,
		IsVideoOff:      p.IsVideoOff,
	}
}

type relayedOffer struct {
	FromParticipantID   domain.ParticipantID `json:"fromParticipantId"`
	FromParticipantName string               `json:"fromParticipantName"`
	Offer               json.RawMessage      `json:"offer"`
}

type relayedAnswer struct {
	FromParticipantID domain.ParticipantID `json:"fromParticipantId"`
	Answer            json.RawMessage      `json:"answer"`
}

type relayedCandidate struct {
	FromParticipantID domain.ParticipantID `json:"fromParticipantId"`
	Candidate         json.RawMessage      `json:"candidate"`
}

type callStarted struct {
	AppointmentID domain.AppointmentID `json:"appointmentId"`
	MeetingID     domain.MeetingID     `json:"meetingId"`
	DoctorName    string               `json:"doctorName"`
}

type callStartConfirmed struct {
	AppointmentID domain.AppointmentID `json:"appointmentId"`
	MeetingID     domain.MeetingID     `json:"meetingId"`
}

type callEnded struct {
	AppointmentID domain.AppointmentID `json:"appointmentId"`
}
