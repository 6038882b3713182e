// Package domain contains entity without logic, just meta-data
package domain

import "errors"

var (
	ErrEmptyMeetingID     = errors.New("meeting id empty")
	ErrEmptyParticipantID = errors.New("participant id empty")
	ErrEmptyDisplayName   = errors.New("display name empty")
)

type (
	ConnID        string
	ParticipantID string
)

// Participant is the joined identity bound to exactly one connection.
type Participant struct {
	ConnID       ConnID        `json:"socketId"`
	ID           ParticipantID `json:"participantId"`
	DisplayName  string        `json:"participantName"`
	MeetingID    MeetingID     `json:"meetingId"`
	IsHost       bool          `json:"isHost"`
	IsAudioMuted bool          `json:"isAudioMuted"`
	IsVideoOff   bool          `json:"isVideoOff"`
}

// NewParticipant checks join preconditions and returns an unmuted participant.
func NewParticipant(conn ConnID, meeting MeetingID, id ParticipantID, name string, isHost bool) (*Participant, error) {
	if meeting == "" {
		return nil, ErrEmptyMeetingID
	}
	if id == "" {
		return nil, ErrEmptyParticipantID
	}
	if name == "" {
		return nil, ErrEmptyDisplayName
	}
	return &Participant{
		ConnID:      conn,
		ID:          id,
		DisplayName: name,
		MeetingID:   meeting,
		IsHost:      isHost,
	}, nil
}
