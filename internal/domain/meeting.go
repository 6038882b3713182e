package domain

import "time"

type MeetingID string

// Meeting is the membership set of a signaling room.
// A meeting with no members does not exist.
type Meeting struct {
	ID      MeetingID
	Members map[ConnID]struct{}
}

func NewMeeting(id MeetingID) *Meeting {
	return &Meeting{ID: id, Members: make(map[ConnID]struct{})}
}

// MeetingRecord is what the persistence sink stores for a created meeting.
type MeetingRecord struct {
	MeetingID     MeetingID     `json:"meetingId"`
	AppointmentID AppointmentID `json:"appointmentId,omitempty"`
	Date          string        `json:"date"`
	Time          string        `json:"time"`
	Timestamp     int64         `json:"timestamp"`
}

func NewMeetingRecord(id MeetingID, appointment AppointmentID, at time.Time) MeetingRecord {
	return MeetingRecord{
		MeetingID:     id,
		AppointmentID: appointment,
		Date:          at.Format(time.DateOnly),
		Time:          at.Format(time.TimeOnly),
		Timestamp:     at.UnixMilli(),
	}
}
