package core

import (
	"context"
	"time"

	"github.com/dkeye/meetsignal/internal/domain"
)

// CallEvent is a call lifecycle record handed to the persistence sink.
type CallEvent struct {
	Kind          string               `json:"kind"`
	AppointmentID domain.AppointmentID `json:"appointmentId"`
	MeetingID     domain.MeetingID     `json:"meetingId,omitempty"`
	DoctorName    string               `json:"doctorName,omitempty"`
	At            time.Time            `json:"at"`
}

const (
	CallEventStarted = "call.started"
	CallEventEnded   = "call.ended"
)

// EventSink durably records meeting and call metadata.
// Implementations may block; the core only reaches them through an async dispatcher.
type EventSink interface {
	MeetingCreated(ctx context.Context, rec domain.MeetingRecord) error
	CallEvent(ctx context.Context, ev CallEvent) error
	Close() error
}

// EventRecorder is the non-blocking face of a sink the core calls.
type EventRecorder interface {
	RecordMeetingCreated(rec domain.MeetingRecord) bool
	RecordCall(ev CallEvent) bool
}
