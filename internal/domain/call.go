package domain

type AppointmentID string

const CallStatusActive = "active"

// Call is an appointment-scoped activity record. An absent record means the
// call is not active; there is no stored ended state.
type Call struct {
	MeetingID  MeetingID `json:"meetingId"`
	DoctorName string    `json:"doctorName"`
	StartedAt  int64     `json:"startedAt"`
	Status     string    `json:"status"`
}

// CallStatus answers both the check-call-status message and the HTTP query.
type CallStatus struct {
	AppointmentID AppointmentID `json:"appointmentId"`
	IsActive      bool          `json:"isActive"`
	CallInfo      *Call         `json:"callInfo"`
}
