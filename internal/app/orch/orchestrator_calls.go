package orch

import (
	"time"

	"github.com/dkeye/meetsignal/internal/core"
	"github.com/dkeye/meetsignal/internal/domain"
	"github.com/rs/zerolog/log"
)

// StartCall marks the appointment's call active and tells every connection on
// the server, so clients that have not joined yet learn the call began.
func (o *Orchestrator) StartCall(conn domain.ConnID, req StartCallRequest) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.Calls.Start(req.AppointmentID, req.MeetingID, req.DoctorName)
	log.Info().
		Str("module", "app.orch").
		Str("conn", string(conn)).
		Str("appointment", string(req.AppointmentID)).
		Str("doctor", req.DoctorName).
		Msg("start call")

	o.broadcastAll(core.TypeCallStarted, callStarted{
		AppointmentID: req.AppointmentID,
		MeetingID:     req.MeetingID,
		DoctorName:    req.DoctorName,
	})
	o.send(conn, core.TypeCallStartConfirmed, callStartConfirmed{
		AppointmentID: req.AppointmentID,
		MeetingID:     req.MeetingID,
	})
	o.recorder().RecordCall(core.CallEvent{
		Kind:          core.CallEventStarted,
		AppointmentID: req.AppointmentID,
		MeetingID:     req.MeetingID,
		DoctorName:    req.DoctorName,
		At:            time.Now(),
	})
}

// EndCall removes the call if present and announces the end globally either way.
func (o *Orchestrator) EndCall(conn domain.ConnID, req CallRequest) {
	o.mu.Lock()
	defer o.mu.Unlock()

	existed := o.Calls.End(req.AppointmentID)
	log.Info().Str("module", "app.orch").Str("conn", string(conn)).Str("appointment", string(req.AppointmentID)).Bool("existed", existed).Msg("end call")

	o.broadcastAll(core.TypeCallEnded, callEnded{AppointmentID: req.AppointmentID})
	o.recorder().RecordCall(core.CallEvent{
		Kind:          core.CallEventEnded,
		AppointmentID: req.AppointmentID,
		At:            time.Now(),
	})
}

// CheckCallStatus answers the requesting connection directly.
func (o *Orchestrator) CheckCallStatus(conn domain.ConnID, req CallRequest) {
	o.send(conn, core.TypeCallStatusResponse, o.CallStatus(req.AppointmentID))
}

// CallStatus is the synchronous query shared with the HTTP surface.
func (o *Orchestrator) CallStatus(id domain.AppointmentID) domain.CallStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.Calls.Status(id)
}
