package orch

import (
	"testing"

	"github.com/dkeye/meetsignal/internal/core"
	"github.com/dkeye/meetsignal/internal/domain"
)

func TestCallLifecycle(t *testing.T) {
	o, tr, rec := newTestOrch()

	o.StartCall("c-doc", StartCallRequest{AppointmentID: "apt-1", MeetingID: "M1", DoctorName: "Dr. X"})

	st := o.CallStatus("apt-1")
	if !st.IsActive || st.CallInfo == nil {
		t.Fatalf("status after start = %+v", st)
	}
	if st.CallInfo.MeetingID != "M1" || st.CallInfo.DoctorName != "Dr. X" || st.CallInfo.Status != domain.CallStatusActive || st.CallInfo.StartedAt == 0 {
		t.Fatalf("callInfo = %+v", st.CallInfo)
	}

	if len(tr.global) != 1 || tr.global[0].Type != core.TypeCallStarted {
		t.Fatalf("global = %+v, want one call-started", tr.global)
	}
	if got := tr.to("c-doc", core.TypeCallStartConfirmed); len(got) != 1 {
		t.Fatalf("starter got %d confirmations, want 1", len(got))
	}

	o.EndCall("c-doc", CallRequest{AppointmentID: "apt-1"})
	st = o.CallStatus("apt-1")
	if st.IsActive || st.CallInfo != nil {
		t.Fatalf("status after end = %+v", st)
	}
	if len(tr.global) != 2 || tr.global[1].Type != core.TypeCallEnded {
		t.Fatalf("global = %+v, want call-ended second", tr.global)
	}
	if len(rec.calls) != 2 || rec.calls[0].Kind != core.CallEventStarted || rec.calls[1].Kind != core.CallEventEnded {
		t.Fatalf("recorded calls = %+v", rec.calls)
	}
}

func TestEndUnknownCallStillBroadcasts(t *testing.T) {
	o, tr, _ := newTestOrch()
	o.EndCall("c-x", CallRequest{AppointmentID: "never"})
	if len(tr.global) != 1 || tr.global[0].Payload.(callEnded).AppointmentID != "never" {
		t.Fatalf("global = %+v", tr.global)
	}
}

func TestStartCallLastWriterWins(t *testing.T) {
	o, _, _ := newTestOrch()
	o.StartCall("c-1", StartCallRequest{AppointmentID: "apt", MeetingID: "M1", DoctorName: "Dr. A"})
	o.StartCall("c-2", StartCallRequest{AppointmentID: "apt", MeetingID: "M2", DoctorName: "Dr. B"})

	st := o.CallStatus("apt")
	if st.CallInfo.MeetingID != "M2" || st.CallInfo.DoctorName != "Dr. B" {
		t.Fatalf("callInfo = %+v, want the second start", st.CallInfo)
	}
	if o.Stats().ActiveCalls != 1 {
		t.Fatalf("ActiveCalls = %d, want 1", o.Stats().ActiveCalls)
	}
}

func TestCallsIndependentOfMembership(t *testing.T) {
	o, _, rec := newTestOrch()
	o.StartCall("c-doc", StartCallRequest{AppointmentID: "apt-9", MeetingID: "M9", DoctorName: "Dr. X"})

	join(o, "c-a", "M9", "A", "Alice", false)
	o.OnDisconnect("c-a")

	if !o.CallStatus("apt-9").IsActive {
		t.Fatalf("join/leave changed the call")
	}
	if len(rec.meetings) != 1 || rec.meetings[0].AppointmentID != "apt-9" {
		t.Fatalf("meeting record = %+v, want linked to apt-9", rec.meetings)
	}
}

func TestCheckCallStatusRepliesToCaller(t *testing.T) {
	o, tr, _ := newTestOrch()
	o.CheckCallStatus("c-q", CallRequest{AppointmentID: "apt-2"})

	got := tr.to("c-q", core.TypeCallStatusResponse)
	if len(got) != 1 {
		t.Fatalf("got %d responses, want 1", len(got))
	}
	st := got[0].Payload.(domain.CallStatus)
	if st.AppointmentID != "apt-2" || st.IsActive || st.CallInfo != nil {
		t.Fatalf("response = %+v", st)
	}
}
