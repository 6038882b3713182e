package orch

import (
	"encoding/json"
	"testing"

	"github.com/dkeye/meetsignal/internal/core"
	"github.com/dkeye/meetsignal/internal/domain"
)

func TestRelayDeliversOnlyToTarget(t *testing.T) {
	o, tr, _ := newTestOrch()
	join(o, "c-a", "M", "A", "Alice", false)
	join(o, "c-b", "M", "B", "Bob", false)
	join(o, "c-c", "M", "C", "Carol", false)
	tr.reset()

	sdp := json.RawMessage(`{"type":"offer","sdp":"v=0"}`)
	o.Relay(core.TypeOffer, "c-a", RelayRequest{MeetingID: "M", ToParticipantID: "B", Offer: sdp})

	offers := tr.ofType(core.TypeOffer)
	if len(offers) != 1 || offers[0].to != "c-b" {
		t.Fatalf("offers = %+v, want one to c-b", offers)
	}
	got := offers[0].env.Payload.(relayedOffer)
	if got.FromParticipantID != "A" || got.FromParticipantName != "Alice" || string(got.Offer) != string(sdp) {
		t.Fatalf("relayed offer = %+v", got)
	}
}

func TestRelayAnswerAndCandidate(t *testing.T) {
	o, tr, _ := newTestOrch()
	join(o, "c-a", "M", "A", "Alice", false)
	join(o, "c-b", "M", "B", "Bob", false)
	tr.reset()

	o.Relay(core.TypeAnswer, "c-b", RelayRequest{ToParticipantID: "A", Answer: json.RawMessage(`{"sdp":"x"}`)})
	o.Relay(core.TypeICECandidate, "c-b", RelayRequest{ToParticipantID: "A", Candidate: json.RawMessage(`{"candidate":"c"}`)})

	ans := tr.to("c-a", core.TypeAnswer)
	if len(ans) != 1 || ans[0].Payload.(relayedAnswer).FromParticipantID != "B" {
		t.Fatalf("answers = %+v", ans)
	}
	cands := tr.to("c-a", core.TypeICECandidate)
	if len(cands) != 1 || string(cands[0].Payload.(relayedCandidate).Candidate) != `{"candidate":"c"}` {
		t.Fatalf("candidates = %+v", cands)
	}
	if len(tr.to("c-b", "")) != 0 {
		t.Fatalf("sender received relay traffic")
	}
}

func TestRelayDropsSilently(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
	}{
		{"unknown target", "c-a", "ghost"},
		{"unjoined sender", "c-x", "A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, tr, _ := newTestOrch()
			join(o, "c-a", "M", "A", "Alice", false)
			tr.reset()

			o.Relay(core.TypeOffer, domain.ConnID(tt.from), RelayRequest{MeetingID: "M", ToParticipantID: domain.ParticipantID(tt.to)})
			if tr.total() != 0 {
				t.Fatalf("dropped relay produced %d messages", tr.total())
			}
		})
	}
}

func TestRelayTargetOutsideMeeting(t *testing.T) {
	o, tr, _ := newTestOrch()
	join(o, "c-a", "M1", "A", "Alice", false)
	join(o, "c-b", "M2", "B", "Bob", false)
	tr.reset()

	// Targets resolve across the whole directory, not one meeting.
	o.Relay(core.TypeOffer, "c-a", RelayRequest{MeetingID: "M1", ToParticipantID: "B"})
	if got := tr.to("c-b", core.TypeOffer); len(got) != 1 {
		t.Fatalf("c-b got %d offers, want 1", len(got))
	}
}
