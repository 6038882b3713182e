package app

import (
	"testing"

	"github.com/dkeye/meetsignal/internal/domain"
)

func mustParticipant(t *testing.T, conn, meeting, id string) *domain.Participant {
	t.Helper()
	p, err := domain.NewParticipant(domain.ConnID(conn), domain.MeetingID(meeting), domain.ParticipantID(id), id+"-name", false)
	if err != nil {
		t.Fatalf("NewParticipant: %v", err)
	}
	return p
}

// consistent checks that directory and membership agree in both directions.
func consistent(t *testing.T, r *Registry) {
	t.Helper()
	seen := 0
	for id, m := range r.meetings {
		if len(m.Members) == 0 {
			t.Fatalf("meeting %s exists with no members", id)
		}
		for conn := range m.Members {
			e, ok := r.directory[conn]
			if !ok || e.Participant.MeetingID != id {
				t.Fatalf("conn %s in %s has no matching directory entry", conn, id)
			}
			seen++
		}
	}
	if seen != len(r.directory) {
		t.Fatalf("directory has %d entries, meetings hold %d", len(r.directory), seen)
	}
}

func TestRegistryJoinLeave(t *testing.T) {
	r := NewRegistry()

	others, created := r.Join(mustParticipant(t, "c1", "M", "A"))
	if !created || len(others) != 0 {
		t.Fatalf("first join: created=%v others=%v", created, others)
	}
	consistent(t, r)

	others, created = r.Join(mustParticipant(t, "c2", "M", "B"))
	if created || len(others) != 1 || others[0].ID != "A" {
		t.Fatalf("second join: created=%v others=%+v", created, others)
	}
	consistent(t, r)

	p, deleted, ok := r.Leave("c1")
	if !ok || deleted || p.ID != "A" {
		t.Fatalf("leave c1: p=%+v deleted=%v ok=%v", p, deleted, ok)
	}
	consistent(t, r)

	_, deleted, ok = r.Leave("c2")
	if !ok || !deleted {
		t.Fatalf("leave c2: deleted=%v ok=%v", deleted, ok)
	}
	if r.MeetingCount() != 0 || r.ParticipantCount() != 0 {
		t.Fatalf("counts = %d/%d, want 0/0", r.MeetingCount(), r.ParticipantCount())
	}

	if _, _, ok := r.Leave("c2"); ok {
		t.Fatalf("second leave reported a participant")
	}
}

func TestRegistryRejoinSameMeetingOverwrites(t *testing.T) {
	r := NewRegistry()
	r.Join(mustParticipant(t, "c1", "M", "A"))
	r.Join(mustParticipant(t, "c2", "M", "B"))

	p := mustParticipant(t, "c1", "M", "A2")
	r.Join(p)
	consistent(t, r)

	got, _ := r.Participant("c1")
	if got.ID != "A2" {
		t.Fatalf("record not overwritten: %+v", got)
	}
	if members := r.Members("M"); len(members) != 2 || members[0] != "c1" {
		t.Fatalf("members = %v, want join order kept", members)
	}
}

func TestRegistryMembersInJoinOrder(t *testing.T) {
	r := NewRegistry()
	for _, c := range []string{"c3", "c1", "c2"} {
		r.Join(mustParticipant(t, c, "M", "P"+c))
	}
	got := r.Members("M")
	want := []domain.ConnID{"c3", "c1", "c2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Members = %v, want %v", got, want)
		}
	}
	if r.Members("nope") != nil {
		t.Fatalf("unknown meeting returned members")
	}
}

func TestFindByParticipantID(t *testing.T) {
	r := NewRegistry()
	r.Join(mustParticipant(t, "c1", "M1", "A"))
	r.Join(mustParticipant(t, "c2", "M2", "B"))
	r.Join(mustParticipant(t, "c3", "M2", "A"))

	p, ok := r.FindByParticipantID("B")
	if !ok || p.ConnID != "c2" {
		t.Fatalf("find B = %+v, %v", p, ok)
	}
	p, ok = r.FindByParticipantID("A")
	if !ok || p.ConnID != "c1" {
		t.Fatalf("find A = %+v, want earliest binding c1", p)
	}
	if _, ok := r.FindByParticipantID("ghost"); ok {
		t.Fatalf("found a ghost")
	}
}
