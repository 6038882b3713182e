package meetingid

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
)

func TestDeriveMatchesHMACPrefix(t *testing.T) {
	g := New("k")
	mac := hmac.New(sha256.New, []byte("k"))
	mac.Write([]byte("apt-42"))
	want := strings.ToUpper(hex.EncodeToString(mac.Sum(nil))[:12])

	if got := g.Derive("apt-42"); got != want {
		t.Fatalf("Derive = %q, want %q", got, want)
	}
	if got := g.Derive("apt-42"); got != want {
		t.Fatalf("Derive not deterministic: %q", got)
	}
}

func TestDeriveDependsOnSecret(t *testing.T) {
	if New("a").Derive("apt-1") == New("b").Derive("apt-1") {
		t.Fatalf("different secrets produced the same id")
	}
	if New("").Derive("apt-1") != New(DefaultSecret).Derive("apt-1") {
		t.Fatalf("empty secret should fall back to the default")
	}
}

func TestVerify(t *testing.T) {
	g := New("secret")
	id := g.Derive("apt-7")

	tests := []struct {
		name        string
		meetingID   string
		appointment string
		want        bool
	}{
		{"exact", id, "apt-7", true},
		{"lower case", strings.ToLower(id), "apt-7", true},
		{"other appointment", id, "apt-8", false},
		{"garbage", "NOTANID", "apt-7", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Verify(tt.meetingID, tt.appointment); got != tt.want {
				t.Fatalf("Verify(%q, %q) = %v, want %v", tt.meetingID, tt.appointment, got, tt.want)
			}
		})
	}
}

func TestRandom(t *testing.T) {
	a, err := Random()
	if err != nil {
		t.Fatalf("Random: %v", err)
	}
	b, err := Random()
	if err != nil {
		t.Fatalf("Random: %v", err)
	}
	if len(a) != Length {
		t.Fatalf("len = %d, want %d", len(a), Length)
	}
	if a != strings.ToUpper(a) {
		t.Fatalf("id %q is not upper case", a)
	}
	if _, err := hex.DecodeString(a); err != nil {
		t.Fatalf("id %q is not hex: %v", a, err)
	}
	if a == b {
		t.Fatalf("two random ids collided: %q", a)
	}
}
