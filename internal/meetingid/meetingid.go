// Package meetingid derives meeting identifiers from appointment ids.
//
// A derived id is the first 12 hex characters of HMAC-SHA256(secret,
// appointmentId), upper-cased. It cannot be reversed to the appointment id.
package meetingid

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const Length = 12

const DefaultSecret = "healthcare-plus-secret-key-2024"

type Generator struct {
	secret []byte
}

func New(secret string) *Generator {
	if secret == "" {
		secret = DefaultSecret
	}
	return &Generator{secret: []byte(secret)}
}

// Derive is deterministic for a given secret and appointment id.
func (g *Generator) Derive(appointmentID string) string {
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(appointmentID))
	sum := hex.EncodeToString(mac.Sum(nil))
	return strings.ToUpper(sum[:Length])
}

// Verify compares case-insensitively.
func (g *Generator) Verify(meetingID, appointmentID string) bool {
	return strings.EqualFold(meetingID, g.Derive(appointmentID))
}

// Random returns an id for a meeting without an appointment.
func Random() (string, error) {
	b := make([]byte, Length/2)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}
