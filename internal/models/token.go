package models

import (
	"crypto/rand"
	"encoding/hex"
)

// NewSessionToken returns an opaque credential tying a participant to one
// room. 128 bits of randomness keeps tokens collision-resistant for the
// ten-minute life of a room.
func NewSessionToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}
