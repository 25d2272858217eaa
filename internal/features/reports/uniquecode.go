package reports

import (
	"crypto/rand"
	"encoding/hex"
)

const uniqueCodeBytes = 8

// NewUniqueCode returns a 16 character hex capability for an anonymous report.
func NewUniqueCode() (string, error) {
	b := make([]byte, uniqueCodeBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
