// Package id generates identifiers for server-side objects.
package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generate creates a prefixed NanoID such as "sse-V1StGXR8_Z5jdHi6B-myT".
// Used for short-lived handles like SSE connections.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// NewSessionID returns a random UUID for a viewer session.
func NewSessionID() string {
	return uuid.NewString()
}

// ValidSessionID reports whether s is a canonical UUID string.
func ValidSessionID(s string) bool {
	if len(s) != 36 || strings.ToLower(s) != s {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
