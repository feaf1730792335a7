// Package id provides the identity-generation capability injected into every
// store. Production uses random UUIDs; the sequential generator reproduces
// the auto-increment scheme and gives tests deterministic identifiers.
package id

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// Supported identifier schemes.
const (
	SchemeUUID     = "uuid"
	SchemeSequence = "sequence"
)

// Generator produces fresh identifiers for records created without one.
type Generator interface {
	NewID() string
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func() string

// NewID calls f.
func (f GeneratorFunc) NewID() string { return f() }

// UUID returns a Generator yielding random (version 4) UUID strings.
func UUID() Generator {
	return GeneratorFunc(func() string {
		return uuid.NewString()
	})
}

// Sequence yields "1", "2", "3", ... and is safe for concurrent use.
type Sequence struct {
	mu   sync.Mutex
	next int64
}

// NewSequence returns a Sequence whose first identifier is start.
func NewSequence(start int64) *Sequence {
	return &Sequence{next: start}
}

// NewID returns the next number in the sequence.
func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.next
	s.next++
	return strconv.FormatInt(n, 10)
}

// FromScheme returns the Generator for a configured scheme name.
func FromScheme(scheme string) (Generator, error) {
	switch scheme {
	case SchemeUUID, "":
		return UUID(), nil
	case SchemeSequence:
		return NewSequence(1), nil
	default:
		return nil, fmt.Errorf("id: unknown scheme %q", scheme)
	}
}
