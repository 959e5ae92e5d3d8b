package editor

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator hands out element identifiers. Implementations must never
// return the same value twice for the lifetime of a document.
type IDGenerator interface {
	NextID() string
}

// Sequence is a monotonic counter based generator producing ids like "el-1", "el-2".
type Sequence struct {
	prefix string
	n      atomic.Uint64
}

// NewSequence creates a counter based generator. An empty prefix yields bare numbers.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// NextID implements IDGenerator.
func (s *Sequence) NextID() string {
	n := strconv.FormatUint(s.n.Add(1), 10)
	if s.prefix == "" {
		return n
	}
	return s.prefix + "-" + n
}

// UUIDGenerator produces random (version 4) UUIDs.
type UUIDGenerator struct{}

// NewUUIDGenerator returns a generator backed by github.com/google/uuid.
func NewUUIDGenerator() UUIDGenerator { return UUIDGenerator{} }

// NextID implements IDGenerator.
func (UUIDGenerator) NextID() string { return uuid.NewString() }
