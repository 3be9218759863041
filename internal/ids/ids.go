// SPDX-License-Identifier: MPL-2.0

// Package ids allocates the small sequential identifiers that name records in the
// generated client document.
//
// Each record kind has its own counter. Identifiers start at 1 and grow by exactly
// one per allocation, so one compilation produces 1..N for N records of a kind.
// Allocators are values, not globals: create one per compilation run.
package ids

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
)

const (
	// Spell is the record kind for spell definitions.
	Spell Kind = iota
	// Table is the record kind for random tables.
	Table

	kindCount
)

// MaxID is the largest identifier the allocator hands out. Element names are
// rendered as "id-%05d", so anything above this would change the name width.
const MaxID = math.MaxUint16

var (
	// ErrExhausted is the panic value (wrapped) raised when a kind's counter would pass MaxID.
	ErrExhausted = errors.New("identifier space exhausted")
	// ErrUnknownKind is the panic value (wrapped) raised for an undefined Kind.
	ErrUnknownKind = errors.New("unknown record kind")
)

type (
	// Kind selects an independent identifier sequence.
	Kind int

	// Allocator hands out per-kind sequential identifiers. The zero value is ready
	// to use. It is safe for concurrent use.
	Allocator struct {
		counters [kindCount]atomic.Uint32
	}

	// ExhaustedError carries the kind whose sequence ran out.
	ExhaustedError struct {
		Kind Kind
	}
)

// New returns an allocator with every sequence at its start.
func New() *Allocator {
	return &Allocator{}
}

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case Spell:
		return "spell"
	case Table:
		return "table"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Next returns the next identifier for kind.
//
// Overflow is a fatal fault: Next panics with an *ExhaustedError rather than
// wrapping around or reusing an identifier.
func (a *Allocator) Next(kind Kind) int {
	if kind < 0 || kind >= kindCount {
		panic(fmt.Errorf("%w: %s", ErrUnknownKind, kind))
	}
	n := a.counters[kind].Add(1)
	if n == 0 || n > MaxID {
		// Park the counter at the limit so later callers fail the same way.
		a.counters[kind].Store(MaxID + 1)
		panic(&ExhaustedError{Kind: kind})
	}
	return int(n)
}

// Peek reports how many identifiers of kind have been handed out.
func (a *Allocator) Peek(kind Kind) int {
	if kind < 0 || kind >= kindCount {
		return 0
	}
	n := a.counters[kind].Load()
	if n > MaxID {
		return MaxID
	}
	return int(n)
}

// Error implements the error interface.
func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s: more than %d %s records", ErrExhausted, MaxID, e.Kind)
}

// Unwrap returns ErrExhausted for errors.Is() compatibility.
func (e *ExhaustedError) Unwrap() error { return ErrExhausted }
