// Package ident allocates numeric identifiers that are unique within one
// entity namespace.
package ident

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/coverwise/internal/storage"
)

// mask keeps the low 31 bits, so every id fits a signed 32-bit column.
const mask = 1<<31 - 1

// Checker reports whether an id is taken within a namespace.
// storage.Tx satisfies it.
type Checker interface {
	IDExists(ctx context.Context, ns storage.Namespace, id int64) (bool, error)
}

// Allocator draws random 31-bit candidates until it finds one that is free in
// the target namespace. It only checks; it does not reserve. Two transactions
// can draw the same free candidate, and the loser is rejected by the store's
// primary key and retried by its caller.
//
// There is no bound on draws. With ~2^31 values and far fewer rows the
// expected number of draws is 1; a full namespace would loop forever.
type Allocator struct {
	candidate func() int64
}

// New returns an Allocator drawing candidates from a cryptographically
// strong source.
func New() *Allocator {
	return &Allocator{candidate: randomCandidate}
}

// NewWithSource returns an Allocator drawing candidates from next.
// Candidates are masked to 31 bits.
func NewWithSource(next func() int64) *Allocator {
	return &Allocator{candidate: func() int64 { return next() & mask }}
}

// Allocate returns an id not currently present in ns.
func (a *Allocator) Allocate(ctx context.Context, c Checker, ns storage.Namespace) (int64, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		id := a.candidate()
		taken, err := c.IDExists(ctx, ns, id)
		if err != nil {
			return 0, fmt.Errorf("failed to allocate %s id: %w", ns, err)
		}
		if !taken {
			return id, nil
		}
	}
}

// randomCandidate takes the low 31 bits of a random (version 4) UUID. The
// last four bytes of a v4 UUID carry no version or variant bits.
func randomCandidate() int64 {
	u := uuid.New()
	return int64(binary.BigEndian.Uint32(u[12:16]) & mask)
}
