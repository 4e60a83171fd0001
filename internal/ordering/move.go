// Package ordering moves elements within ordered collections.
//
// Every function works on a copy: the input slice is never modified, so a
// failed reorder leaves the caller's collection exactly as it was.
package ordering

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned when from or to does not address an element.
var ErrIndexOutOfRange = errors.New("index out of range")

// Move removes the element at from and inserts it at to in the shortened
// sequence (array splice semantics).
func Move[T any](seq []T, from, to int) ([]T, error) {
	n := len(seq)
	if from < 0 || from >= n {
		return nil, fmt.Errorf("move from %d in %d elements: %w", from, n, ErrIndexOutOfRange)
	}
	if to < 0 || to >= n {
		return nil, fmt.Errorf("move to %d in %d elements: %w", to, n, ErrIndexOutOfRange)
	}

	out := make([]T, 0, n)
	out = append(out, seq[:from]...)
	out = append(out, seq[from+1:]...)

	moved := seq[from]
	out = append(out, moved) // grow by one, then shift the tail right
	copy(out[to+1:], out[to:n-1])
	out[to] = moved
	return out, nil
}

// MoveWithin reorders only the elements matching in. from and to index that
// subsequence; elements not matching keep their slots in the backing sequence.
func MoveWithin[T any](seq []T, in func(T) bool, from, to int) ([]T, error) {
	var slots []int
	var sub []T
	for i, v := range seq {
		if in(v) {
			slots = append(slots, i)
			sub = append(sub, v)
		}
	}

	moved, err := Move(sub, from, to)
	if err != nil {
		return nil, err
	}

	out := make([]T, len(seq))
	copy(out, seq)
	for i, slot := range slots {
		out[slot] = moved[i]
	}
	return out, nil
}
