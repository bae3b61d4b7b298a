package domain

import "context"

// Store is the backing store of the sequence allocator.
//
// Increment must create the counter at 1 when absent and otherwise add one
// and return the new value, as a single indivisible store operation.
type Store interface {
	Increment(ctx context.Context, counterID string) (int64, error)
	// Current returns 0 for a counter that was never incremented.
	Current(ctx context.Context, counterID string) (int64, error)
}
