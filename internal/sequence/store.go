// Package sequence issues integer ids per named sequence (users, businesses, reviews, trips).
//
// Every id comes from one atomic increment on a counter record owned by a Store, so
// values for a name are unique and strictly increasing across processes. Gaps are allowed.
package sequence

import "context"

// Store is a backend holding one counter per sequence name.
type Store interface {
	// Increment atomically adds one to the counter, creating it at zero first when it
	// does not exist, and returns the value after the increment.
	Increment(ctx context.Context, name string) (int64, error)

	// CompareAndSet sets the counter to newValue only if it currently holds oldValue.
	CompareAndSet(ctx context.Context, name string, oldValue, newValue int64) (bool, error)

	// Ensure creates the counter at zero if it does not exist. Existing counters are untouched.
	Ensure(ctx context.Context, name string) (created bool, err error)

	// Current returns the last issued value without changing it.
	Current(ctx context.Context, name string) (value int64, found bool, err error)
}

// Closer is implemented by stores that own a client connection.
type Closer interface {
	Close() error
}

// Standard sequence names.
const (
	Users      = "users"
	Businesses = "businesses"
	Reviews    = "reviews"
	Trips      = "trips"
)

// DefaultNames lists the sequences pre-created at startup.
func DefaultNames() []string {
	return []string{Users, Businesses, Reviews, Trips}
}
