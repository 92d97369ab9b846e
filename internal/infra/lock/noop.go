package lock

import "context"

// NoopLock is used when Redis is not configured; the exclusion constraint alone keeps
// bookings from overlapping.
type NoopLock struct{}

func (NoopLock) Acquire(context.Context, string) (func(context.Context), error) {
	return func(context.Context) {}, nil
}
