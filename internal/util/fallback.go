// Package util contains small shared helpers with no domain knowledge.
package util

import "context"

// Lookup is a single attempt against an external source.
type Lookup[T any] func(ctx context.Context) (T, error)

// ResolveWithFallback runs the try-primary / fall-back / degrade pattern
// shared by the UV and geocoding lookups. The primary result is accepted
// only when it arrives without error and usable reports true; otherwise the
// fallback is consulted under the same rule, and degraded is returned when
// both legs fail. Errors never escape: degradation is the recovery path.
func ResolveWithFallback[T any](
	ctx context.Context,
	primary Lookup[T],
	usable func(T) bool,
	fallback Lookup[T],
	degraded T,
) T {
	if v, err := primary(ctx); err == nil && usable(v) {
		return v
	}

	if fallback != nil {
		if v, err := fallback(ctx); err == nil && usable(v) {
			return v
		}
	}

	return degraded
}
