// Package delivery defines the contract every serving surface implements.
package delivery

import "context"

// Delivery is a long-running serving loop (HTTP server, scheduler). Serve
// blocks until the context is canceled or the loop fails.
type Delivery interface {
	Serve(ctx context.Context) error
}
