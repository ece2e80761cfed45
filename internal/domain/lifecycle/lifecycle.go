// Package lifecycle holds shared constants for application start/stop handling.
package lifecycle

import "time"

// DefaultTimeout bounds startup probes and graceful shutdown of long-lived
// resources (HTTP server, database pool, scheduler).
const DefaultTimeout = 10 * time.Second
