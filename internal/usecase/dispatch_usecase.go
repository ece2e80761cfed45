package usecase

import (
	"context"

	"uvalert/internal/domain/entity"
)

// DispatchUsecase runs the daily notification cycle over all subscribers.
type DispatchUsecase interface {
	// RunCycle processes every subscriber and returns the aggregated
	// report. A single recipient's failure never aborts the cycle; the
	// returned error is reserved for failures before any recipient work
	// starts (listing subscribers).
	RunCycle(ctx context.Context) (*entity.DispatchReport, error)

	// TryRunCycle starts a cycle unless one is already running, in which
	// case it reports started=false and does nothing. Both the scheduler
	// and the manual trigger go through here so cycles never overlap.
	TryRunCycle(ctx context.Context) (report *entity.DispatchReport, started bool, err error)
}
