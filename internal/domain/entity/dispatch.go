package entity

import (
	"time"

	"github.com/google/uuid"
)

// DispatchState tracks a recipient through one notification cycle.
type DispatchState string

const (
	DispatchPending        DispatchState = "PENDING"
	DispatchResolvedRegion DispatchState = "RESOLVED_REGION"
	DispatchResolvedUV     DispatchState = "RESOLVED_UV"
	DispatchRendered       DispatchState = "RENDERED"
	DispatchSent           DispatchState = "SENT"
	DispatchFailed         DispatchState = "FAILED"
)

// DispatchOutcome records the result for a single recipient. Outcomes are
// aggregated per cycle and logged; they are never persisted.
type DispatchOutcome struct {
	SubscriberID  uuid.UUID `json:"subscriber_id"`
	Email         string    `json:"email"`
	Sent          bool      `json:"sent"`
	FailureReason string    `json:"failure_reason,omitempty"`
}

// DispatchReport aggregates one full run of the daily cycle.
type DispatchReport struct {
	Total     int               `json:"total"`
	Sent      int               `json:"sent"`
	Failed    int               `json:"failed"`
	Outcomes  []DispatchOutcome `json:"outcomes,omitempty"`
	StartedAt time.Time         `json:"started_at"`
	Duration  time.Duration     `json:"duration"`
}
