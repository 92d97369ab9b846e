package booking

import (
	"errors"
	"slices"
)

var ErrInvalidStatus = errors.New("invalid payment status")

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
	StatusRefunded  Status = "refunded"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusCompleted, StatusFailed, StatusCancelled},
	StatusCompleted: {StatusCancelled, StatusRefunded},
	StatusFailed:    {},
	StatusCancelled: {},
	StatusRefunded:  {},
}

// Statuses lists every status in a stable order, used for reporting buckets.
var Statuses = []Status{StatusPending, StatusCompleted, StatusFailed, StatusCancelled, StatusRefunded}

// OccupyingStatuses are the statuses whose bookings hold their dates.
var OccupyingStatuses = []Status{StatusPending, StatusCompleted}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) CanTransitionTo(target Status) bool {
	return slices.Contains(transitions[s], target)
}

func (s Status) IsTerminal() bool {
	next, ok := transitions[s]
	return !ok || len(next) == 0
}

func (s Status) OccupiesDates() bool {
	return slices.Contains(OccupyingStatuses, s)
}
