package cost

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrCostNotFound     = errors.New("cost item not found")
	ErrInvalidAmount    = errors.New("amount must not be negative")
	ErrInvalidName      = errors.New("name is required")
	ErrInvalidProject   = errors.New("project id must be positive")
	ErrInvalidDate      = errors.New("date is required")
	ErrTaskNotInProject = errors.New("task does not belong to the project")
)

// NewCost is the input of AddCost. TaskId is optional and narrows the cost to one task of the project.
type NewCost struct {
	ProjectId   int
	TaskId      *int
	Name        string
	Description string
	Category    string
	AmountCents int64
	Date        time.Time
	// IsBillable defaults to true when nil.
	IsBillable *bool
}

func validate(c NewCost) error {
	if c.ProjectId <= 0 {
		return ErrInvalidProject
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrInvalidName
	}
	if c.AmountCents < 0 {
		return ErrInvalidAmount
	}
	if c.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}
