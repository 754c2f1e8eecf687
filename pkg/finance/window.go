package finance

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidWindow = errors.New("invalid date window")

// ParseWindow reads optional YYYY-MM-DD bounds. Empty strings leave the bound open.
func ParseWindow(from, to string) (Window, error) {
	var window Window
	if from != "" {
		start, err := time.Parse(time.DateOnly, from)
		if err != nil {
			return Window{}, fmt.Errorf("%w: from must be in YYYY-MM-DD format", ErrInvalidWindow)
		}
		window.Start = &start
	}
	if to != "" {
		end, err := time.Parse(time.DateOnly, to)
		if err != nil {
			return Window{}, fmt.Errorf("%w: to must be in YYYY-MM-DD format", ErrInvalidWindow)
		}
		window.End = &end
	}
	if window.Start != nil && window.End != nil && window.End.Before(*window.Start) {
		return Window{}, fmt.Errorf("%w: to is before from", ErrInvalidWindow)
	}
	return window, nil
}

// Key identifies the window by its calendar days, "*" standing for an open bound.
func (w Window) Key() string {
	start, end := "*", "*"
	if w.Start != nil {
		start = w.Start.Format(time.DateOnly)
	}
	if w.End != nil {
		end = w.End.Format(time.DateOnly)
	}
	return start + ".." + end
}
