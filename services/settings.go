package services

import (
	"context"
	"time"
)

// Settings are the policy knobs shared by the task and attendance services.
type Settings struct {
	// MaxRetries bounds the read-compute-write cycles of one task mutation.
	MaxRetries int
	// StorageTimeout bounds each storage round-trip.
	StorageTimeout time.Duration
	// Location decides which calendar day "today" is.
	Location *time.Location
	// MaxRectificationAttempts is the monthly quota of past-date attendance edits.
	MaxRectificationAttempts int
	Now                      func() time.Time
}

func DefaultSettings() Settings {
	return Settings{
		MaxRetries:               3,
		StorageTimeout:           5 * time.Second,
		Location:                 time.UTC,
		MaxRectificationAttempts: 3,
		Now:                      time.Now,
	}
}

func (s Settings) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s Settings) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

func (s Settings) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.StorageTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.StorageTimeout)
}
