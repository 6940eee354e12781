// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/duecal/internal/model"
)

// Ledger is the persisted record of report instances. Implementations must
// round-trip every column and keep at most one entry per identity.
type Ledger interface {
	// ForMonth returns the entries recorded for month/year, in ledger order.
	ForMonth(ctx context.Context, month time.Month, year int) ([]model.ReportInstance, error)
	// All returns every entry in ledger order.
	All(ctx context.Context) ([]model.ReportInstance, error)
	// Upsert writes instances, replacing entries with the same identity.
	Upsert(ctx context.Context, instances []model.ReportInstance) error
	Close() error
}

// Message is a single outgoing notification.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Notifier delivers notifications on a best-effort basis.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// ReportWriter exports a month view to an external destination.
type ReportWriter interface {
	Write(ctx context.Context, month time.Month, year int, view []model.ReportInstance) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
