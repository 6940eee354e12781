package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/duecal/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrInvalidInstance = errors.New("invalid report instance")
	ErrInvalidMonth    = errors.New("month must be between 1 and 12")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateMonth(month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: got %d", ErrInvalidMonth, month)
	}
	return nil
}

// validateInstance checks the fields the ledger cannot store without.
func validateInstance(inst *model.ReportInstance) error {
	if strings.TrimSpace(inst.ReportName) == "" {
		return fmt.Errorf("%w: missing report name", ErrInvalidInstance)
	}
	if inst.Deadline.IsZero() {
		return fmt.Errorf("%w: %q has no deadline", ErrInvalidInstance, inst.ReportName)
	}
	if err := validateMonth(int(inst.Month)); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidInstance, inst.ReportName, err)
	}
	if _, err := model.ParseStatus(string(inst.Status)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInstance, err)
	}
	switch inst.AddedBy {
	case model.AddedBySystem, model.AddedByUser:
	default:
		return fmt.Errorf("%w: %q has unknown origin %q", ErrInvalidInstance, inst.ReportName, inst.AddedBy)
	}
	return nil
}
