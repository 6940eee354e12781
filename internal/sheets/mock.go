package sheets

import (
	"context"
	"sync"
	"time"

	"github.com/Veraticus/duecal/internal/model"
)

// MockWriter is a mock implementation of service.ReportWriter for testing.
type MockWriter struct {
	WriteFunc  func(ctx context.Context, month time.Month, year int, view []model.ReportInstance) error
	WriteCalls []WriteCall
	mu         sync.Mutex
}

// WriteCall represents a single call to Write.
type WriteCall struct {
	Error error
	View  []model.ReportInstance
	Month time.Month
	Year  int
}

// NewMockWriter creates a new mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{}
}

// Write records the call and returns WriteFunc's result.
func (m *MockWriter) Write(ctx context.Context, month time.Month, year int, view []model.ReportInstance) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var err error
	if m.WriteFunc != nil {
		err = m.WriteFunc(ctx, month, year, view)
	}

	m.WriteCalls = append(m.WriteCalls, WriteCall{
		Month: month,
		Year:  year,
		View:  view,
		Error: err,
	})

	return err
}

// GetWriteCalls returns a copy of all write calls.
func (m *MockWriter) GetWriteCalls() []WriteCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]WriteCall, len(m.WriteCalls))
	copy(calls, m.WriteCalls)
	return calls
}
