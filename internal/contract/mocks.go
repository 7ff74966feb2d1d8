package contract

import (
	"context"
	"time"

	"github.com/huangsam/bfskpi/schema"
	"github.com/stretchr/testify/mock"
)

// MockEventStore is a mock implementation of EventStore for testing.
type MockEventStore struct {
	mock.Mock
}

// AnchorDate mocks the AnchorDate method.
func (m *MockEventStore) AnchorDate(ctx context.Context, repo string) (time.Time, bool, error) {
	args := m.Called(ctx, repo)
	return args.Get(0).(time.Time), args.Bool(1), args.Error(2)
}

// Collect mocks the Collect method.
func (m *MockEventStore) Collect(ctx context.Context, repo string, window schema.Window) (*schema.RawMetricsRecord, error) {
	args := m.Called(ctx, repo, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schema.RawMetricsRecord), args.Error(1)
}

// CountRange mocks the CountRange method.
func (m *MockEventStore) CountRange(ctx context.Context, repo string, metric schema.Metric, start, end time.Time) (int, error) {
	args := m.Called(ctx, repo, metric, start, end)
	return args.Int(0), args.Error(1)
}

// Close mocks the Close method.
func (m *MockEventStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
