package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockMetricsRecorder is a mock for the MetricsRecorder interface
type MockMetricsRecorder struct {
	mock.Mock
}

func (m *MockMetricsRecorder) RecordRender(ctx context.Context, source string, filteredRows int, duration time.Duration) {
	m.Called(ctx, source, filteredRows, duration)
}

func (m *MockMetricsRecorder) RecordExport(ctx context.Context, format string, err error) {
	m.Called(ctx, format, err)
}

// MockClientCounter is a mock for the ClientCounter interface
type MockClientCounter struct {
	mock.Mock
}

func (m *MockClientCounter) ClientCount() int {
	return m.Called().Int(0)
}
