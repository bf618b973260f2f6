package mocks

import (
	"context"

	"github.com/dukex/leadflow/pkg/eventbus"
	"github.com/dukex/leadflow/pkg/execution"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/stretchr/testify/mock"
)

// MockExecutor is a mock implementation of execution.Executor interface.
type MockExecutor struct {
	mock.Mock
}

func (m *MockExecutor) Execute(ctx context.Context, endpoint string, payload models.FormValues) (*execution.Response, error) {
	args := m.Called(ctx, endpoint, payload)

	resp, _ := args.Get(0).(*execution.Response)

	return resp, args.Error(1)
}

// MockNotifier is a mock implementation of notify.Notifier interface.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, key string, event eventbus.Event) {
	m.Called(ctx, key, event)
}
