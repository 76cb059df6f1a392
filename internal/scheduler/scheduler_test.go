package scheduler

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSweeper struct {
	mock.Mock
}

func (m *mockSweeper) SweepOverdue(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	_, err := NewScheduler(&mockSweeper{}, "every night")
	assert.Error(t, err)

	// Five fields are not enough once seconds are enabled.
	_, err = NewScheduler(&mockSweeper{}, "0 2 * * *")
	assert.Error(t, err)
}

func TestRunSweep(t *testing.T) {
	sweeper := &mockSweeper{}
	sweeper.On("SweepOverdue", mock.Anything).Return(2, nil).Once()
	sweeper.On("SweepOverdue", mock.Anything).Return(0, errors.New("storage offline")).Once()

	s, err := NewScheduler(sweeper, "0 0 2 * * *")
	require.NoError(t, err)

	s.RunSweep()
	s.RunSweep()
	sweeper.AssertExpectations(t)
}

func TestStartStop(t *testing.T) {
	s, err := NewScheduler(&mockSweeper{}, "0 0 2 * * *")
	require.NoError(t, err)
	s.Start()
	s.Stop()
}
