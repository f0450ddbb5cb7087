package scheduler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/reactor-core/internal/domain"
	"github.com/ahrav/reactor-core/internal/reactor"
)

func newFederatedAction(t *testing.T) (*FederatedPortAction[int], *EventQueue) {
	t.Helper()
	root := reactor.NewApp()
	r, err := reactor.NewReactor(root, "remote")
	require.NoError(t, err)
	action := reactor.NewAction[int](r, "in", reactor.ActionPhysical, 0, 1)
	queue := NewEventQueue()
	return NewFederatedPortAction(action, queue), queue
}

func TestScheduleFederated_ConfirmedMustBeStrictlyAfterCurrent(t *testing.T) {
	f, queue := newFederatedAction(t)
	current := domain.Tag{Time: 10}

	err := f.ScheduleFederated(current, domain.Tag{Time: 20}, false, 7)
	require.NoError(t, err)
	require.Equal(t, 1, queue.Len())
}

func TestScheduleFederated_ConfirmedAtCurrentTagIsViolation(t *testing.T) {
	f, _ := newFederatedAction(t)
	current := domain.Tag{Time: 10}

	err := f.ScheduleFederated(current, current, false, 7)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrFederatedTagViolation))
}

func TestScheduleFederated_ConfirmedBeforeCurrentIsViolation(t *testing.T) {
	f, _ := newFederatedAction(t)
	current := domain.Tag{Time: 10}

	err := f.ScheduleFederated(current, domain.Tag{Time: 5}, false, 7)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrFederatedTagViolation))
}

func TestScheduleFederated_ProvisionalAtCurrentTagIsAccepted(t *testing.T) {
	f, queue := newFederatedAction(t)
	current := domain.Tag{Time: 10}

	err := f.ScheduleFederated(current, current, true, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, queue.Len())
}

func TestScheduleFederated_ProvisionalBeforeCurrentIsStillAViolation(t *testing.T) {
	f, _ := newFederatedAction(t)
	current := domain.Tag{Time: 10}

	err := f.ScheduleFederated(current, domain.Tag{Time: 5}, true, 7)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrFederatedTagViolation))
}
