package reactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/reactor-core/internal/domain"
)

type recordingSink struct {
	events []recordedEvent
}

type recordedEvent struct {
	tag     domain.Tag
	trigger Trigger
	deliver func()
}

func (s *recordingSink) PushEvent(tag domain.Tag, trigger Trigger, deliver func()) {
	s.events = append(s.events, recordedEvent{tag: tag, trigger: trigger, deliver: deliver})
}

func TestAction_Schedule_ZeroDelayBumpsMicrostep(t *testing.T) {
	app := NewApp()
	r1, err := NewReactor(app, "r1")
	require.NoError(t, err)

	a := NewAction[int](r1, "a", ActionLogical, 0, 1)
	sink := &recordingSink{}

	err = a.Schedule(r1.Key(), sink, domain.Tag{Time: 100, Microstep: 0}, 0, 42)
	require.NoError(t, err)

	require.Len(t, sink.events, 1)
	assert.Equal(t, domain.Tag{Time: 100, Microstep: 1}, sink.events[0].tag)

	sink.events[0].deliver()
	v, present := a.Get()
	assert.True(t, present)
	assert.Equal(t, 42, v)
}

func TestAction_Schedule_NonZeroDelayResetsMicrostep(t *testing.T) {
	app := NewApp()
	r1, err := NewReactor(app, "r1")
	require.NoError(t, err)

	a := NewAction[string](r1, "a", ActionLogical, 10, 1)
	sink := &recordingSink{}

	err = a.Schedule(r1.Key(), sink, domain.Tag{Time: 100, Microstep: 5}, 0, "hi")
	require.NoError(t, err)
	assert.Equal(t, domain.Tag{Time: 110, Microstep: 0}, sink.events[0].tag)
}

func TestAction_Schedule_RejectsWrongKey(t *testing.T) {
	app := NewApp()
	r1, err := NewReactor(app, "r1")
	require.NoError(t, err)
	r2, err := NewReactor(app, "r2")
	require.NoError(t, err)

	a := NewAction[int](r1, "a", ActionLogical, 0, 1)
	sink := &recordingSink{}

	err = a.Schedule(r2.Key(), sink, domain.Origin, 0, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidKey)
}

func TestAction_Schedule_OverflowsOnTagOverflow(t *testing.T) {
	app := NewApp()
	r1, err := NewReactor(app, "r1")
	require.NoError(t, err)

	a := NewAction[int](r1, "a", ActionLogical, domain.MaxTimeValue, 1)
	sink := &recordingSink{}

	err = a.Schedule(r1.Key(), sink, domain.Tag{Time: 10, Microstep: 0}, 0, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTagOverflow)
}

func TestNewAction_NormalizesZeroMIT(t *testing.T) {
	app := NewApp()
	r1, err := NewReactor(app, "r1")
	require.NoError(t, err)

	a := NewAction[int](r1, "a", ActionPhysical, 0, 0)
	assert.Equal(t, domain.TimeValue(1), a.MIT())
	assert.Equal(t, ActionPhysical, a.Origin())
}

func TestAction_ClearResetsPresence(t *testing.T) {
	app := NewApp()
	r1, err := NewReactor(app, "r1")
	require.NoError(t, err)

	a := NewAction[int](r1, "a", ActionLogical, 0, 1)
	sink := &recordingSink{}
	require.NoError(t, a.Schedule(r1.Key(), sink, domain.Origin, 0, 9))
	sink.events[0].deliver()

	a.Clear()
	_, present := a.Get()
	assert.False(t, present)
}
