package reactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/reactor-core/internal/domain"
)

func TestPort_AsWritable_RejectsWrongKey(t *testing.T) {
	app := NewApp()
	r1, err := NewReactor(app, "r1")
	require.NoError(t, err)
	r2, err := NewReactor(app, "r2")
	require.NoError(t, err)

	out := NewPort[int](r1, "out", false)

	_, err = out.AsWritable(r2.Key())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidKey)

	writable, err := out.AsWritable(r1.Key())
	require.NoError(t, err)
	require.NotNil(t, writable)
}

func TestWritablePort_SetMarksPresentAndPropagates(t *testing.T) {
	app := NewApp()
	r1, err := NewReactor(app, "r1")
	require.NoError(t, err)

	out := NewPort[int](r1, "out", false)
	mid := NewPort[int](r1, "mid", true)
	dst := NewPort[int](r1, "dst", true)

	out.ConnectTo(mid)
	mid.ConnectTo(dst)

	writable, err := out.AsWritable(r1.Key())
	require.NoError(t, err)

	writable.Set(7)

	v, present := dst.Get()
	assert.True(t, present)
	assert.Equal(t, 7, v)
	assert.True(t, mid.IsPresent())
	assert.True(t, out.IsPresent())
}

func TestPort_Clear_ResetsPresenceAndValue(t *testing.T) {
	app := NewApp()
	r1, err := NewReactor(app, "r1")
	require.NoError(t, err)
	p := NewPort[int](r1, "p", true)

	writable, err := p.AsWritable(r1.Key())
	require.NoError(t, err)
	writable.Set(42)

	p.Clear()

	v, present := p.Get()
	assert.False(t, present)
	assert.Equal(t, 0, v)
}

func TestPort_HasSourceAndDisconnect(t *testing.T) {
	app := NewApp()
	r1, err := NewReactor(app, "r1")
	require.NoError(t, err)

	src := NewPort[string](r1, "src", false)
	dst := NewPort[string](r1, "dst", true)

	assert.False(t, dst.HasSource())
	src.ConnectTo(dst)
	assert.True(t, dst.HasSource())

	src.DisconnectFrom(dst)
	assert.False(t, dst.HasSource())

	// disconnecting again is a no-op, not an error.
	src.DisconnectFrom(dst)
	assert.False(t, dst.HasSource())
}

func TestMultiPort_ChannelsAreIndependentPorts(t *testing.T) {
	app := NewApp()
	r1, err := NewReactor(app, "r1")
	require.NoError(t, err)

	mp := NewMultiPort[int](r1, "bank_in", true, 3)
	assert.Equal(t, 3, mp.Width())

	writable, err := mp.At(1).AsWritable(r1.Key())
	require.NoError(t, err)
	writable.Set(5)

	v0, present0 := mp.At(0).Get()
	v1, present1 := mp.At(1).Get()
	assert.False(t, present0)
	assert.Equal(t, 0, v0)
	assert.True(t, present1)
	assert.Equal(t, 5, v1)
}

func TestMultiPort_ChannelsRegisterAsTriggers(t *testing.T) {
	app := NewApp()
	r1, err := NewReactor(app, "r1")
	require.NoError(t, err)

	before := len(r1.AllTriggers())
	NewMultiPort[int](r1, "bank_in", true, 4)
	after := len(r1.AllTriggers())

	assert.Equal(t, before+4, after)
}
