package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTag_Compare(t *testing.T) {
	cases := []struct {
		name string
		a, b Tag
		want int
	}{
		{"equal", Tag{10, 2}, Tag{10, 2}, 0},
		{"earlier time", Tag{5, 9}, Tag{10, 0}, -1},
		{"later time", Tag{10, 0}, Tag{5, 9}, 1},
		{"same time earlier microstep", Tag{10, 0}, Tag{10, 1}, -1},
		{"same time later microstep", Tag{10, 1}, Tag{10, 0}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Compare(tc.b))
		})
	}
}

func TestTag_BeforeAfterEqual(t *testing.T) {
	a := Tag{10, 0}
	b := Tag{10, 1}

	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.True(t, b.After(a))
	assert.True(t, a.Equal(Tag{10, 0}))
}

func TestLaterTag_ZeroDelayAdvancesMicrostep(t *testing.T) {
	got, err := LaterTag(Tag{Time: 100, Microstep: 3}, 0)
	require.NoError(t, err)
	assert.Equal(t, Tag{Time: 100, Microstep: 4}, got)
}

func TestLaterTag_NonZeroDelayResetsMicrostep(t *testing.T) {
	got, err := LaterTag(Tag{Time: 100, Microstep: 3}, 50)
	require.NoError(t, err)
	assert.Equal(t, Tag{Time: 150, Microstep: 0}, got)
}

func TestLaterTag_OverflowsOnTimeOverflow(t *testing.T) {
	_, err := LaterTag(Tag{Time: MaxTimeValue - 1, Microstep: 0}, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTagOverflow)
}

func TestLaterTag_OverflowsOnMicrostepOverflow(t *testing.T) {
	start := Tag{Time: 0, Microstep: ^uint64(0)}
	_, err := LaterTag(start, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTagOverflow)
}

func TestTimeValue_AddSaturates(t *testing.T) {
	sum, overflowed := MaxTimeValue.Add(1)
	assert.True(t, overflowed)
	assert.Equal(t, MaxTimeValue, sum)

	sum, overflowed = TimeValue(5).Add(5)
	assert.False(t, overflowed)
	assert.Equal(t, TimeValue(10), sum)
}

func TestTag_String(t *testing.T) {
	assert.Equal(t, "(10ns, 2)", Tag{Time: 10, Microstep: 2}.String())
}
