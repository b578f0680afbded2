package scroll

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestDebouncer() (*Debouncer, *fakeClock) {
	clk := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	return New(DefaultThreshold, DefaultCooldown, WithClock(clk.now)), clk
}

func TestBelowThresholdNeverFires(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for trial := range 50 {
		d, _ := newTestDebouncer()
		budget := DefaultThreshold - 0.001
		for budget > 0 {
			delta := rng.Float64() * 30
			if delta > budget {
				delta = budget
			}
			budget -= delta
			if rng.IntN(2) == 0 {
				delta = -delta
			}
			_, fired := d.Feed(delta)
			require.False(t, fired, "trial %d fired below threshold", trial)
		}
	}
}

func TestCrossingThresholdFiresOnceAndResets(t *testing.T) {
	d, _ := newTestDebouncer()

	_, fired := d.Feed(60)
	assert.False(t, fired)
	assert.Equal(t, 60.0, d.Accumulated())

	dir, fired := d.Feed(50)
	assert.True(t, fired)
	assert.Equal(t, Forward, dir)
	assert.Equal(t, 0.0, d.Accumulated())
	assert.Equal(t, Cooldown, d.State())
}

func TestDirectionFollowsTriggeringDelta(t *testing.T) {
	d, _ := newTestDebouncer()

	d.Feed(90)
	dir, fired := d.Feed(-20)

	require.True(t, fired)
	assert.Equal(t, Back, dir)
}

func TestCooldownDropsEvents(t *testing.T) {
	d, clk := newTestDebouncer()

	_, fired := d.Feed(500)
	require.True(t, fired)

	for range 100 {
		clk.advance(10 * time.Millisecond)
		_, fired := d.Feed(1000)
		require.False(t, fired)
	}
	assert.Equal(t, 0.0, d.Accumulated(), "dropped events must not accumulate")

	clk.advance(DefaultCooldown)
	assert.Equal(t, Idle, d.State())

	_, fired = d.Feed(100)
	assert.True(t, fired)
}

func TestNoTwoSignalsWithinCooldown(t *testing.T) {
	d, clk := newTestDebouncer()
	rng := rand.New(rand.NewPCG(7, 9))

	var fires []time.Time
	for range 5000 {
		clk.advance(time.Duration(rng.IntN(20)) * time.Millisecond)
		if _, fired := d.Feed(rng.Float64()*400 - 200); fired {
			fires = append(fires, clk.t)
		}
	}

	require.NotEmpty(t, fires)
	for i := 1; i < len(fires); i++ {
		gap := fires[i].Sub(fires[i-1])
		assert.GreaterOrEqual(t, gap, DefaultCooldown)
	}
}

func TestLargeSingleGestureFiresOnce(t *testing.T) {
	d, _ := newTestDebouncer()

	_, fired := d.Feed(10_000)
	require.True(t, fired)
	assert.Equal(t, 0.0, d.Accumulated(), "excess is discarded, not carried over")

	_, fired = d.Feed(10_000)
	assert.False(t, fired)
}

func TestRetuneAndReset(t *testing.T) {
	d, clk := newTestDebouncer()
	d.SetThreshold(10)
	d.SetCooldown(time.Second)

	_, fired := d.Feed(10)
	require.True(t, fired)

	d.Reset()
	assert.Equal(t, Idle, d.State())

	_, fired = d.Feed(-10)
	require.True(t, fired)

	clk.advance(999 * time.Millisecond)
	assert.Equal(t, Cooldown, d.State())
	clk.advance(time.Millisecond)
	assert.Equal(t, Idle, d.State())
	assert.Equal(t, "idle", d.State().String())
}
