package engine

// DefaultClockStep is the per-tick increment of the animation clock.
const DefaultClockStep = 0.01

// Clock is the animation time source for ambient motion. It advances by a
// fixed Step once per rendered frame, independent of wall-clock time, so any
// pose derived from it can be replayed from T alone. T accumulates in
// float64 so long sessions keep advancing; Now narrows it for rendering.
type Clock struct {
	T    float64
	Step float64
}

func NewClock() *Clock {
	return &Clock{Step: DefaultClockStep}
}

func (c *Clock) Advance() {
	c.T += c.Step
}

// Now is T as the float32 the animation paths and shaders take.
func (c *Clock) Now() float32 {
	return float32(c.T)
}

func (c *Clock) Reset() {
	c.T = 0
}
