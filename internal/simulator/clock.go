package simulator

import (
	"time"

	"github.com/coder/quartz"
)

// simulationEpoch is where virtual time starts, so a seed replays the same
// timestamps on every run
var simulationEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// virtualClock is a quartz.Clock that only moves when the referee advances
// it by a think time. Timers and tickers fall through to the real clock; a
// simulated game never starts any.
type virtualClock struct {
	quartz.Clock
	now time.Time
}

func newVirtualClock(start time.Time) *virtualClock {
	return &virtualClock{Clock: quartz.NewReal(), now: start}
}

func (c *virtualClock) Now(...string) time.Time {
	return c.now
}

func (c *virtualClock) Since(t time.Time, _ ...string) time.Duration {
	return c.now.Sub(t)
}

func (c *virtualClock) Until(t time.Time, _ ...string) time.Duration {
	return t.Sub(c.now)
}

// Advance moves virtual time forward by d
func (c *virtualClock) Advance(d time.Duration) {
	if d > 0 {
		c.now = c.now.Add(d)
	}
}
