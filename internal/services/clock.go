package services

import "time"

// Clock supplies the current instant to lifecycle rules.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports At. Tests move it forward with Advance.
type FixedClock struct {
	At time.Time
}

func (c *FixedClock) Now() time.Time { return c.At }

func (c *FixedClock) Advance(d time.Duration) {
	c.At = c.At.Add(d)
}
