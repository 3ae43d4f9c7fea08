package clock

import "time"

// Clock returns wall time, optionally pinned to a location so that
// quiet-hours checks run in the drivers' timezone regardless of where
// the bot is deployed.
type Clock struct {
	loc *time.Location
}

func New() *Clock {
	return &Clock{}
}

func NewWithLocation(loc *time.Location) *Clock {
	return &Clock{loc: loc}
}

func (c *Clock) Now() time.Time {
	now := time.Now()
	if c.loc != nil {
		now = now.In(c.loc)
	}
	return now
}

type Mock struct {
	value func() time.Time
}

func NewMock(value time.Time) *Mock {
	return &Mock{
		value: func() time.Time {
			return value
		},
	}
}

func NewMockF(value func() time.Time) *Mock {
	return &Mock{
		value: value,
	}
}

func (m *Mock) Now() time.Time {
	return m.value()
}

func (m *Mock) Set(t time.Time) {
	m.value = func() time.Time {
		return t
	}
}

// Advance shifts the mocked time forward by d.
func (m *Mock) Advance(d time.Duration) {
	m.Set(m.value().Add(d))
}
