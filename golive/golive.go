package golive

import (
	"time"
)

// Countdown is the time left until go-live split the way the mint screen
// shows it.
type Countdown struct {
	Days      int  `json:"days"`
	Hours     int  `json:"hours"`
	Minutes   int  `json:"minutes"`
	Seconds   int  `json:"seconds"`
	Completed bool `json:"completed"`
}

type Schedule struct {
	timeNow func() time.Time
}

func New() *Schedule {
	return &Schedule{timeNow: time.Now}
}

// NewWithClock returns a Schedule reading the current time from timeNow.
func NewWithClock(timeNow func() time.Time) *Schedule {
	return &Schedule{timeNow: timeNow}
}

func (s *Schedule) Now() time.Time {
	return s.timeNow().UTC()
}

// IsActive reports whether minting is permitted at the moment, i.e. the
// go-live date has been reached. Zero start date means "no restriction".
func (s *Schedule) IsActive(start time.Time) bool {
	if start.IsZero() {
		return true
	}
	return !s.Now().Before(start)
}

// TimeTill returns how long to wait until start. It is never negative.
func (s *Schedule) TimeTill(start time.Time) time.Duration {
	if s.IsActive(start) {
		return time.Duration(0)
	}
	return start.Sub(s.Now())
}

func (s *Schedule) Countdown(start time.Time) Countdown {
	left := s.TimeTill(start)
	if left == 0 {
		return Countdown{Completed: true}
	}
	left = left.Truncate(time.Second) // Always round down.
	days := int(left / (24 * time.Hour))
	left -= time.Duration(days) * 24 * time.Hour
	hours := int(left / time.Hour)
	left -= time.Duration(hours) * time.Hour
	minutes := int(left / time.Minute)
	left -= time.Duration(minutes) * time.Minute
	return Countdown{
		Days:    days,
		Hours:   hours,
		Minutes: minutes,
		Seconds: int(left / time.Second),
	}
}
