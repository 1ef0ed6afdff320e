package golive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var goLive = time.Date(2021, time.October, 9, 18, 0, 0, 0, time.UTC)

func TestIsActive(t *testing.T) {
	s := &Schedule{}
	cases := []struct {
		now    time.Time
		start  time.Time
		active bool
	}{
		{now: goLive.Add(-time.Second), start: goLive, active: false},
		{now: goLive, start: goLive, active: true},
		{now: goLive.Add(time.Hour), start: goLive, active: true},
		{now: goLive.Add(-time.Hour), start: time.Time{}, active: true},
	}
	for _, tc := range cases {
		s.timeNow = func() time.Time {
			return tc.now
		}
		if active := s.IsActive(tc.start); active != tc.active {
			t.Errorf("IsActive(%s) at %s = %v; must be: %v", tc.start, tc.now, active, tc.active)
		}
	}
}

func TestCountdown(t *testing.T) {
	s := &Schedule{}
	cases := []struct {
		now       time.Time
		countdown Countdown
	}{
		{now: goLive, countdown: Countdown{Completed: true}},
		{now: goLive.Add(time.Minute), countdown: Countdown{Completed: true}},
		{now: goLive.Add(-time.Second), countdown: Countdown{Seconds: 1}},
		{now: goLive.Add(-1500 * time.Millisecond), countdown: Countdown{Seconds: 1}},
		{
			now:       goLive.Add(-(2*24*time.Hour + 3*time.Hour + 4*time.Minute + 5*time.Second)),
			countdown: Countdown{Days: 2, Hours: 3, Minutes: 4, Seconds: 5},
		},
	}
	for _, tc := range cases {
		s.timeNow = func() time.Time {
			return tc.now
		}
		require.Equal(t, tc.countdown, s.Countdown(goLive))
	}
}

func TestTimeTill(t *testing.T) {
	s := &Schedule{timeNow: func() time.Time {
		return goLive.Add(-time.Hour)
	}}
	require.Equal(t, time.Hour, s.TimeTill(goLive))
	require.Equal(t, time.Duration(0), s.TimeTill(goLive.Add(-2*time.Hour)))
}
