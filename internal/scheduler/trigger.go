package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Trigger is a fixed daily wall-clock time.
type Trigger struct {
	hhmm  string
	sched cron.Schedule
}

// ParseTrigger accepts "HH:MM" (24h, local to the clock it is used with).
func ParseTrigger(hhmm string) (Trigger, error) {
	hhmm = strings.TrimSpace(hhmm)
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return Trigger{}, fmt.Errorf("invalid trigger %q: must be HH:MM", hhmm)
	}

	expr := fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour())
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return Trigger{}, fmt.Errorf("trigger %q: %w", hhmm, err)
	}
	return Trigger{hhmm: hhmm, sched: sched}, nil
}

func (t Trigger) String() string { return t.hhmm }

// At returns the trigger instant on now's calendar day, in now's location.
func (t Trigger) At(now time.Time) time.Time {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return t.sched.Next(midnight.Add(-time.Second))
}
