package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"
)

const dayLayout = "2006-01-02"

type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Driver fires a task at most once per calendar day, on the first check at
// or after the trigger time. It is not safe for concurrent use; Run owns it.
type Driver struct {
	name     string
	trigger  Trigger
	interval time.Duration
	task     Task
	now      func() time.Time

	state   State
	lastRun string // day key of the last fire, "" if never
}

type Option func(*Driver)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(d *Driver) { d.now = now }
}

func NewDriver(name string, trigger Trigger, interval time.Duration, task Task, opts ...Option) *Driver {
	d := &Driver{
		name:     name,
		trigger:  trigger,
		interval: interval,
		task:     task,
		now:      time.Now,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *Driver) State() State { return d.state }

// LastRun is the YYYY-MM-DD of the last fire, or "".
func (d *Driver) LastRun() string { return d.lastRun }

// Arm marks today as done when now is already past the trigger, so a
// process started in the afternoon waits for tomorrow.
func (d *Driver) Arm(now time.Time) {
	if !now.Before(d.trigger.At(now)) {
		d.lastRun = now.Format(dayLayout)
	}
}

// Check runs the task if it is due at now and reports whether it fired.
// Task errors and panics are logged and swallowed; the driver is Idle again
// when Check returns.
func (d *Driver) Check(ctx context.Context, now time.Time) bool {
	today := now.Format(dayLayout)
	if d.lastRun == today || now.Before(d.trigger.At(now)) {
		return false
	}

	// recorded before running: a failed run still waits for tomorrow
	d.lastRun = today
	d.state = Running
	err := d.runTask(ctx)
	d.state = Idle

	if err != nil {
		log.Printf("[%s] error: %v", d.name, err)
	}
	return true
}

func (d *Driver) runTask(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return d.task(ctx)
}

// Run polls the clock every interval until ctx is cancelled.
func (d *Driver) Run(ctx context.Context) {
	d.Arm(d.now())
	log.Printf("[%s] scheduled daily at %s, checking every %s", d.name, d.trigger, d.interval)

	Every(ctx, d.interval, d.name, func(ctx context.Context) error {
		d.Check(ctx, d.now())
		return nil
	})
}
