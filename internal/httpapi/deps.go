package httpapi

import (
	"sync/atomic"

	"jobdigest/internal/config"
)

type Deps struct {
	// Status stores a types.RunStatus written by the routine.
	Status *atomic.Value

	// Trigger is the configured daily time, echoed on /status.
	Trigger string

	// Config is the effective configuration served (redacted) on /config.
	Config config.Config
}
