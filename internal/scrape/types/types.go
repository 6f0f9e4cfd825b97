package types

import (
	"context"

	"jobdigest/internal/domain"
)

// RunStatus is the outcome of the most recent routine invocation.
type RunStatus struct {
	LastRunAt    string `json:"last_run_at"`
	LastOkAt     string `json:"last_ok_at"`
	LastError    string `json:"last_error"`
	LastPostings int    `json:"last_postings"`
	Running      bool   `json:"running"`
}

type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.Posting, error)
}
