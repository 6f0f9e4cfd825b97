// Package routine runs one fetch → compose → send cycle.
package routine

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"jobdigest/internal/digest"
	"jobdigest/internal/domain"
	"jobdigest/internal/outreach"
	"jobdigest/internal/scrape"
	"jobdigest/internal/scrape/types"
	"jobdigest/internal/scrape/util"
)

type Mailer interface {
	Send(body string) error
}

type Runner struct {
	Fetcher types.Fetcher
	Mailer  Mailer

	// Now defaults to time.Now.
	Now func() time.Time
	// Status, when set, stores a types.RunStatus after every run.
	Status *atomic.Value
	// FetchTimeout bounds the listing fetch; 0 means 2 minutes.
	FetchTimeout time.Duration
}

// RunOnce executes the routine. Nothing is sent unless the whole digest
// was composed first.
func (r *Runner) RunOnce(ctx context.Context) (err error) {
	started := r.now()
	r.markRunning(started)

	sent := 0
	defer func() { r.markDone(sent, err) }()

	timeout := r.FetchTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	fctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log.Printf("[%s] Running...", r.Fetcher.Name())
	postings, err := r.Fetcher.Fetch(fctx)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	postings = checkPostings(postings)

	for i := range postings {
		postings[i].Message = outreach.Compose(postings[i])
	}
	body := digest.Compose(postings, started)

	if err := r.Mailer.Send(body); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	sent = len(postings)

	log.Printf("[routine] digest sent at %s postings=%d", r.now().Format(digest.TimestampLayout), sent)
	return nil
}

// checkPostings keeps the digest well-formed: at most scrape.MaxPostings
// entries, each with a title and an absolute link.
func checkPostings(in []domain.Posting) []domain.Posting {
	out := make([]domain.Posting, 0, len(in))
	for i, p := range in {
		if len(out) == scrape.MaxPostings {
			log.Printf("[routine] dropping %d postings over the cap", len(in)-i)
			break
		}
		if p.Title == "" || !util.IsAbsolute(p.Link) {
			log.Printf("[routine] dropped invalid posting title=%q link=%q", p.Title, p.Link)
			continue
		}
		out = append(out, p)
	}
	return out
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Runner) loadStatus() types.RunStatus {
	if r.Status == nil {
		return types.RunStatus{}
	}
	if v, ok := r.Status.Load().(types.RunStatus); ok {
		return v
	}
	return types.RunStatus{}
}

func (r *Runner) markRunning(at time.Time) {
	if r.Status == nil {
		return
	}
	st := r.loadStatus()
	st.Running = true
	st.LastRunAt = at.Format(time.RFC3339)
	r.Status.Store(st)
}

func (r *Runner) markDone(postings int, err error) {
	if r.Status == nil {
		return
	}
	st := r.loadStatus()
	st.Running = false
	if err != nil {
		st.LastError = err.Error()
	} else {
		st.LastError = ""
		st.LastOkAt = r.now().Format(time.RFC3339)
		st.LastPostings = postings
	}
	r.Status.Store(st)
}
