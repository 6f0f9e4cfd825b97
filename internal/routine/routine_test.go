package routine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"jobdigest/internal/config"
	"jobdigest/internal/domain"
	"jobdigest/internal/mailer"
	"jobdigest/internal/scheduler"
	"jobdigest/internal/scrape"
	"jobdigest/internal/scrape/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeFetcher struct {
	postings []domain.Posting
	err      error
}

func (f *fakeFetcher) Name() string { return "fake" }

func (f *fakeFetcher) Fetch(context.Context) ([]domain.Posting, error) {
	return f.postings, f.err
}

type fakeMailer struct {
	bodies []string
	err    error
}

func (m *fakeMailer) Send(body string) error {
	if m.err != nil {
		return m.err
	}
	m.bodies = append(m.bodies, body)
	return nil
}

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func TestRunOnce_ComposesAndSends(t *testing.T) {
	ff := &fakeFetcher{postings: []domain.Posting{
		{Title: "QA Engineer – Acme", Link: "https://angel.co/jobs/1", Description: "tests"},
		{Title: "Manual Tester", Link: "https://angel.co/jobs/2", Description: "more tests"},
	}}
	fm := &fakeMailer{}
	status := &atomic.Value{}

	r := &Runner{Fetcher: ff, Mailer: fm, Now: clock, Status: status}
	require.NoError(t, r.RunOnce(context.Background()))

	require.Len(t, fm.bodies, 1)
	body := fm.bodies[0]
	assert.Contains(t, body, "fetched at 2026-10-19 12:00")
	assert.Contains(t, body, "Hi Hiring Team at Acme,")
	assert.Contains(t, body, "Hi Hiring Team at team,")
	assert.Less(t, strings.Index(body, "QA Engineer – Acme"), strings.Index(body, "• Manual Tester"))

	st := status.Load().(types.RunStatus)
	assert.False(t, st.Running)
	assert.Empty(t, st.LastError)
	assert.Equal(t, 2, st.LastPostings)
	assert.Equal(t, fixedNow.Format(time.RFC3339), st.LastOkAt)
}

func TestRunOnce_EmptyListStillSends(t *testing.T) {
	fm := &fakeMailer{}
	r := &Runner{Fetcher: &fakeFetcher{}, Mailer: fm, Now: clock}

	require.NoError(t, r.RunOnce(context.Background()))
	require.Len(t, fm.bodies, 1)
	assert.Contains(t, fm.bodies[0], "Good luck!")
	assert.NotContains(t, fm.bodies[0], "Apply:")
}

func TestRunOnce_FetchErrorSendsNothing(t *testing.T) {
	fm := &fakeMailer{}
	status := &atomic.Value{}
	cause := &scrape.NetworkError{URL: "https://angel.co/jobs", StatusCode: 503}

	r := &Runner{Fetcher: &fakeFetcher{err: cause}, Mailer: fm, Now: clock, Status: status}
	err := r.RunOnce(context.Background())

	var ne *scrape.NetworkError
	require.True(t, errors.As(err, &ne))
	assert.Empty(t, fm.bodies)

	st := status.Load().(types.RunStatus)
	assert.Contains(t, st.LastError, "HTTP 503")
	assert.Empty(t, st.LastOkAt)
}

func TestRunOnce_MailErrorIsReturned(t *testing.T) {
	m := mailer.NewWithSender(mailer.Config{Host: "smtp.example.com", Port: 587, User: "me@example.com"},
		rejectingSender{})

	r := &Runner{Fetcher: &fakeFetcher{}, Mailer: m, Now: clock}
	err := r.RunOnce(context.Background())

	var me *mailer.MailError
	assert.True(t, errors.As(err, &me))
}

func TestCheckPostings(t *testing.T) {
	var in []domain.Posting
	in = append(in, domain.Posting{Title: "", Link: "https://angel.co/jobs/0"})
	in = append(in, domain.Posting{Title: "relative", Link: "/jobs/x"})
	for i := 1; i <= 7; i++ {
		in = append(in, domain.Posting{Title: fmt.Sprintf("T%d", i), Link: fmt.Sprintf("https://angel.co/jobs/%d", i)})
	}

	out := checkPostings(in)
	require.Len(t, out, scrape.MaxPostings)
	assert.Equal(t, "T1", out[0].Title)
	assert.Equal(t, "T5", out[4].Title)
}

type rejectingSender struct{}

func (rejectingSender) DialAndSend(...*gomail.Message) error {
	return errors.New("535 5.7.8 authentication rejected")
}

func TestEndToEnd_FixturePage(t *testing.T) {
	page, err := os.ReadFile("../scrape/testdata/listing.html")
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(page)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Listing.SearchURL = srv.URL + "/jobs?filter=testing&experience=entry_level&sort=published_at"

	fm := &fakeMailer{}
	r := &Runner{Fetcher: scrape.New(scrape.ConfigFrom(cfg), nil), Mailer: fm, Now: clock}
	require.NoError(t, r.RunOnce(context.Background()))

	require.Len(t, fm.bodies, 1)
	assert.Equal(t, 3, strings.Count(fm.bodies[0], "Apply:"))
	assert.Contains(t, fm.bodies[0], "Apply: https://angel.co/jobs/101-qa-engineer")
	assert.Contains(t, fm.bodies[0], "Hi Hiring Team at Globex,")
}

func TestDriver_MailFailureDoesNotStopLoop(t *testing.T) {
	m := mailer.NewWithSender(mailer.Config{Host: "smtp.example.com", Port: 587, User: "me@example.com"},
		rejectingSender{})
	status := &atomic.Value{}
	r := &Runner{Fetcher: &fakeFetcher{}, Mailer: m, Now: clock, Status: status}

	trigger, err := scheduler.ParseTrigger("12:00")
	require.NoError(t, err)
	d := scheduler.NewDriver("digest", trigger, 30*time.Second, r.RunOnce)

	day1 := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	assert.True(t, d.Check(context.Background(), day1))
	assert.Equal(t, scheduler.Idle, d.State())
	assert.Contains(t, status.Load().(types.RunStatus).LastError, "authentication rejected")

	assert.False(t, d.Check(context.Background(), day1.Add(30*time.Second)))
	assert.True(t, d.Check(context.Background(), day1.Add(24*time.Hour)))
}
