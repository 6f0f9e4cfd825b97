package scrape

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"jobdigest/internal/config"
	"jobdigest/internal/domain"
	"jobdigest/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

const (
	// MaxPostings caps how many cards make it into one digest.
	MaxPostings = 5
	// MaxDescription is the rune length after which descriptions are cut.
	MaxDescription = 150
)

type Config struct {
	SearchURL  string
	BaseOrigin string // prefixed to relative card links
	Selectors  config.Selectors
	Keywords   []string
	Timeout    time.Duration
}

// ConfigFrom maps the engine config onto the listing scraper's settings.
func ConfigFrom(cfg config.Config) Config {
	return Config{
		SearchURL:  cfg.Listing.SearchURL,
		BaseOrigin: cfg.Listing.BaseOrigin,
		Selectors:  cfg.Listing.Selectors,
		Keywords:   cfg.Filters.Keywords,
		Timeout:    time.Duration(cfg.Listing.TimeoutSeconds) * time.Second,
	}
}

type ListingScraper struct {
	cfg     Config
	hc      *http.Client
	limiter *util.HostLimiter
}

// New builds a scraper for the listing page. limiter may be nil.
func New(cfg Config, limiter *util.HostLimiter) *ListingScraper {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &ListingScraper{
		cfg:     cfg,
		hc:      &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
	}
}

func (s *ListingScraper) Name() string { return "listing" }

// Fetch performs one GET against the search URL and extracts at most
// MaxPostings postings in document order.
func (s *ListingScraper) Fetch(ctx context.Context) ([]domain.Posting, error) {
	u := s.cfg.SearchURL

	if err := s.limiter.WaitURL(ctx, u); err != nil {
		return nil, &NetworkError{URL: u, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &NetworkError{URL: u, Err: err}
	}
	req.Header.Set("User-Agent", "JobDigest/1.0 (+local)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: u, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		// drain a little so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
		return nil, &NetworkError{URL: u, StatusCode: res.StatusCode}
	}

	return s.Parse(res.Body)
}

// Parse extracts postings from an already retrieved listing page.
func (s *ListingScraper) Parse(r io.Reader) ([]domain.Posting, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &ParseError{Reason: "read html", Err: err}
	}
	return s.extract(doc)
}

func (s *ListingScraper) extract(doc *goquery.Document) ([]domain.Posting, error) {
	sel := s.cfg.Selectors

	if m := strings.TrimSpace(sel.Marker); m != "" && doc.Find(m).Length() == 0 {
		return nil, &ParseError{Reason: fmt.Sprintf("results marker %q not found", m)}
	}

	cards := doc.Find(sel.Card)
	if cards.Length() == 0 {
		log.Printf("[listing] no cards matched %q", sel.Card)
		return []domain.Posting{}, nil
	}

	out := make([]domain.Posting, 0, MaxPostings)
	malformed := 0

	cards.EachWithBreak(func(i int, card *goquery.Selection) bool {
		p, why := s.postingFromCard(card)
		if why != "" {
			malformed++
			log.Printf("[listing] skipped card %d (%s)", i, why)
			return true
		}
		if keep, reason := ShouldKeepPosting(s.cfg.Keywords, p); !keep {
			log.Printf("[listing] skipped (%s) title=%q", reason, p.Title)
			return true
		}
		out = append(out, p)
		return len(out) < MaxPostings
	})

	// Every card broken means the markup changed, not a quiet day.
	if len(out) == 0 && malformed == cards.Length() {
		return nil, &ParseError{Reason: fmt.Sprintf("all %d cards are missing required fields", malformed)}
	}
	return out, nil
}

func (s *ListingScraper) postingFromCard(card *goquery.Selection) (domain.Posting, string) {
	sel := s.cfg.Selectors

	title := util.CleanText(card.Find(sel.Title).First().Text())
	if title == "" {
		return domain.Posting{}, "missing title"
	}

	// The card itself may be the anchor.
	linkSel := card.Find(sel.Link).First()
	if linkSel.Length() == 0 && card.Is(sel.Link) {
		linkSel = card
	}
	href, ok := linkSel.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return domain.Posting{}, "missing link"
	}
	link, err := util.ResolveLink(s.cfg.BaseOrigin, href)
	if err != nil {
		return domain.Posting{}, "bad link: " + err.Error()
	}

	desc := util.CleanText(card.Find(sel.Description).First().Text())
	if desc == "" {
		return domain.Posting{}, "missing description"
	}

	return domain.Posting{
		Title:       title,
		Link:        link,
		Description: util.Truncate(desc, MaxDescription),
	}, ""
}
