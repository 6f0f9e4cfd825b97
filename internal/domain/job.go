package domain

// Posting is one scraped listing. Message is attached by the routine after
// the fetcher builds the posting and is never changed afterwards.
type Posting struct {
	Title       string
	Link        string // absolute
	Description string // ≤150 runes plus "…" when truncated
	Message     string
}
