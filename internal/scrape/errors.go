package scrape

import "fmt"

// NetworkError means the listing page could not be retrieved: transport
// failure, timeout or a non-2xx status.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("listing fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("listing fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError means the page came back but its structure no longer matches
// the configured selectors.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("listing parse: %s: %v", e.Reason, e.Err)
	}
	return "listing parse: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }
