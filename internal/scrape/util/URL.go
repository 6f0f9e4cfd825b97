package util

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ResolveLink turns a card href into an absolute http(s) URL using base
// (the site's origin). Hrefs that are already absolute are kept.
func ResolveLink(base, href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", errors.New("empty href")
	}

	b, err := url.Parse(strings.TrimSpace(base))
	if err != nil || b.Scheme == "" || b.Host == "" {
		return "", fmt.Errorf("bad base origin %q", base)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("bad href %q: %w", href, err)
	}

	abs := b.ResolveReference(ref)
	scheme := strings.ToLower(abs.Scheme)
	if (scheme != "http" && scheme != "https") || abs.Host == "" {
		return "", fmt.Errorf("href %q is not a web link", href)
	}
	return abs.String(), nil
}

// IsAbsolute reports whether raw is a well-formed absolute http(s) URL.
func IsAbsolute(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	s := strings.ToLower(u.Scheme)
	return s == "http" || s == "https"
}
