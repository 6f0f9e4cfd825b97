package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// Validate normalizes cfg and returns it along with any warnings. Errors are
// returned together as a *ConfigError.
func Validate(cfg Config) (Config, []string, error) {
	out, res := NormalizeAndValidate(cfg)
	if !res.OK() {
		return out, res.Warnings, &ConfigError{Problems: res.Errors}
	}
	return out, res.Warnings, nil
}

// NormalizeAndValidate returns a normalized copy of cfg and the problems found.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Filters.Keywords = trimList(out.Filters.Keywords)
	out.Mail.Host = strings.TrimSpace(out.Mail.Host)
	out.Mail.User = strings.TrimSpace(out.Mail.User)
	out.Schedule.Trigger = strings.TrimSpace(out.Schedule.Trigger)
	out.Listing.BaseOrigin = strings.TrimRight(strings.TrimSpace(out.Listing.BaseOrigin), "/")

	// ---- mail (all required, no defaults) ----

	if out.Mail.Host == "" {
		res.addErr("%s is required", EnvMailHost)
	}
	if out.Mail.Port == 0 {
		res.addErr("%s is required", EnvMailPort)
	} else if out.Mail.Port < 0 || out.Mail.Port > 65535 {
		res.addErr("%s must be 1..65535", EnvMailPort)
	} else if out.Mail.Port == 465 {
		res.addWarn("%s=465 is usually implicit TLS; this mailer only speaks STARTTLS and will likely fail to connect (use 587).", EnvMailPort)
	}
	if out.Mail.User == "" {
		res.addErr("%s is required", EnvMailUser)
	}
	if out.Mail.Password == "" {
		res.addErr("%s is required (set it in the environment or the keychain)", EnvMailPass)
	}

	// ---- schedule ----

	if _, err := time.Parse("15:04", out.Schedule.Trigger); err != nil {
		res.addErr("schedule.trigger must be HH:MM, got %q", out.Schedule.Trigger)
	}
	if out.Schedule.CheckSeconds <= 0 {
		res.addErr("schedule.check_seconds must be > 0")
	} else if out.Schedule.CheckSeconds > 60 {
		res.addWarn("schedule.check_seconds is %d; the digest may go out well after the trigger time.", out.Schedule.CheckSeconds)
	}

	// ---- listing ----

	checkAbs := func(name, raw string) {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			res.addErr("%s must be an absolute URL, got %q", name, raw)
		}
	}
	checkAbs("listing.search_url", out.Listing.SearchURL)
	checkAbs("listing.base_origin", out.Listing.BaseOrigin)

	if out.Listing.TimeoutSeconds <= 0 {
		res.addErr("listing.timeout_seconds must be > 0")
	}

	sel := out.Listing.Selectors
	for _, f := range []struct{ name, v string }{
		{"card", sel.Card},
		{"title", sel.Title},
		{"link", sel.Link},
		{"description", sel.Description},
	} {
		if strings.TrimSpace(f.v) == "" {
			res.addErr("listing.selectors.%s is required", f.name)
		}
	}

	return out, res
}
