package httpapi

import (
	"net/http"

	"jobdigest/internal/config"
)

// ConfigHandler exposes the effective configuration, minus the password.
type ConfigHandler struct {
	Cfg config.Config
}

type mailView struct {
	Host        string `json:"host"`
	Port        int    `json:"port"`
	User        string `json:"user"`
	PasswordSet bool   `json:"password_set"`
}

type configView struct {
	Mail         mailView          `json:"mail"`
	Trigger      string            `json:"trigger"`
	CheckSeconds int               `json:"check_seconds"`
	SearchURL    string            `json:"search_url"`
	BaseOrigin   string            `json:"base_origin"`
	Timeout      int               `json:"timeout_seconds"`
	Selectors    config.Selectors  `json:"selectors"`
	Keywords     []string          `json:"keywords"`
	Validation   config.Validation `json:"validation"`
}

func (h ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	c := h.Cfg
	_, vr := config.NormalizeAndValidate(c)

	kw := c.Filters.Keywords
	if kw == nil {
		kw = []string{}
	}
	WriteJSON(w, http.StatusOK, configView{
		Mail: mailView{
			Host:        c.Mail.Host,
			Port:        c.Mail.Port,
			User:        c.Mail.User,
			PasswordSet: c.Mail.Password != "",
		},
		Trigger:      c.Schedule.Trigger,
		CheckSeconds: c.Schedule.CheckSeconds,
		SearchURL:    c.Listing.SearchURL,
		BaseOrigin:   c.Listing.BaseOrigin,
		Timeout:      c.Listing.TimeoutSeconds,
		Selectors:    c.Listing.Selectors,
		Keywords:     kw,
		Validation:   vr,
	})
}
