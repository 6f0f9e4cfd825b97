package httpapi

import "net/http"

// NewMux returns the read-only status API.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	hh := HealthHandler{}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	sh := StatusHandler{Status: d.Status, Trigger: d.Trigger}
	mux.HandleFunc("/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.Get,
	}))

	ch := ConfigHandler{Cfg: d.Config}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
	}))

	return mux
}

// NewHandler wraps the mux with the standard middleware chain.
func NewHandler(d Deps) http.Handler {
	return Chain(NewMux(d), RequestID, AccessLog, Recover, NoStore)
}
