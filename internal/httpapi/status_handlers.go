package httpapi

import (
	"net/http"
	"sync/atomic"

	"jobdigest/internal/scrape/types"
)

type StatusHandler struct {
	Status  *atomic.Value // types.RunStatus
	Trigger string
}

type statusResponse struct {
	types.RunStatus
	Trigger string `json:"trigger"`
}

func (h StatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Status == nil {
		WriteError(w, r, http.StatusServiceUnavailable, "no_status", "status tracking is disabled")
		return
	}
	// zero value until the first run
	st, _ := h.Status.Load().(types.RunStatus)
	WriteJSON(w, http.StatusOK, statusResponse{RunStatus: st, Trigger: h.Trigger})
}
