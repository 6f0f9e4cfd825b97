package httpapi

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"jobdigest/internal/config"
	"jobdigest/internal/scrape/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	h := NewHandler(Deps{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
}

func TestStatus_BeforeFirstRun(t *testing.T) {
	h := NewHandler(Deps{Status: &atomic.Value{}, Trigger: "12:00"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "12:00", body["trigger"])
	assert.Equal(t, false, body["running"])
	assert.Equal(t, "", body["last_run_at"])
}

func TestStatus_AfterRun(t *testing.T) {
	st := &atomic.Value{}
	st.Store(types.RunStatus{
		LastRunAt:    "2026-10-19T12:00:00Z",
		LastError:    "send: mail via smtp.example.com:587: 535 rejected",
		LastPostings: 3,
	})
	h := NewHandler(Deps{Status: st, Trigger: "12:00"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2026-10-19T12:00:00Z", body["last_run_at"])
	assert.Contains(t, body["last_error"], "535 rejected")
	assert.Equal(t, float64(3), body["last_postings"])
}

func TestStatus_Disabled(t *testing.T) {
	h := NewHandler(Deps{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var e ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	assert.Equal(t, "no_status", e.Error.Code)
	assert.NotEmpty(t, e.Error.RequestID)
}

func TestConfig_RedactsPassword(t *testing.T) {
	cfg := config.Default()
	cfg.Mail.Host = "smtp.example.com"
	cfg.Mail.Port = 465
	cfg.Mail.User = "me@example.com"
	cfg.Mail.Password = "hunter2"
	h := NewHandler(Deps{Config: cfg})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/config", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hunter2")

	var body struct {
		Mail struct {
			Host        string `json:"host"`
			PasswordSet bool   `json:"password_set"`
		} `json:"mail"`
		Trigger    string            `json:"trigger"`
		Selectors  config.Selectors  `json:"selectors"`
		Validation config.Validation `json:"validation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "smtp.example.com", body.Mail.Host)
	assert.True(t, body.Mail.PasswordSet)
	assert.Equal(t, "12:00", body.Trigger)
	assert.Equal(t, ".job-card", body.Selectors.Card)
	assert.Empty(t, body.Validation.Errors)
	assert.Len(t, body.Validation.Warnings, 1)
}

func TestMethodNotAllowed(t *testing.T) {
	h := NewHandler(Deps{Status: &atomic.Value{}})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/status", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET", rec.Header().Get("Allow"))
}

func TestRecover(t *testing.T) {
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), RequestID, Recover)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))
}

func TestServeListener_StopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ServeListener(ctx, ln, NewHandler(Deps{})) }()

	require.Eventually(t, func() bool {
		res, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		res.Body.Close()
		return res.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
