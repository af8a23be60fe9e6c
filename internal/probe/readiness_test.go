package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReachable_OKOnSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.True(t, Reachable(context.Background(), srv.URL))
}

func TestReachable_FalseOn500(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	assert.False(t, Reachable(context.Background(), srv.URL))
}

func TestReachable_FalseOnUnreachable(t *testing.T) {
	assert.False(t, Reachable(context.Background(), "http://127.0.0.1:1"))
}

func TestWaitReady_SucceedsOnceServerComesUp(t *testing.T) {
	var ready bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ready {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	go func() {
		time.Sleep(150 * time.Millisecond)
		ready = true
	}()

	err := WaitReady(context.Background(), srv.URL, 2*time.Second, 50*time.Millisecond)
	require.NoError(t, err)
}

func TestWaitReady_TimesOut(t *testing.T) {
	start := time.Now()
	err := WaitReady(context.Background(), "http://127.0.0.1:1", 300*time.Millisecond, 50*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
	assert.GreaterOrEqual(t, time.Since(start), 300*time.Millisecond)
}
