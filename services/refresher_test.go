package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globaltripmarket/finance-api/models"
)

func TestRefresher_Refresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"transactions": [
			{"id": 1, "amount": "100", "type": "INCOME", "description": "Tur", "created_at": "2024-01-10T10:00:00Z"}
		]}`))
	}))
	defer srv.Close()

	var pushed atomic.Int32
	r := NewRefresher(newTestN8N(srv), time.Minute, func(data models.DashboardData) {
		pushed.Add(1)
	})

	_, _, ok := r.Latest()
	assert.False(t, ok, "no snapshot before the first refresh")

	require.True(t, r.Refresh(context.Background()))

	data, updated, ok := r.Latest()
	require.True(t, ok)
	assert.Len(t, data.Transactions, 1)
	assert.WithinDuration(t, time.Now(), updated, time.Second)
	assert.Equal(t, int32(1), pushed.Load())
}

func TestRefresher_KeepsSnapshotOnFailure(t *testing.T) {
	var failing atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"transactions": [{"id": 1, "amount": "100", "description": "Tur"}]}`))
	}))
	defer srv.Close()

	r := NewRefresher(newTestN8N(srv), time.Minute, nil)
	require.True(t, r.Refresh(context.Background()))

	failing.Store(true)
	assert.False(t, r.Refresh(context.Background()))

	// The previous good snapshot survives the failed refresh.
	data, _, ok := r.Latest()
	require.True(t, ok)
	assert.Len(t, data.Transactions, 1)
}

func TestRefresher_RunStopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"transactions": []}`))
	}))
	defer srv.Close()

	r := NewRefresher(newTestN8N(srv), 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}
