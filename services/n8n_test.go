package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestN8N(srv *httptest.Server) *N8NService {
	return NewN8NService(srv.URL+"/dashboard-data", srv.URL+"/islem-ekle", srv.URL+"/chatbot", 5*time.Second)
}

func TestFetchDashboardRaw(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/dashboard-data", r.URL.Path)
		w.Write([]byte(`{"transactions": []}`))
	}))
	defer srv.Close()

	raw, err := newTestN8N(srv).FetchDashboardRaw(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"transactions": []}`, string(raw))
}

func TestFetchDashboardRaw_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestN8N(srv).FetchDashboardRaw(context.Background())
	assert.ErrorContains(t, err, "status 500")
}

func TestFetchDashboardRaw_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := newTestN8N(srv).FetchDashboardRaw(context.Background())
	assert.ErrorContains(t, err, "unreachable")
}

func TestAddTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/islem-ekle", r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		var payload map[string]string
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, "Ahmet'e 500 TL mazot parası verdim", payload["text"])

		_, err := time.Parse(time.RFC3339, payload["timestamp"])
		assert.NoError(t, err, "timestamp must be RFC3339")

		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	err := newTestN8N(srv).AddTransaction(context.Background(), "Ahmet'e 500 TL mazot parası verdim")
	assert.NoError(t, err)
}

func TestAddTransaction_EmptyBodyIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	assert.NoError(t, newTestN8N(srv).AddTransaction(context.Background(), "test"))
}

func TestAddTransaction_BodyLevelFailure(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"explicit error", `{"error": "tutar bulunamadı"}`},
		{"success false", `{"success": false}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			assert.Error(t, newTestN8N(srv).AddTransaction(context.Background(), "test"))
		})
	}
}

func TestAIQuery_ResponseFormats(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"text format", `{"text": "Bu ay 12.500 TL gider var.", "success": true}`, "Bu ay 12.500 TL gider var."},
		{"output format", `{"output": "Toplam gelir 40.000 TL."}`, "Toplam gelir 40.000 TL."},
		{"legacy plain text", `sadece metin`, "sadece metin"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, _ := io.ReadAll(r.Body)
				var payload map[string]string
				require.NoError(t, json.Unmarshal(body, &payload))
				assert.Equal(t, "soru", payload["chatInput"])
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			answer, err := newTestN8N(srv).AIQuery(context.Background(), "soru")
			require.NoError(t, err)
			assert.Equal(t, tc.want, answer)
		})
	}
}

func TestAIQuery_WorkflowFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text": "", "success": false}`))
	}))
	defer srv.Close()

	_, err := newTestN8N(srv).AIQuery(context.Background(), "soru")
	assert.Error(t, err)
}
