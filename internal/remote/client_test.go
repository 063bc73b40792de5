package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/devnote/internal/clock"
	"github.com/at-ishikawa/devnote/internal/storage"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "devnote_users", 2, 5*time.Second)
	client.clock = clock.Fixed(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestClient_Get(t *testing.T) {
	tests := []struct {
		name         string
		handler      func(t *testing.T, calls *atomic.Int32) http.HandlerFunc
		want         Document
		wantNotFound bool
		wantErr      bool
		wantCalls    int32
	}{
		{
			name: "found",
			handler: func(t *testing.T, calls *atomic.Int32) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					calls.Add(1)
					assert.Equal(t, http.MethodGet, r.Method)
					assert.Equal(t, "/devnote_users/sync-key", r.URL.Path)
					writeJSON(t, w, http.StatusOK, Document{
						Data:      `{"schemaVersion":2}`,
						UpdatedAt: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
					})
				}
			},
			want: Document{
				Data:      `{"schemaVersion":2}`,
				UpdatedAt: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
			},
			wantCalls: 1,
		},
		{
			name: "missing document is not retried",
			handler: func(t *testing.T, calls *atomic.Int32) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					calls.Add(1)
					http.NotFound(w, r)
				}
			},
			wantNotFound: true,
			wantCalls:    1,
		},
		{
			name: "server errors are retried",
			handler: func(t *testing.T, calls *atomic.Int32) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					if calls.Add(1) == 1 {
						w.WriteHeader(http.StatusServiceUnavailable)
						return
					}
					writeJSON(t, w, http.StatusOK, Document{Data: "{}"})
				}
			},
			want:      Document{Data: "{}"},
			wantCalls: 2,
		},
		{
			name: "client errors are not retried",
			handler: func(t *testing.T, calls *atomic.Int32) http.HandlerFunc {
				return func(w http.ResponseWriter, r *http.Request) {
					calls.Add(1)
					w.WriteHeader(http.StatusForbidden)
				}
			},
			wantErr:   true,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			client := newTestClient(t, tt.handler(t, &calls))

			got, err := client.Get(context.Background(), "sync-key")
			assert.Equal(t, tt.wantCalls, calls.Load())
			switch {
			case tt.wantNotFound:
				assert.ErrorIs(t, err, storage.ErrNotFound)
			case tt.wantErr:
				var respErr *ResponseError
				require.ErrorAs(t, err, &respErr)
				assert.Equal(t, http.StatusForbidden, respErr.StatusCode)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestClient_Put(t *testing.T) {
	var received Document
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/devnote_users/sync-key", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.Write(context.Background(), "sync-key", []byte(`{"schemaVersion":2}`)))
	assert.Equal(t, Document{
		Data:      `{"schemaVersion":2}`,
		UpdatedAt: time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC),
	}, received)
}

func TestClient_Read(t *testing.T) {
	t.Run("empty data is treated as missing", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, Document{})
		})
		_, err := client.Read(context.Background(), "sync-key")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("returns the snapshot", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, Document{Data: `{"logs":[]}`})
		})
		got, err := client.Read(context.Background(), "sync-key")
		require.NoError(t, err)
		assert.Equal(t, `{"logs":[]}`, string(got))
	})
}
