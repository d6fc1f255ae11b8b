package catalog

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	IntegrationName string `json:"integrationName"`
	Name            string `json:"name"`
}

func TestClient_Fetch(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    []entry
		wantErr error
	}{
		{
			name:   "decodes array",
			status: http.StatusOK,
			body:   `[{"integrationName":"healthmart","name":"HealthMart"},{"integrationName":"careplus","name":"CarePlus"}]`,
			want: []entry{
				{IntegrationName: "healthmart", Name: "HealthMart"},
				{IntegrationName: "careplus", Name: "CarePlus"},
			},
		},
		{name: "empty array", status: http.StatusOK, body: `[]`, want: []entry{}},
		{name: "server error", status: http.StatusBadGateway, body: `oops`, wantErr: ErrUnavailable},
		{name: "not an array", status: http.StatusOK, body: `{"integrationName":"x"}`, wantErr: ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			var got []entry
			err := NewClient(server.URL, time.Second).Fetch(context.Background(), &got)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_Fetch_NotConfigured(t *testing.T) {
	var got []entry
	assert.ErrorIs(t, NewClient("", 0).Fetch(context.Background(), &got), ErrNotConfigured)
}

func TestClient_Fetch_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	var got []entry
	assert.ErrorIs(t, NewClient(addr, time.Second).Fetch(context.Background(), &got), ErrUnavailable)
}
