package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, h http.HandlerFunc) *Store {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	cli, err := minio.New(u.Host, &minio.Options{
		Creds:  credentials.NewStaticV4("key", "secret", ""),
		Region: "us-east-1",
	})
	require.NoError(t, err)
	return NewWithClient(cli, "reports-bucket")
}

func TestPutJSON(t *testing.T) {
	var gotPath, gotType string
	var gotBody []byte
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	})

	link, err := s.PutJSON(context.Background(), "reports/alice/id-1.json", map[string]any{"score": 7})
	require.NoError(t, err)
	assert.Equal(t, "/reports-bucket/reports/alice/id-1.json", gotPath)
	assert.Equal(t, "application/json", gotType)
	assert.JSONEq(t, `{"score":7}`, string(gotBody))
	assert.Contains(t, link, "/reports-bucket/reports/alice/id-1.json")
	assert.Contains(t, link, "http://")
}

func TestPutJSON_Denied(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>Access Denied.</Message></Error>`)
	})

	_, err := s.PutJSON(context.Background(), "reports/alice/id-1.json", map[string]any{})
	assert.Error(t, err)
}

func TestPutJSON_Unencodable(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := s.PutJSON(context.Background(), "k", map[string]any{"ch": make(chan int)})
	assert.Error(t, err)
}
