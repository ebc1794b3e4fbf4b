package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/repo-insight/internal/domain/ai"
)

func newServer(t *testing.T, status int, body string, seen *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			http.NotFound(w, r)
			return
		}
		if seen != nil {
			b, _ := io.ReadAll(r.Body)
			*seen = string(b)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestReview_FirstCandidate(t *testing.T) {
	var seen string
	srv := newServer(t, http.StatusOK, `{"candidates":[
		{"content":{"role":"model","parts":[{"text":"SCORE: 8\n"},{"text":"RECOMMENDATIONS:\n1. a"}]}},
		{"content":{"role":"model","parts":[{"text":"ignored"}]}}
	]}`, &seen)

	c, err := NewClient(context.Background(), "key", "gemini-test", srv.URL)
	require.NoError(t, err)

	text, err := c.Review(context.Background(), ai.ReviewRequest{Path: "a.go", Extension: "go", Content: "package a"})
	require.NoError(t, err)
	assert.Equal(t, "SCORE: 8\nRECOMMENDATIONS:\n1. a", text)

	var body struct {
		Contents []struct {
			Role  string `json:"role"`
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
	}
	require.NoError(t, json.Unmarshal([]byte(seen), &body))
	require.Len(t, body.Contents, 1)
	assert.Equal(t, "user", body.Contents[0].Role)
	assert.Contains(t, body.Contents[0].Parts[0].Text, "File path: a.go")
}

func TestReview_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		quota  bool
	}{
		{"quota", http.StatusTooManyRequests, `{"error":{"code":429,"message":"quota","status":"RESOURCE_EXHAUSTED"}}`, true},
		{"server error", http.StatusInternalServerError, `{"error":{"code":500,"message":"boom","status":"INTERNAL"}}`, false},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.status, tt.body, nil)
			c, err := NewClient(context.Background(), "key", "", srv.URL)
			require.NoError(t, err)

			_, err = c.Review(context.Background(), ai.ReviewRequest{Path: "a.go"})
			assert.ErrorIs(t, err, ai.ErrReviewUnavailable)
			if tt.quota {
				assert.ErrorIs(t, err, ai.ErrQuotaExceeded)
			} else {
				assert.NotErrorIs(t, err, ai.ErrQuotaExceeded)
			}
		})
	}
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), "", "", "")
	assert.Error(t, err)
}
