package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/repo-insight/internal/domain/ai"
)

func TestReview(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","choices":[
			{"index":0,"message":{"role":"assistant","content":"SCORE: 6\nRECOMMENDATIONS:\n1. a"}},
			{"index":1,"message":{"role":"assistant","content":"second"}}
		]}`)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("sk-test", "gpt-4o-mini", srv.URL+"/v1")
	text, err := c.Review(context.Background(), ai.ReviewRequest{Path: "x.py", Extension: "py", Content: "print(1)"})
	require.NoError(t, err)
	assert.Equal(t, "SCORE: 6\nRECOMMENDATIONS:\n1. a", text)

	assert.Equal(t, "gpt-4o-mini", got["model"])
	assert.EqualValues(t, maxTokens, got["max_tokens"])
	msgs := got["messages"].([]any)
	require.Len(t, msgs, 1)
	assert.Equal(t, "user", msgs[0].(map[string]any)["role"])
}

func TestReview_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		quota  bool
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"slow down","type":"rate_limit"}}`, true},
		{"server error", http.StatusBadGateway, `{"error":{"message":"bad gateway","type":"server"}}`, false},
		{"empty choices", http.StatusOK, `{"id":"x","choices":[]}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewClientWithBaseURL("k", "gpt-4o-mini", srv.URL+"/v1").Review(context.Background(), ai.ReviewRequest{})
			assert.ErrorIs(t, err, ai.ErrReviewUnavailable)
			if tt.quota {
				assert.ErrorIs(t, err, ai.ErrQuotaExceeded)
			} else {
				assert.NotErrorIs(t, err, ai.ErrQuotaExceeded)
			}
		})
	}
}

func TestIsReasoning(t *testing.T) {
	assert.True(t, isReasoning("o3-mini"))
	assert.True(t, isReasoning("gpt-5"))
	assert.False(t, isReasoning("gpt-4o"))
}
