package summarizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(endpoint string) *Client {
	c := NewClient("test-key")
	c.Endpoint = endpoint
	return c
}

func TestSummarize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, defaultModel, req.Model)
		assert.InDelta(t, 0.3, req.Temperature, 0.001)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Contains(t, req.Messages[1].Content, "The Interview")
		assert.Contains(t, req.Messages[1].Content, "https://example.com/a")

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "  # Summary\n\nKey points.  "}},
			},
		})
	}))
	defer server.Close()

	summary, err := testClient(server.URL).Summarize(context.Background(), "The Interview", "https://example.com/a", "long content")
	require.NoError(t, err)
	assert.Equal(t, "# Summary\n\nKey points.", summary)
}

func TestSummarizeHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := testClient(server.URL).Summarize(context.Background(), "t", "u", "c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestSummarizeEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).Summarize(context.Background(), "t", "u", "c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected summarizer response")
}

func TestSummarizeMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := testClient(server.URL).Summarize(context.Background(), "t", "u", "c")
	assert.Error(t, err)
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("标题", "https://example.com", "内容")

	assert.Contains(t, prompt, "访谈标题：标题")
	assert.Contains(t, prompt, "原文链接：https://example.com")
	assert.Contains(t, prompt, "内容")
}
