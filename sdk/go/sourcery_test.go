package sourcery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTemplate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/templates/generate", r.URL.Path)
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))

		var req GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sales outreach", req.Prompt)
		assert.Equal(t, []int{0, 2}, req.Exclude)

		json.NewEncoder(w).Encode(GeneratedTemplate{
			Subject:       "Boost revenue",
			Content:       "Hi {{first_name}},",
			TemplateIndex: 1,
			HasMore:       false,
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Token: "anon-key"})
	tpl, err := c.GenerateTemplate(context.Background(), "sales outreach", []int{0, 2})
	require.NoError(t, err)
	assert.Equal(t, "Boost revenue", tpl.Subject)
	assert.Equal(t, 1, tpl.TemplateIndex)
	assert.False(t, tpl.HasMore)
}

func TestGenerateTemplateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"invalid_request","message":"Prompt is required"}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.GenerateTemplate(context.Background(), "", nil)
	require.Error(t, err)

	apiErr, ok := IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "invalid_request", apiErr.Code)
	assert.Equal(t, "Prompt is required", apiErr.Message)
}

func TestGenerateTemplateLegacyErrorShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.GenerateTemplate(context.Background(), "hello", nil)

	apiErr, ok := IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "boom", apiErr.Message)
}

func TestBaseURLNormalization(t *testing.T) {
	c := NewClient(Config{BaseURL: "https://api.sourcery.io/"})
	assert.Equal(t, "https://api.sourcery.io/api/v1", c.cfg.BaseURL)

	c = NewClient(Config{BaseURL: "https://api.sourcery.io/api/v1"})
	assert.Equal(t, "https://api.sourcery.io/api/v1", c.cfg.BaseURL)
}
