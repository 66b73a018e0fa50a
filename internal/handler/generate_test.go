package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcery-io/sourcery/internal/config"
	"github.com/sourcery-io/sourcery/internal/logger"
	"github.com/sourcery-io/sourcery/internal/model"
	"github.com/sourcery-io/sourcery/internal/service"
)

func newGenerateTestHandler() *Handler {
	log := logger.New("error", "text")
	return &Handler{
		log:         log,
		cfg:         &config.Config{},
		generateSvc: service.NewGenerateService(nil, log),
	}
}

func postJSON(t *testing.T, handlerFn http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handlerFn(rec, req)
	return rec
}

func TestGenerateTemplateEndpoint(t *testing.T) {
	h := newGenerateTestHandler()

	rec := postJSON(t, h.GenerateTemplate, "/api/v1/templates/generate", model.GenerateTemplateRequest{
		Prompt: "Sales outreach to tech companies",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.GeneratedTemplate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Subject)
	assert.NotEmpty(t, resp.Content)
	assert.GreaterOrEqual(t, resp.TemplateIndex, 0)
}

func TestGenerateTemplateEndpointEmptyPrompt(t *testing.T) {
	h := newGenerateTestHandler()

	rec := postJSON(t, h.GenerateTemplate, "/api/v1/templates/generate", model.GenerateTemplateRequest{
		Prompt: "",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp["error"]["code"])
}

func TestGenerateTemplateEndpointBadBody(t *testing.T) {
	h := newGenerateTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/templates/generate", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.GenerateTemplate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuickPicksEndpoint(t *testing.T) {
	h := newGenerateTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/templates/quick-picks", nil)
	rec := httptest.NewRecorder()
	h.QuickPicks(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		QuickPicks []struct {
			Slug  string `json:"slug"`
			Title string `json:"title"`
		} `json:"quickPicks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.QuickPicks, 3)
	assert.Equal(t, "cold-outreach", resp.QuickPicks[0].Slug)
}
