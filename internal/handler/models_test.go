package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thevinciapp/vinci-hub/internal/llm"
	"github.com/thevinciapp/vinci-hub/internal/model"
)

type staticLLM struct {
	name   string
	models []string
}

func (s *staticLLM) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return &llm.CompletionResponse{}, nil
}
func (s *staticLLM) Name() string     { return s.name }
func (s *staticLLM) Models() []string { return s.models }

func TestModelListSortedCatalog(t *testing.T) {
	h := NewModelHandler(map[string]llm.Client{
		"openai":    &staticLLM{name: "openai", models: []string{"gpt-4o"}},
		"anthropic": &staticLLM{name: "anthropic", models: []string{"claude-3-5-sonnet-20241022"}},
	})

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/models", nil))

	var env model.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.True(t, env.Success)

	var out []ProviderInfo
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.Len(t, out, 2)
	assert.Equal(t, "anthropic", out[0].Provider)
	assert.Equal(t, "openai", out[1].Provider)
	assert.Equal(t, "gpt-4o", out[1].DefaultModel)
	assert.Equal(t, []string{"gpt-4o"}, out[1].Models)
}

func TestModelListEmptyWithoutProviders(t *testing.T) {
	h := NewModelHandler(nil)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/models", nil))

	var env model.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.JSONEq(t, `[]`, string(env.Data))
}
