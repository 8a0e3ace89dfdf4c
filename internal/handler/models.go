package handler

import (
	"net/http"
	"sort"

	"github.com/thevinciapp/vinci-hub/internal/llm"
)

// ProviderInfo describes one configured completion provider.
type ProviderInfo struct {
	Provider     string   `json:"provider"`
	DefaultModel string   `json:"default_model"`
	Models       []string `json:"models"`
}

// ModelHandler exposes the provider/model catalog to windows so the model
// picker never hardcodes the list.
type ModelHandler struct {
	providers map[string]llm.Client
}

// NewModelHandler creates a new model catalog handler.
func NewModelHandler(providers map[string]llm.Client) *ModelHandler {
	return &ModelHandler{providers: providers}
}

// List handles GET /api/v1/models
func (h *ModelHandler) List(w http.ResponseWriter, r *http.Request) {
	out := make([]ProviderInfo, 0, len(h.providers))
	for name, client := range h.providers {
		out = append(out, ProviderInfo{
			Provider:     name,
			DefaultModel: llm.DefaultModel(llm.Provider(name)),
			Models:       client.Models(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Provider < out[j].Provider })

	respond(w, out, nil)
}
