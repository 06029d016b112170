package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"sync"

	"github.com/gorilla/mux"
	"gopkg.in/yaml.v3"
)

// OpenAPIHandler serves the API specification in YAML and JSON.
type OpenAPIHandler struct {
	path string

	once    sync.Once
	yamlRaw []byte
	jsonRaw []byte
	loadErr error
}

// NewOpenAPIHandler creates a handler serving the spec file at path.
func NewOpenAPIHandler(path string) *OpenAPIHandler {
	return &OpenAPIHandler{path: path}
}

// RegisterRoutes registers OpenAPI routes
func (h *OpenAPIHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/v1/openapi.yaml", h.ServeYAML).Methods("GET")
	r.HandleFunc("/api/v1/openapi.json", h.ServeJSON).Methods("GET")
}

// load reads the YAML spec once and pre-renders the JSON form.
func (h *OpenAPIHandler) load() {
	h.once.Do(func() {
		data, err := os.ReadFile(h.path)
		if err != nil {
			h.loadErr = err
			return
		}
		h.yamlRaw = data

		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			h.loadErr = err
			return
		}
		h.jsonRaw, h.loadErr = json.Marshal(doc)
	})
}

// ServeYAML serves the OpenAPI spec in YAML format
func (h *OpenAPIHandler) ServeYAML(w http.ResponseWriter, r *http.Request) {
	h.load()
	if h.loadErr != nil {
		http.Error(w, "OpenAPI specification not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/x-yaml")
	_, _ = w.Write(h.yamlRaw)
}

// ServeJSON serves the OpenAPI spec converted to JSON
func (h *OpenAPIHandler) ServeJSON(w http.ResponseWriter, r *http.Request) {
	h.load()
	if h.loadErr != nil {
		http.Error(w, "OpenAPI specification not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(h.jsonRaw)
}
