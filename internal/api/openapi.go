package api

import (
	"context"
	_ "embed"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var openapiYAML []byte

var (
	openapiOnce sync.Once
	openapiJSON []byte
	openapiErr  error
)

// loadOpenAPI parses and validates the embedded document once, then
// caches its JSON rendering.
func loadOpenAPI() ([]byte, error) {
	openapiOnce.Do(func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(openapiYAML)
		if err != nil {
			openapiErr = err
			return
		}
		if err := doc.Validate(context.Background()); err != nil {
			openapiErr = err
			return
		}
		openapiJSON, openapiErr = doc.MarshalJSON()
	})
	return openapiJSON, openapiErr
}

// handleOpenAPI serves the API description as JSON.
func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	data, err := loadOpenAPI()
	if err != nil {
		logger(r.Context()).Error().Err(err).Msg("failed to load openapi document")
		writeInternalError(w, "failed to load openapi document")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
