package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAPIDocumentValidates(t *testing.T) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiYAML)
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))

	// Every route the router serves must be described.
	for _, path := range []string{
		"/nightreport/reports",
		"/nightreport/reports/{id}",
		"/nightreport/configuration",
	} {
		assert.NotNil(t, doc.Paths.Find(path), "missing path %s", path)
	}
}

func TestHandleOpenAPI(t *testing.T) {
	s, _, _ := newTestServer(t)

	rr := doRequest(t, s, http.MethodGet, "/nightreport/openapi.json", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
}
