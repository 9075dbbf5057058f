package api

import (
	"net/http"
)

const rootPage = `<!DOCTYPE html>
<html>
<head><title>Night Report Service</title></head>
<body>
<h1>Night Report Service</h1>
<p>Create and manage Vera C. Rubin Observatory night reports.</p>
<ul>
<li><a href="/nightreport/openapi.json">OpenAPI specification</a></li>
<li><a href="/nightreport/configuration">Configuration</a></li>
<li><a href="/nightreport/reports">Reports</a></li>
</ul>
</body>
</html>
`

// handleRoot serves a small HTML landing page linking to the API surface.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(rootPage))
}

type configurationResponse struct {
	SiteID string `json:"site_id"`
}

// handleGetConfiguration returns the non-secret configuration of the service.
func (s *Server) handleGetConfiguration(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, configurationResponse{SiteID: s.cfg.SiteID})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.healthManager.ServeHealth(w, r)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	s.healthManager.ServeReady(w, r)
}
