package server

import (
	"encoding/json"
	"net/http"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *LanesServer) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/automations", s.handleListAutomations)
	mux.HandleFunc("GET /v1/automations/{kind}/schema", s.handleSchema)
	mux.HandleFunc("POST /v1/automations/{kind}/submit", s.handleSubmit)
	mux.HandleFunc("GET /v1/automations/{kind}/submissions", s.handleListSubmissions)
	mux.HandleFunc("GET /v1/automations/{kind}/submissions/{id}", s.handleGetSubmission)
	mux.HandleFunc("GET /v1/automations/{kind}/submissions/{id}/download", s.handleDownload)
	mux.HandleFunc("GET /v1/automations/{kind}/submissions/{id}/events", s.handleSubmissionEvents)
	mux.HandleFunc("GET /v1/catalog", s.handleGetCatalog)
	mux.HandleFunc("GET /v1/navigation", s.handleGetNavigation)
	mux.HandleFunc("GET /v1/health", s.handleHealth)

	var handler http.Handler = ActorMiddleware(mux)
	handler = AuthMiddleware(authToken, handler)
	return RecoveryMiddleware(handler)
}

// handleHealth handles GET /v1/health.
func (s *LanesServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
