package server

import (
	"encoding/json"
	"io"
	"net/http"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *Server) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	// The ingress endpoint accepts every method so the dispatcher can do
	// its own unit classification (POST, OPTIONS preflight, unsupported).
	mux.HandleFunc("/v1/events", s.handleIngest)
	mux.HandleFunc("GET /v1/sessions/{id}/events", s.handleGetSessionEvents)
	mux.HandleFunc("DELETE /v1/sessions/{id}", s.handleFlushSession)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	return AuthMiddleware(authToken, mux)
}

// handleIngest handles the request-sourced ingress on /v1/events.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	var body []byte
	if r.Body != nil {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unreadable request body")
			return
		}
		body = data
	}

	resp := s.dispatcher.ProcessRequest(r.Context(), r.Method, body)
	writeJSON(w, resp.StatusCode, resp.Body)
}

// handleGetSessionEvents handles GET /v1/sessions/{id}/events. All documents
// for the session are returned; more than one means a create race left
// duplicates behind.
func (s *Server) handleGetSessionEvents(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	docs, err := s.store.FindBySessionID(r.Context(), sessionID)
	if err != nil {
		s.logger.Error("session lookup failed", "session_id", sessionID, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sessionId": sessionID,
		"documents": docs,
	})
}

// handleFlushSession handles DELETE /v1/sessions/{id}: the REST route to the
// same flush the reserved event signature triggers.
func (s *Server) handleFlushSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	res, err := s.engine.Flush(r.Context(), sessionID)
	if err != nil {
		s.logger.Error("flush failed", "session_id", sessionID, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// handleHealth handles GET /v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// setCORSHeaders adds the fixed CORS headers the ingress responds with,
// including on preflight.
func setCORSHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
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
