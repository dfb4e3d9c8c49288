package server

import "net/http"

// setupHTTPRoutes configures all HTTP handlers
func (s *BoardServer) setupHTTPRoutes() {
	api := func(h http.HandlerFunc) http.HandlerFunc {
		return s.corsMiddleware(s.rateLimitMiddleware(h))
	}

	s.mux.HandleFunc("/ws", s.corsMiddleware(s.HandleWebSocket)) // Event stream push
	s.mux.HandleFunc("/health", s.corsMiddleware(s.HandleHealth))

	s.mux.HandleFunc("/api/jobs", api(s.HandleJobs))              // List (GET) / create (POST)
	s.mux.HandleFunc("/api/jobs/active", api(s.HandleActiveJobs)) // Active jobs (GET)
	s.mux.HandleFunc("/api/jobs/", api(s.HandleJob))              // Job by id, candidate/status/toggle subresources

	s.mux.HandleFunc("/api/owner", api(s.HandleOwner))                   // Current owner (GET)
	s.mux.HandleFunc("/api/owner/transfer", api(s.HandleOwnerTransfer))  // Transfer ownership (POST)
	s.mux.HandleFunc("/api/owner/renounce", api(s.HandleOwnerRenounce))  // Renounce ownership (POST)

	s.mux.HandleFunc("/api/events", api(s.HandleEvents)) // Event log (GET)
}

// corsMiddleware adds CORS headers to HTTP responses using configured allowed origins
// Uses the same origin validation as WebSocket connections (server.allowed_origins config)
func (s *BoardServer) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// If origin is present and allowed by config, set CORS headers
		if origin != "" && s.checkOrigin(r) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+actorHeader)

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}
