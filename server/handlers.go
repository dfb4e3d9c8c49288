package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/cheachwood/GitOnBoard/board"
	"github.com/cheachwood/GitOnBoard/internal/version"
)

// postingRequest carries the mutable fields for create and update.
type postingRequest struct {
	DailyRate   int64  `json:"dailyRate"`
	Description string `json:"description"`
}

// assignRequest carries candidate contact details for assignment.
type assignRequest struct {
	CandidateName  string `json:"candidateName"`
	CandidateEmail string `json:"candidateEmail"`
}

// statusRequest carries the target status ordinal.
type statusRequest struct {
	Status int `json:"status"`
}

// transferRequest carries the new owner identity.
type transferRequest struct {
	NewOwner string `json:"newOwner"`
}

// HandleJobs lists all jobs (GET) or creates one (POST)
func (s *BoardServer) HandleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		jobs, err := s.registry.ListJobs()
		if err != nil {
			s.writeRegistryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, jobs)

	case http.MethodPost:
		var req postingRequest
		if err := readJSON(w, r, &req); err != nil {
			return
		}

		job, err := s.registry.CreateJob(callerIdentity(r), req.DailyRate, req.Description)
		if err != nil {
			s.writeRegistryError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, job)

	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// HandleActiveJobs lists active jobs (GET)
func (s *BoardServer) HandleActiveJobs(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	jobs, err := s.registry.ListActiveJobs()
	if err != nil {
		s.writeRegistryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// HandleJob serves a single job and its candidate/status/toggle subresources
func (s *BoardServer) HandleJob(w http.ResponseWriter, r *http.Request) {
	parts := extractPathParts(r.URL.Path, "/api/jobs/")
	if len(parts) == 0 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "Missing job id")
		return
	}

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid job id")
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			job, err := s.registry.GetJob(id)
			if err != nil {
				s.writeRegistryError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, job)

		case http.MethodPatch:
			var req postingRequest
			if err := readJSON(w, r, &req); err != nil {
				return
			}

			job, err := s.registry.UpdateJob(id, callerIdentity(r), req.DailyRate, req.Description)
			if err != nil {
				s.writeRegistryError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, job)

		default:
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	switch parts[1] {
	case "candidate":
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		var req assignRequest
		if err := readJSON(w, r, &req); err != nil {
			return
		}

		job, err := s.registry.AssignCandidate(id, callerIdentity(r), req.CandidateName, req.CandidateEmail)
		if err != nil {
			s.writeRegistryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, job)

	case "status":
		if !requireMethod(w, r, http.MethodPost) {
			return
		}
		var req statusRequest
		if err := readJSON(w, r, &req); err != nil {
			return
		}

		job, err := s.registry.ChangeStatus(id, callerIdentity(r), board.Status(req.Status))
		if err != nil {
			s.writeRegistryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, job)

	case "toggle":
		if !requireMethod(w, r, http.MethodPost) {
			return
		}

		job, err := s.registry.ToggleActive(id, callerIdentity(r))
		if err != nil {
			s.writeRegistryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, job)

	default:
		writeError(w, http.StatusNotFound, "Unknown resource")
	}
}

// HandleOwner returns the current board owner (GET)
func (s *BoardServer) HandleOwner(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	owner, err := s.registry.Owner()
	if err != nil {
		s.writeRegistryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"owner": owner})
}

// HandleOwnerTransfer transfers board ownership (POST)
func (s *BoardServer) HandleOwnerTransfer(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req transferRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}

	if err := s.registry.TransferOwnership(callerIdentity(r), req.NewOwner); err != nil {
		s.writeRegistryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"owner": req.NewOwner})
}

// HandleOwnerRenounce renounces board ownership (POST)
func (s *BoardServer) HandleOwnerRenounce(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	if err := s.registry.RenounceOwnership(callerIdentity(r)); err != nil {
		s.writeRegistryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"owner": ""})
}

// HandleEvents returns recent registry events, newest first (GET)
func (s *BoardServer) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	events, err := s.registry.ListEvents(limit)
	if err != nil {
		s.writeRegistryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// HandleHealth reports server liveness and build info
func (s *BoardServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": version.Get().Short(),
	})
}

// HandleWebSocket upgrades the connection and streams committed events
func (s *BoardServer) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := s.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnw("WebSocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		server: s,
		conn:   conn,
		send:   make(chan *board.Event, board.SubscriberChannelBufferSize),
		id:     uuid.NewString(),
	}

	s.register <- client

	go client.writePump()
	go client.readPump()
}
