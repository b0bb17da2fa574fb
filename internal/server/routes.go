package server

import (
	"net/http"
	"strings"

	"github.com/bobmcallan/finbot/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Questions
	mux.HandleFunc("/api/ask", s.handleAsk)
	mux.HandleFunc("/api/topics", s.handleTopics)

	// Adaptive state
	mux.HandleFunc("/api/feedback", s.handleFeedback)
	mux.HandleFunc("/api/users/", s.routeUsers)
}

// routeUsers dispatches /api/users/{id}/{mode|profile}.
func (s *Server) routeUsers(w http.ResponseWriter, r *http.Request) {
	userID := PathParam(r, "/api/users/", "/")
	action := strings.TrimPrefix(r.URL.Path, "/api/users/"+userID)
	if userID == "" || !strings.HasPrefix(action, "/") {
		WriteErrorWithCode(w, http.StatusNotFound, "Not found", codeNotFound)
		return
	}

	switch strings.TrimPrefix(action, "/") {
	case "mode":
		s.handleUserMode(w, r, userID)
	case "profile":
		switch r.Method {
		case http.MethodGet:
			s.handleUserProfileGet(w, r, userID)
		case http.MethodDelete:
			s.handleUserProfileDelete(w, r, userID)
		default:
			w.Header().Set("Allow", "GET, DELETE")
			WriteErrorWithCode(w, http.StatusMethodNotAllowed, "Method not allowed", codeMethodNotAllowed)
		}
	default:
		WriteErrorWithCode(w, http.StatusNotFound, "Not found", codeNotFound)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}
