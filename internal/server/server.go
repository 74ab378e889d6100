package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"portfolio_advisor/internal/chat"
	"portfolio_advisor/internal/models"
	"portfolio_advisor/internal/session"
)

// Server is the HTTP chat transport. It owns session lookup and request
// decoding; everything conversational happens inside chat.Conversation.
type Server struct {
	sessions *session.Store
}

// New returns a server over the given session store.
func New(sessions *session.Store) *Server {
	return &Server{sessions: sessions}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /portfolio", s.handlePortfolio)
	mux.HandleFunc("POST /reset", s.handleReset)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	Status    string `json:"status"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "Please provide a message.")
		return
	}

	id, conv := s.sessions.GetOrCreate(req.SessionID)
	reply, err := conv.HandleTurn(r.Context(), req.Message)
	if err != nil {
		// Detail goes to the log; the client gets a generic failure.
		log.Printf("chat turn failed (session %s): %v", id, err)
		status := http.StatusBadGateway
		if !errors.Is(err, chat.ErrModelCall) {
			status = http.StatusInternalServerError
		}
		writeError(w, status, "Could not complete the request. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{SessionID: id, Message: reply, Status: "success"})
}

type portfolioRequest struct {
	SessionID string           `json:"session_id"`
	Portfolio map[string]int64 `json:"portfolio"`
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	var req portfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	portfolio, err := models.NewPortfolio(req.Portfolio)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid portfolio: "+err.Error())
		return
	}

	id, conv := s.sessions.GetOrCreate(req.SessionID)
	conv.SetPortfolio(portfolio)
	writeJSON(w, http.StatusOK, chatResponse{
		SessionID: id,
		Message:   "Portfolio set: " + portfolio.String(),
		Status:    "success",
	})
}

type resetRequest struct {
	SessionID string `json:"session_id"`
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "Provide a session_id to reset.")
		return
	}

	conv, ok := s.sessions.Get(req.SessionID)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown session.")
		return
	}
	conv.Reset()
	writeJSON(w, http.StatusOK, chatResponse{SessionID: req.SessionID, Message: "Conversation reset.", Status: "success"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.sessions.Len()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, chatResponse{Message: msg, Status: "error"})
}
