// Package server exposes the chat engine over HTTP: a websocket endpoint
// for conversation turns and JSON endpoints for invite verification and
// health.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/defipilot/sui-agent/engine"
	"github.com/defipilot/sui-agent/invite"
)

// Server wires the engine, the chain reader used for the system prompt, and
// the invite store into an http.Handler.
type Server struct {
	engine  *engine.Engine
	chain   engine.BalanceReader
	invites *invite.Store
	mux     *http.ServeMux
}

// New creates a server. invites may be nil to disable gating.
func New(eng *engine.Engine, chain engine.BalanceReader, invites *invite.Store) *Server {
	s := &Server{
		engine:  eng,
		chain:   chain,
		invites: invites,
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/verify-invite", s.handleVerifyInvite)
	s.mux.HandleFunc("/ws", s.handleWS)
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe runs the server until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[SERVER] listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type verifyRequest struct {
	InviteCode string `json:"inviteCode"`
	Address    string `json:"address"`
}

type verifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// handleVerifyInvite redeems an invite code (POST) or checks whether an
// address is already verified (GET).
func (s *Server) handleVerifyInvite(w http.ResponseWriter, r *http.Request) {
	if s.invites == nil {
		writeJSON(w, http.StatusOK, verifyResponse{Success: true})
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req verifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, verifyResponse{Message: "invalid request body"})
			return
		}
		if req.InviteCode == "" {
			writeJSON(w, http.StatusBadRequest, verifyResponse{Message: "Invite code is required"})
			return
		}
		ok, err := s.invites.Redeem(r.Context(), req.InviteCode, req.Address)
		if err != nil {
			log.Printf("[SERVER] invite redeem failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, verifyResponse{Message: "Internal server error"})
			return
		}
		if !ok {
			writeJSON(w, http.StatusForbidden, verifyResponse{Message: "Invalid invite code"})
			return
		}
		writeJSON(w, http.StatusOK, verifyResponse{Success: true})

	case http.MethodGet:
		address := r.URL.Query().Get("address")
		if address == "" {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"verified": false, "message": "Address is required",
			})
			return
		}
		verified, err := s.invites.IsVerified(r.Context(), address)
		if err != nil {
			log.Printf("[SERVER] invite check failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"verified": false})
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"verified": verified})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[SERVER] write response: %v", err)
	}
}
