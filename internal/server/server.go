// Package server exposes the assistant over HTTP and a websocket voice
// bus. Text clients use /chat; voice clients stream audio frames over
// /voice and get both the reply text and its synthesized audio back.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	log "log/slog"

	"github.com/google/uuid"

	"caffi/internal/assistant"
	"caffi/internal/speech"
	"caffi/internal/store"
)

type Server struct {
	assistant atomic.Pointer[assistant.Assistant]
	speech    *speech.Client
	http      *http.Server
}

func New(addr string, a *assistant.Assistant, sp *speech.Client) *Server {
	s := &Server{speech: sp}
	s.assistant.Store(a)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /transcribe", s.handleTranscribe)
	mux.HandleFunc("POST /speak", s.handleSpeak)
	mux.HandleFunc("GET /voice", s.handleVoice)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.http = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
	return s
}

// Swap replaces the assistant serving new requests, used after a menu
// reload. In-flight turns finish on the old one.
func (s *Server) Swap(a *assistant.Assistant) {
	s.assistant.Store(a)
}

func (s *Server) Run() error {
	log.Info("Serving", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if req.Message == "" {
		httpError(w, http.StatusBadRequest, fmt.Errorf("empty message"))
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	reply, err := s.assistant.Load().Turn(r.Context(), req.SessionID, req.Message)
	if errors.Is(err, store.ErrStaleSession) {
		httpError(w, http.StatusConflict, err)
		return
	}
	if err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, struct {
		SessionID string `json:"session_id"`
		assistant.Reply
	}{req.SessionID, reply})
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if s.speech == nil {
		httpError(w, http.StatusServiceUnavailable, fmt.Errorf("speech disabled"))
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		httpError(w, http.StatusBadRequest, fmt.Errorf("audio form file: %w", err))
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		httpError(w, http.StatusBadRequest, fmt.Errorf("read audio: %w", err))
		return
	}

	text, err := s.speech.Transcribe(r.Context(), audio, header.Filename)
	if err != nil {
		httpError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, struct {
		Text string `json:"text"`
	}{text})
}

type speakRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleSpeak(w http.ResponseWriter, r *http.Request) {
	if s.speech == nil {
		httpError(w, http.StatusServiceUnavailable, fmt.Errorf("speech disabled"))
		return
	}

	var req speakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	audio, err := s.speech.Speak(r.Context(), speech.CleanForTTS(req.Text))
	if err != nil {
		httpError(w, http.StatusBadGateway, err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Write(audio)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, struct {
		Status string `json:"status"`
	}{"ok"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("write response", "error", err)
	}
}

func httpError(w http.ResponseWriter, code int, err error) {
	log.Warn("request failed", "code", code, "error", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
	}{err.Error()})
}
