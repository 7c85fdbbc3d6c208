package server

import (
	"errors"
	"net/http"

	log "log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"caffi/internal/speech"
)

// BusMessage is the websocket frame. The caller sends kind "utterance"
// (Content set) or "audio" (Audio set); replies come back as kind
// "reply" with Content and, when synthesis is on, Audio.
type BusMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Kind    string `json:"kind"`
	Content string `json:"content,omitempty"`
	Audio   []byte `json:"audio,omitempty"`
}

var errTranscriptionOff = errors.New("transcription disabled")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1 << 16,
	WriteBufferSize: 1 << 16,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// handleVoice runs one conversation per connection. The session id is
// minted at upgrade time, so reconnecting starts a fresh order.
func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	log.Info("voice session opened", "session", sessionID, "remote", r.RemoteAddr)

	for {
		var msg BusMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("voice session read failed", "session", sessionID, "error", err)
			}
			return
		}

		reply, err := s.voiceTurn(r, sessionID, msg)
		if err != nil {
			log.Error("voice turn failed", "session", sessionID, "error", err)
			reply = BusMessage{From: "caffi", To: msg.From, Kind: "error", Content: err.Error()}
		}

		if err := conn.WriteJSON(reply); err != nil {
			log.Warn("voice session write failed", "session", sessionID, "error", err)
			return
		}
	}
}

func (s *Server) voiceTurn(r *http.Request, sessionID string, msg BusMessage) (BusMessage, error) {
	ctx := r.Context()

	text := msg.Content
	if msg.Kind == "audio" {
		if s.speech == nil {
			return BusMessage{}, errTranscriptionOff
		}
		var err error
		text, err = s.speech.Transcribe(ctx, msg.Audio, "frame.webm")
		if err != nil {
			return BusMessage{}, err
		}
	}

	reply, err := s.assistant.Load().Turn(ctx, sessionID, text)
	if err != nil {
		return BusMessage{}, err
	}

	out := BusMessage{From: "caffi", To: msg.From, Kind: "reply", Content: reply.Text}
	if s.speech != nil {
		audio, err := s.speech.Speak(ctx, speech.CleanForTTS(reply.Text))
		if err != nil {
			// text reply still goes out, voice is best effort
			log.Warn("synthesis failed", "session", sessionID, "error", err)
		} else {
			out.Audio = audio
		}
	}
	return out, nil
}
