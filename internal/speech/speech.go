// Package speech wraps the hosted transcription and synthesis endpoints.
// Audio stays opaque bytes end to end, no local signal processing.
package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	log "log/slog"

	openai "github.com/openai/openai-go/v3"
)

// Client converts caller audio to Spanish text and replies back to audio.
type Client struct {
	ai    openai.Client
	voice openai.AudioSpeechNewParamsVoice
}

func New(ai openai.Client) *Client {
	return &Client{ai: ai, voice: openai.AudioSpeechNewParamsVoice("nova")}
}

// Transcribe sends the uploaded audio to Whisper, pinned to Spanish so
// short utterances ("si", "grande") are not mis-detected.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("transcribe: empty audio")
	}
	if filename == "" {
		filename = "audio.webm"
	}

	resp, err := c.ai.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model:    openai.AudioModelWhisper1,
		File:     openai.File(bytes.NewReader(audio), filename, "application/octet-stream"),
		Language: openai.String("es"),
	})
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	log.Debug("transcribed", "chars", len(text))
	return text, nil
}

// Speak synthesizes the reply as MP3. The text should already be run
// through CleanForTTS.
func (c *Client) Speak(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("speak: empty text")
	}

	resp, err := c.ai.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModelTTS1,
		Voice:          c.voice,
		Input:          text,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return nil, fmt.Errorf("speak: %w", err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("speak: read body: %w", err)
	}
	return audio, nil
}

var ttsReplacer = strings.NewReplacer(
	"**", "", "*", "", "#", "", "`", "",
	"_", " ", "~", "",
	"\n", ". ",
)

// CleanForTTS strips markdown leftovers and collapses whitespace so the
// synthesizer does not read formatting aloud.
func CleanForTTS(text string) string {
	out := ttsReplacer.Replace(text)
	out = strings.Join(strings.Fields(out), " ")
	out = strings.ReplaceAll(out, " .", ".")
	return strings.TrimSpace(out)
}
