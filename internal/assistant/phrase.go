package assistant

import (
	"context"
	"fmt"
	"strings"

	log "log/slog"

	openai "github.com/openai/openai-go/v3"
)

const phrasePrompt = `
Eres el barista virtual de Starbucks México. Recibes la respuesta exacta
que debes dar al cliente.

REGLAS:
1. Reformula la respuesta con calidez y naturalidad, como un barista real.
2. NUNCA cambies los datos: nombres de productos, tamaños, precios,
   números de pedido, estrellas y sucursales se repiten tal cual.
3. No agregues productos, promociones ni preguntas que no estén en la
   respuesta original.
4. Máximo dos oraciones más que la respuesta original.
5. Responde solo con el texto final, sin comillas ni markdown.
`

// phrase asks the model to reword the deterministic reply. Any failure
// falls back to the original text, a turn never dies on phrasing.
func (a *Assistant) phrase(ctx context.Context, utterance, text string) string {
	out, err := a.rephrase(ctx, utterance, text)
	if err != nil {
		log.Warn("phrasing failed, using deterministic reply", "error", err)
		return text
	}
	return out
}

func (a *Assistant) rephrase(ctx context.Context, utterance, text string) (string, error) {
	resp, err := a.ai.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(phrasePrompt),
			openai.UserMessage(fmt.Sprintf("Cliente dijo: %q\nRespuesta a reformular: %s", utterance, text)),
		},
		Model: openai.ChatModelGPT5Nano,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", fmt.Errorf("empty message content")
	}
	return out, nil
}
