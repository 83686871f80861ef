package chat

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"google.golang.org/genai"

	"github.com/guesthouse-ai/concierge/internal/config"
	"github.com/guesthouse-ai/concierge/internal/session"
)

// Generator produces the next assistant reply given the prior transcript
// and the new user message.
type Generator interface {
	Generate(ctx context.Context, transcript []session.Entry, message string) (string, error)
}

// GeminiGenerator implements Generator against the Gemini API through
// Genkit's googlegenai plugin.
type GeminiGenerator struct {
	g      *genkit.Genkit
	model  string
	config *genai.GenerateContentConfig
}

// NewGeminiGenerator creates a generator using the model and sampling
// parameters from cfg.
func NewGeminiGenerator(g *genkit.Genkit, cfg *config.Config) *GeminiGenerator {
	return &GeminiGenerator{
		g:     g,
		model: "googleai/" + cfg.ModelName,
		config: &genai.GenerateContentConfig{
			Temperature:     genai.Ptr(cfg.Temperature),
			TopP:            genai.Ptr(cfg.TopP),
			TopK:            genai.Ptr(float32(cfg.TopK)),
			MaxOutputTokens: cfg.MaxOutputTokens,
		},
	}
}

// Generate replays the transcript as a multi-turn exchange and submits
// message as the final user turn.
//
// The priming instruction travels as a user turn like any other stored
// entry: the Gemini chat API has no separate system channel inside a
// running history, and the model must see exactly what it saw when the
// transcript was recorded.
func (gg *GeminiGenerator) Generate(ctx context.Context, transcript []session.Entry, message string) (string, error) {
	msgs := make([]*ai.Message, 0, len(transcript)+1)
	for _, e := range transcript {
		switch e.Role {
		case session.RoleAssistant:
			msgs = append(msgs, ai.NewModelTextMessage(e.Text))
		default:
			msgs = append(msgs, ai.NewUserTextMessage(e.Text))
		}
	}
	msgs = append(msgs, ai.NewUserTextMessage(message))

	resp, err := genkit.Generate(ctx, gg.g,
		ai.WithModelName(gg.model),
		ai.WithMessages(msgs...),
		ai.WithConfig(gg.config),
	)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return resp.Text(), nil
}
