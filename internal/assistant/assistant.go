package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

const systemInstruction = "Eres un asistente experto en agronomía. Responde a las preguntas del usuario de forma clara y concisa. " +
	"Si se proporciona una imagen, úsala como contexto para tu respuesta, identificando posibles enfermedades, plagas o deficiencias y ofreciendo recomendaciones."

var (
	ErrEmptyPrompt = errors.New("prompt is required")
	ErrDisabled    = errors.New("assistant is not configured: set GEMINI_API_KEY")
)

// Image is an optional picture sent along with the prompt.
type Image struct {
	Data     []byte
	MIMEType string
}

// Client answers agronomy questions.
type Client interface {
	Ask(ctx context.Context, prompt string, image *Image) (string, error)
}

// generator is the part of the genai models API the assistant uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient sends prompts to a Gemini model.
type GeminiClient struct {
	models generator
	model  string
}

// NewGeminiClient creates a client for the given API key.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrDisabled
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiClient{models: client.Models, model: model}, nil
}

func (c *GeminiClient) Ask(ctx context.Context, prompt string, image *Image) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	var parts []*genai.Part
	if image != nil && len(image.Data) > 0 {
		parts = append(parts, genai.NewPartFromBytes(image.Data, image.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(prompt))

	resp, err := c.models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		},
	)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("the model returned an empty answer")
	}
	return text, nil
}

// Disabled is used when no API key is configured; every call fails with
// ErrDisabled.
type Disabled struct{}

func (Disabled) Ask(context.Context, string, *Image) (string, error) {
	return "", ErrDisabled
}
