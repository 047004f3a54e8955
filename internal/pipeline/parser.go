package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// DefaultModelName is the Gemini model used for slip extraction unless
// overridden via configuration.
const DefaultModelName = "gemini-2.5-pro"

// ErrUnusableOutput marks a model response that came back over the wire but
// is not usable JSON. Callers treat it as "no data" (an all-absent record),
// in contrast to transport or auth failures which stay hard errors.
var ErrUnusableOutput = errors.New("model output is not usable JSON")

// GeminiSlipParser sends slip images to Gemini and returns the raw parsed
// JSON object. The client is created once and shared across requests.
type GeminiSlipParser struct {
	client *genai.Client
	model  string
	prompt string
}

// NewGeminiSlipParser creates a parser bound to the given API key, model and
// prompt text.
func NewGeminiSlipParser(ctx context.Context, apiKey, model, prompt string) (*GeminiSlipParser, error) {
	if model == "" {
		model = DefaultModelName
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiSlipParser: create genai client: %w", err)
	}
	return &GeminiSlipParser{client: client, model: model, prompt: prompt}, nil
}

// ParseSlip sends {prompt, image} to the model as a single multimodal
// request and returns the decoded top-level JSON object. A response that is
// empty or not JSON wraps ErrUnusableOutput; a failed model call does not.
func (p *GeminiSlipParser) ParseSlip(ctx context.Context, imageBytes []byte) (map[string]interface{}, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: p.prompt},
				{
					InlineData: &genai.Blob{
						MIMEType: http.DetectContentType(imageBytes),
						Data:     imageBytes,
					},
				},
			},
		},
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("ParseSlip: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("ParseSlip: empty response from model: %w", ErrUnusableOutput)
	}

	// Clean up Markdown fences / extra text if the model ignored instructions.
	clean := cleanModelJSON(rawText)

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, fmt.Errorf("ParseSlip: unmarshal JSON (%v): %w", err, ErrUnusableOutput)
	}

	return parsed, nil
}

func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	// Remove trailing ``` if present.
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// Extra safety: if there's still junk around the JSON object,
	// keep only from the first '{' to the last '}'.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = s[start : end+1]
			s = strings.TrimSpace(s)
		}
	}

	return s
}
