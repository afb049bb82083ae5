// Package advisor wraps the hosted Gemini text-generation service behind a
// small Generator interface with synchronous and streaming variants.
package advisor

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	cerr "github.com/hmasato/statchat/pkg/common/errors"
)

// Generator is the external AI boundary consumed by the controller. Both
// operations take one opaque prompt string.
type Generator interface {
	// Generate returns the full response text for a prompt.
	Generate(ctx context.Context, prompt string) (string, error)
	// GenerateStream returns the response as an in-order fragment stream.
	GenerateStream(ctx context.Context, prompt string) Stream
}

// Stream is a lazy sequence of response fragments. Next returns io.EOF after
// the final fragment; the consumer folds fragments into a running buffer.
type Stream interface {
	Next() (string, error)
}

// Client is the Gemini-backed Generator.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// New creates a Gemini client. The credential gates the whole pipeline: a
// missing or rejected key fails with ErrAuthentication before any upload is
// processed. Model and temperature default from the embedded prompt config,
// overridable via GEMINI_MODEL.
func New(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY not set", cerr.ErrAuthentication)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cerr.ErrAuthentication, err)
	}

	modelName := os.Getenv("GEMINI_MODEL")
	if modelName == "" {
		modelName = advisoryPrompt.Config.Model
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(advisoryPrompt.Config.Temperature)

	return &Client{client: client, model: model}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// Generate sends the prompt and returns the concatenated response text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", cerr.ErrService, err)
	}
	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", cerr.ErrService)
	}
	return text, nil
}

// GenerateStream starts a streaming generation. Errors surface from the
// returned stream's Next.
func (c *Client) GenerateStream(ctx context.Context, prompt string) Stream {
	return &geminiStream{iter: c.model.GenerateContentStream(ctx, genai.Text(prompt))}
}

type geminiStream struct {
	iter *genai.GenerateContentResponseIterator
}

func (s *geminiStream) Next() (string, error) {
	for {
		resp, err := s.iter.Next()
		if err == iterator.Done {
			return "", io.EOF
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", cerr.ErrService, err)
		}
		if text := responseText(resp); text != "" {
			return text, nil
		}
		// Candidate without text parts; keep draining.
	}
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String()
}
