package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/cognicore/glossary/pkg/glossary/enrich"
)

// DefaultEmbeddingBatch is the number of texts sent per embeddings call.
const DefaultEmbeddingBatch = 256

// Client calls an OpenAI-compatible API for chat completions and
// embeddings. It satisfies enrich.Completer, embed.Embedder and
// document.Translator.
type Client struct {
	BaseURL        string
	APIKey         string
	Model          string
	EmbeddingModel string
	Dimensions     int
	Temperature    float32
	System         string

	HTTPClient *http.Client
}

func (c *Client) api() *openai.Client {
	cfg := openai.DefaultConfig(c.APIKey)
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	cfg.HTTPClient = c.httpClient()
	return openai.NewClientWithConfig(cfg)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 60 * time.Second}
}

// Complete sends prompt as a user message and returns the reply text.
// The reply is requested as a JSON object.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	system := c.System
	if system == "" {
		system = enrich.SystemPrompt
	}
	return c.chat(ctx, system, prompt, true)
}

// Translate renders text in English, one chunk of paragraphs at a time.
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	var out []string
	for _, chunk := range chunkParagraphs(text, translateChunk) {
		translated, err := c.chat(ctx, translateSystem, chunk, false)
		if err != nil {
			return "", fmt.Errorf("llm: translate: %w", err)
		}
		out = append(out, strings.TrimSpace(translated))
	}
	return strings.Join(out, "\n\n"), nil
}

const (
	translateSystem = "Translate the user's text to English. Keep paragraph breaks. Reply with the translation only."
	translateChunk  = 4000
)

func (c *Client) chat(ctx context.Context, system, user string, jsonMode bool) (string, error) {
	if c.Model == "" {
		return "", errors.New("llm: model required")
	}
	req := openai.ChatCompletionRequest{
		Model:       c.Model,
		Temperature: c.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	resp, err := c.api().CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("llm: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("llm: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// chunkParagraphs groups blank-line separated paragraphs into chunks of
// at most max bytes. A longer paragraph forms its own chunk.
func chunkParagraphs(text string, max int) []string {
	var chunks []string
	var cur strings.Builder
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if cur.Len() > 0 && cur.Len()+len(para)+2 > max {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteString("\n\n")
		}
		cur.WriteString(para)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}

// Embed returns one vector per text, in input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if c.EmbeddingModel == "" {
		return nil, errors.New("llm: embedding model required")
	}
	api := c.api()
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += DefaultEmbeddingBatch {
		end := start + DefaultEmbeddingBatch
		if end > len(texts) {
			end = len(texts)
		}
		resp, err := api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input:      texts[start:end],
			Model:      openai.EmbeddingModel(c.EmbeddingModel),
			Dimensions: c.Dimensions,
		})
		if err != nil {
			return nil, fmt.Errorf("llm: embeddings: %w", err)
		}
		if len(resp.Data) != end-start {
			return nil, fmt.Errorf("llm: got %d embeddings for %d texts", len(resp.Data), end-start)
		}
		data := resp.Data
		sort.Slice(data, func(i, j int) bool { return data[i].Index < data[j].Index })
		for _, d := range data {
			out = append(out, d.Embedding)
		}
	}
	return out, nil
}
