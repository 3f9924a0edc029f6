package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// Provider translates text remotely. Implementations may fail at any time.
type Provider interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// ErrEmptyTranslation is returned when a provider answers without text.
var ErrEmptyTranslation = errors.New("translation provider returned no text")

type httpDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// GoogleProvider calls the public translate_a endpoint.
type GoogleProvider struct {
	baseURL string
	http    httpDoer
}

const defaultGoogleBaseURL = "https://translate.googleapis.com/translate_a/single"

// NewGoogleProvider returns a provider with the given base URL and timeout.
func NewGoogleProvider(baseURL string, timeout time.Duration) *GoogleProvider {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultGoogleBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GoogleProvider{baseURL: base, http: &http.Client{Timeout: timeout}}
}

// SetHTTPClient swaps the transport, mainly for tests.
func (p *GoogleProvider) SetHTTPClient(client httpDoer) {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	p.http = client
}

func (p *GoogleProvider) Translate(ctx context.Context, text, source, target string) (string, error) {
	query := url.Values{}
	query.Set("client", "gtx")
	query.Set("sl", source)
	query.Set("tl", target)
	query.Set("dt", "t")
	query.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("translate endpoint returned %d", resp.StatusCode)
	}

	// [[["translated","original",...],...],...]
	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode translate response: %w", err)
	}
	if len(payload) == 0 {
		return "", ErrEmptyTranslation
	}
	var segments [][]interface{}
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("decode translate segments: %w", err)
	}

	var b strings.Builder
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}
		if part, ok := segment[0].(string); ok {
			b.WriteString(part)
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyTranslation
	}
	return b.String(), nil
}

// OpenAIProvider translates with a chat completion model.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider builds a provider; baseURL may be empty for the public API.
func NewOpenAIProvider(apiKey, model, baseURL string) *OpenAIProvider {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if base := strings.TrimSpace(baseURL); base != "" {
		opts = append(opts, option.WithBaseURL(base))
	}
	if strings.TrimSpace(model) == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIProvider{client: openai.NewClient(opts...), model: model}
}

var languageNames = map[string]string{"hi": "Hindi", "en": "English"}

func (p *OpenAIProvider) Translate(ctx context.Context, text, source, target string) (string, error) {
	system := fmt.Sprintf(
		"You translate Indian news copy from %s to %s. Reply with the translation only and keep names, numbers and markdown intact.",
		languageNames[source], languageNames[target],
	)
	prompt, images := protectImageURLs(text)
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0.1),
	})
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyTranslation
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", ErrEmptyTranslation
	}
	return images.Restore(out), nil
}
