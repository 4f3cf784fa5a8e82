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
)

// DefaultBaseURL is the translation API endpoint.
const DefaultBaseURL = "https://translation.googleapis.com/language/translate/v2"

const defaultHTTPTimeout = 15 * time.Second

// Config captures the runtime settings for the translation client.
type Config struct {
	APIKey  string
	BaseURL string
}

// Client wraps the translation API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a translation client. An empty API key is allowed at
// construction time; Translate will fail with a configuration message.
func NewClient(cfg Config, opts ...Option) *Client {
	client := &Client{
		cfg: Config{
			APIKey:  strings.TrimSpace(cfg.APIKey),
			BaseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		},
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = DefaultBaseURL
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type apiResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

// Translate converts one sentence from source to target. Empty sentences pass
// through unchanged.
func (c *Client) Translate(ctx context.Context, sentence, source, target string) (string, error) {
	if strings.TrimSpace(sentence) == "" {
		return sentence, nil
	}
	if c.cfg.APIKey == "" {
		return "", errors.New("translate: api key not configured")
	}

	form := url.Values{}
	form.Set("q", sentence)
	form.Set("source", source)
	form.Set("target", target)
	form.Set("format", "text")
	form.Set("key", c.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("translate: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("translate: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("translate: decode response: %w", err)
	}
	if len(parsed.Data.Translations) == 0 {
		return "", errors.New("translate: empty result")
	}
	return parsed.Data.Translations[0].TranslatedText, nil
}
