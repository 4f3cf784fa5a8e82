package recognize

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"subvox/internal/logging"
)

const (
	// DefaultBaseURL is the speech API endpoint queried for each clip.
	DefaultBaseURL = "http://www.google.com/speech-api/v2/recognize"

	defaultHTTPTimeout = 30 * time.Second
	defaultRetries     = 3
)

// Outcome classifies what the recognition service produced for a clip.
type Outcome int

const (
	// OutcomeUnavailable means the service could not be reached or answered
	// with something unusable; retries were exhausted.
	OutcomeUnavailable Outcome = iota
	// OutcomeNoSpeech means the service answered but returned no transcript.
	OutcomeNoSpeech
	// OutcomeTranscribed means a transcript was extracted.
	OutcomeTranscribed
)

// Result is the typed outcome of one recognition call.
type Result struct {
	Outcome    Outcome
	Transcript string
}

// Text returns the transcript, or the empty string for non-transcribed outcomes.
func (r Result) Text() string {
	if r.Outcome != OutcomeTranscribed {
		return ""
	}
	return r.Transcript
}

// Config captures the runtime settings for the recognition client.
type Config struct {
	APIKey     string
	BaseURL    string
	SampleRate int
	Retries    int
}

// Client calls the remote speech recognition service.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
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

// WithLogger attaches a logger for per-request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient constructs a recognition client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	client := &Client{
		cfg: Config{
			APIKey:     strings.TrimSpace(cfg.APIKey),
			BaseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			SampleRate: cfg.SampleRate,
			Retries:    cfg.Retries,
		},
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		logger:     logging.NewNop(),
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = DefaultBaseURL
	}
	if client.cfg.SampleRate <= 0 {
		client.cfg.SampleRate = 16000
	}
	if client.cfg.Retries < 1 {
		client.cfg.Retries = defaultRetries
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Recognize posts the clip and extracts the first usable transcript. It never
// returns an error: any failure is folded into the result's outcome.
func (c *Client) Recognize(ctx context.Context, clip []byte, language string) Result {
	requestID := uuid.NewString()

	body, err := retry(ctx, c.cfg.Retries, func() ([]byte, error) {
		return c.post(ctx, clip, language)
	}, isConnectionError)
	if err != nil {
		c.logger.Debug("recognition unavailable",
			logging.String("request_id", requestID),
			logging.Int("clip_bytes", len(clip)),
			logging.Error(err),
		)
		return Result{Outcome: OutcomeUnavailable}
	}

	transcript, found := extractTranscript(body)
	if !found {
		c.logger.Debug("no speech recognized",
			logging.String("request_id", requestID),
			logging.Int("clip_bytes", len(clip)),
		)
		return Result{Outcome: OutcomeNoSpeech}
	}
	return Result{Outcome: OutcomeTranscribed, Transcript: transcript}
}

func (c *Client) post(ctx context.Context, clip []byte, language string) ([]byte, error) {
	endpoint, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	query := endpoint.Query()
	query.Set("client", "chromium")
	query.Set("lang", language)
	query.Set("key", c.cfg.APIKey)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(clip))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", fmt.Sprintf("audio/x-flac; rate=%d", c.cfg.SampleRate))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// extractTranscript scans newline-delimited JSON records and returns the first
// non-empty best alternative, with its first character upper-cased.
func extractTranscript(body []byte) (string, bool) {
	type alternative struct {
		Transcript string `json:"transcript"`
	}
	type result struct {
		Alternative []alternative `json:"alternative"`
	}
	type record struct {
		Result []result `json:"result"`
	}

	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		if len(rec.Result) == 0 || len(rec.Result[0].Alternative) == 0 {
			continue
		}
		transcript := rec.Result[0].Alternative[0].Transcript
		if transcript == "" {
			continue
		}
		return capitalize(transcript), true
	}
	return "", false
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// isConnectionError reports whether err is a connection-level failure worth an
// immediate retry. Cancellation and HTTP-level failures are not retried.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		// A url.Error from Do without an HTTP response is transport-level.
		return true
	}
	return false
}
