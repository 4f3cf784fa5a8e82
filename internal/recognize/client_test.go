package recognize

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// flakyTransport fails with a connection error a fixed number of times before
// delegating to the default transport.
type flakyTransport struct {
	failures int32
	calls    int32
}

func (f *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	call := atomic.AddInt32(&f.calls, 1)
	if call <= atomic.LoadInt32(&f.failures) {
		return nil, &net.OpError{Op: "dial", Err: errors.New("connection refused")}
	}
	return http.DefaultTransport.RoundTrip(req)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, retries int, failures int32) (*Client, *flakyTransport) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	transport := &flakyTransport{failures: failures}
	client := NewClient(
		Config{APIKey: "test-key", BaseURL: server.URL, SampleRate: 16000, Retries: retries},
		WithHTTPClient(&http.Client{Transport: transport}),
	)
	return client, transport
}

func TestRecognizeSuccess(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "audio/x-flac; rate=16000" {
			t.Errorf("content type = %q", got)
		}
		if got := r.URL.Query().Get("lang"); got != "en" {
			t.Errorf("lang = %q", got)
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("key = %q", got)
		}
		w.Write([]byte(`{"result":[]}` + "\n" +
			`{"result":[{"alternative":[{"transcript":"hello there","confidence":0.9}],"final":true}],"result_index":0}` + "\n"))
	}
	client, _ := newTestClient(t, handler, 3, 0)

	result := client.Recognize(context.Background(), []byte("flac"), "en")
	if result.Outcome != OutcomeTranscribed {
		t.Fatalf("outcome = %v, want transcribed", result.Outcome)
	}
	if result.Text() != "Hello there" {
		t.Fatalf("transcript = %q, want capitalized", result.Text())
	}
}

func TestRecognizeRetriesConnectionFailures(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":[{"alternative":[{"transcript":"after retries"}]}]}`))
	}
	client, transport := newTestClient(t, handler, 3, 2)

	result := client.Recognize(context.Background(), []byte("flac"), "en")
	if result.Outcome != OutcomeTranscribed {
		t.Fatalf("outcome = %v, want transcribed after retries", result.Outcome)
	}
	if result.Text() != "After retries" {
		t.Fatalf("transcript = %q", result.Text())
	}
	if got := atomic.LoadInt32(&transport.calls); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestRecognizeExhaustsRetries(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":[{"alternative":[{"transcript":"unreachable"}]}]}`))
	}
	client, transport := newTestClient(t, handler, 2, 5)

	result := client.Recognize(context.Background(), []byte("flac"), "en")
	if result.Outcome != OutcomeUnavailable {
		t.Fatalf("outcome = %v, want unavailable", result.Outcome)
	}
	if result.Text() != "" {
		t.Fatalf("expected empty transcript, got %q", result.Text())
	}
	if got := atomic.LoadInt32(&transport.calls); got != 2 {
		t.Fatalf("expected exactly 2 attempts, got %d", got)
	}
}

func TestRecognizeScansForFirstUsableRecord(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":[]}` + "\n" +
			`not even json` + "\n" +
			`{"result":[{"alternative":[{"transcript":"third line wins"}]}]}` + "\n" +
			`{"result":[{"alternative":[{"transcript":"too late"}]}]}` + "\n"))
	}
	client, _ := newTestClient(t, handler, 3, 0)

	result := client.Recognize(context.Background(), []byte("flac"), "en")
	if result.Text() != "Third line wins" {
		t.Fatalf("transcript = %q", result.Text())
	}
}

func TestRecognizeNoSpeech(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":[]}` + "\n"))
	}
	client, _ := newTestClient(t, handler, 3, 0)

	result := client.Recognize(context.Background(), []byte("flac"), "en")
	if result.Outcome != OutcomeNoSpeech {
		t.Fatalf("outcome = %v, want no-speech", result.Outcome)
	}
}

func TestRecognizeCancelledContext(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":[{"alternative":[{"transcript":"never seen"}]}]}`))
	}
	client, transport := newTestClient(t, handler, 3, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := client.Recognize(ctx, []byte("flac"), "en")
	if result.Outcome != OutcomeUnavailable {
		t.Fatalf("outcome = %v, want unavailable on cancellation", result.Outcome)
	}
	if got := atomic.LoadInt32(&transport.calls); got != 0 {
		t.Fatalf("expected no attempts after cancellation, got %d", got)
	}
}

func TestRetryStopsOnNonRetryable(t *testing.T) {
	calls := 0
	sentinel := errors.New("permanent")
	_, err := retry(context.Background(), 5, func() (int, error) {
		calls++
		return 0, sentinel
	}, func(error) bool { return false })
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestCapitalizeUnicode(t *testing.T) {
	cases := map[string]string{
		"hello":  "Hello",
		"":       "",
		"étoile": "Étoile",
		"Ready":  "Ready",
	}
	for in, want := range cases {
		if got := capitalize(in); got != want {
			t.Fatalf("capitalize(%q) = %q, want %q", in, got, want)
		}
	}
}
