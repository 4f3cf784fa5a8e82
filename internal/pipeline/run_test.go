package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"subvox/internal/detect"
	"subvox/internal/recognize"
)

type fakeClipper struct {
	failStart float64
	delay     bool
	calls     int32
}

func (f *fakeClipper) Clip(ctx context.Context, startSec, endSec float64) ([]byte, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay {
		// Later regions complete first.
		time.Sleep(time.Duration(100-int(startSec)) * time.Millisecond / 10)
	}
	if startSec == f.failStart && f.failStart != 0 {
		return nil, errors.New("extraction exploded")
	}
	return []byte(fmt.Sprintf("clip@%.2f", startSec)), nil
}

type fakeRecognizer struct {
	calls   int32
	outcome recognize.Outcome
}

func (f *fakeRecognizer) Recognize(ctx context.Context, clip []byte, language string) recognize.Result {
	atomic.AddInt32(&f.calls, 1)
	if f.outcome == recognize.OutcomeUnavailable {
		return recognize.Result{Outcome: recognize.OutcomeUnavailable}
	}
	return recognize.Result{Outcome: recognize.OutcomeTranscribed, Transcript: "text for " + string(clip)}
}

type memCache struct {
	mu   sync.Mutex
	data map[string]string
	puts int
}

func (m *memCache) key(digest, lang string) string { return digest + "/" + lang }

func (m *memCache) Get(ctx context.Context, digest, lang string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[m.key(digest, lang)]
	return v, ok, nil
}

func (m *memCache) Put(ctx context.Context, digest, lang, transcript string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[string]string)
	}
	m.data[m.key(digest, lang)] = transcript
	m.puts++
	return nil
}

func someRegions(n int) []detect.Region {
	regions := make([]detect.Region, n)
	for i := range regions {
		regions[i] = detect.Region{Start: float64(i * 2), End: float64(i*2 + 1)}
	}
	return regions
}

func TestRunAlignsTranscriptsWithRegions(t *testing.T) {
	regions := someRegions(8)
	clipper := &fakeClipper{delay: true}
	recognizer := &fakeRecognizer{}

	transcripts, err := Run(context.Background(), regions, clipper, recognizer, Options{
		Concurrency: 8,
		Language:    "en",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(transcripts) != len(regions) {
		t.Fatalf("got %d transcripts for %d regions", len(transcripts), len(regions))
	}
	for i, transcript := range transcripts {
		want := fmt.Sprintf("text for clip@%.2f", regions[i].Start)
		if transcript != want {
			t.Fatalf("transcripts[%d] = %q, want %q", i, transcript, want)
		}
	}
}

func TestRunIsolatesExtractionFailure(t *testing.T) {
	regions := someRegions(4)
	clipper := &fakeClipper{failStart: regions[1].Start}
	recognizer := &fakeRecognizer{}

	transcripts, err := Run(context.Background(), regions, clipper, recognizer, Options{
		Concurrency: 2,
		Language:    "en",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if transcripts[1] != "" {
		t.Fatalf("failed region should yield empty transcript, got %q", transcripts[1])
	}
	for i, transcript := range transcripts {
		if i != 1 && transcript == "" {
			t.Fatalf("region %d unexpectedly empty", i)
		}
	}
	// One fewer recognition call: the failed clip is skipped, not recognized.
	if got := atomic.LoadInt32(&recognizer.calls); got != int32(len(regions)-1) {
		t.Fatalf("recognizer called %d times, want %d", got, len(regions)-1)
	}
}

func TestRunProgressObservers(t *testing.T) {
	regions := someRegions(5)
	var extractDone, recognizeDone int32

	_, err := Run(context.Background(), regions, &fakeClipper{}, &fakeRecognizer{}, Options{
		Concurrency: 3,
		Language:    "en",
		ExtractObserver: func(done, total int) {
			atomic.StoreInt32(&extractDone, int32(done))
		},
		RecognizeObserver: func(done, total int) {
			atomic.StoreInt32(&recognizeDone, int32(done))
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if extractDone != 5 || recognizeDone != 5 {
		t.Fatalf("observers saw %d/%d completions, want 5/5", extractDone, recognizeDone)
	}
}

func TestRunUsesCache(t *testing.T) {
	regions := someRegions(3)
	cache := &memCache{}

	first := &fakeRecognizer{}
	transcripts, err := Run(context.Background(), regions, &fakeClipper{}, first, Options{
		Concurrency: 2, Language: "en", Cache: cache,
	})
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if atomic.LoadInt32(&first.calls) != 3 {
		t.Fatalf("expected 3 recognition calls on cold cache, got %d", first.calls)
	}

	second := &fakeRecognizer{}
	cached, err := Run(context.Background(), regions, &fakeClipper{}, second, Options{
		Concurrency: 2, Language: "en", Cache: cache,
	})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if atomic.LoadInt32(&second.calls) != 0 {
		t.Fatalf("expected warm cache to skip recognition, got %d calls", second.calls)
	}
	for i := range transcripts {
		if cached[i] != transcripts[i] {
			t.Fatalf("cached transcript %d = %q, want %q", i, cached[i], transcripts[i])
		}
	}
}

func TestRunDoesNotCacheUnavailable(t *testing.T) {
	regions := someRegions(2)
	cache := &memCache{}
	recognizer := &fakeRecognizer{outcome: recognize.OutcomeUnavailable}

	transcripts, err := Run(context.Background(), regions, &fakeClipper{}, recognizer, Options{
		Concurrency: 1, Language: "en", Cache: cache,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, transcript := range transcripts {
		if transcript != "" {
			t.Fatalf("transcripts[%d] = %q, want empty", i, transcript)
		}
	}
	if cache.puts != 0 {
		t.Fatalf("unavailable results must not be cached, saw %d puts", cache.puts)
	}
}

func TestRunCancellation(t *testing.T) {
	regions := someRegions(10)
	ctx, cancel := context.WithCancel(context.Background())

	var recognized int32
	recognizer := recognizerFunc(func(c context.Context, clip []byte, lang string) recognize.Result {
		if atomic.AddInt32(&recognized, 1) == 5 {
			cancel()
		}
		time.Sleep(time.Millisecond)
		return recognize.Result{Outcome: recognize.OutcomeTranscribed, Transcript: "x"}
	})

	transcripts, err := Run(ctx, regions, &fakeClipper{}, recognizer, Options{
		Concurrency: 2,
		Language:    "en",
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if transcripts != nil {
		t.Fatalf("expected no partial transcripts, got %v", transcripts)
	}
}

type recognizerFunc func(ctx context.Context, clip []byte, language string) recognize.Result

func (f recognizerFunc) Recognize(ctx context.Context, clip []byte, language string) recognize.Result {
	return f(ctx, clip, language)
}
