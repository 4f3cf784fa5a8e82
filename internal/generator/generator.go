package generator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"subvox/internal/config"
	"subvox/internal/deps"
	"subvox/internal/detect"
	"subvox/internal/language"
	"subvox/internal/logging"
	"subvox/internal/media/ffmpeg"
	"subvox/internal/media/ffprobe"
	"subvox/internal/media/wav"
	"subvox/internal/pipeline"
	"subvox/internal/recognize"
	"subvox/internal/services"
	"subvox/internal/subtitle"
	"subvox/internal/transcache"
	"subvox/internal/translate"
)

// Recognizer converts one audio clip into a typed recognition result.
type Recognizer interface {
	Recognize(ctx context.Context, clip []byte, language string) recognize.Result
}

// Translator converts one sentence between languages.
type Translator interface {
	Translate(ctx context.Context, sentence, source, target string) (string, error)
}

// Request describes one subtitle generation run.
type Request struct {
	Source         string
	Output         string
	Format         string
	SourceLanguage string
	TargetLanguage string
	Concurrency    int
	DisableCache   bool
}

// Result summarizes a completed run.
type Result struct {
	OutputPath string
	Regions    []detect.Region
	Subtitles  []subtitle.Cue
}

// Generator wires the media, detection, recognition, and rendering stages.
type Generator struct {
	cfg         *config.Config
	logger      *slog.Logger
	media       *ffmpeg.Service
	recognizer  Recognizer
	translator  Translator
	progressOut io.Writer
	verifyDeps  func() error
	preflight   func(ctx context.Context, source string) error
}

// Option customizes a generator.
type Option func(*Generator)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithMediaService overrides the ffmpeg service (for testing).
func WithMediaService(service *ffmpeg.Service) Option {
	return func(g *Generator) {
		if service != nil {
			g.media = service
		}
	}
}

// WithRecognizer overrides the recognition client.
func WithRecognizer(recognizer Recognizer) Option {
	return func(g *Generator) {
		if recognizer != nil {
			g.recognizer = recognizer
		}
	}
}

// WithTranslator overrides the translation client.
func WithTranslator(translator Translator) Option {
	return func(g *Generator) {
		if translator != nil {
			g.translator = translator
		}
	}
}

// WithProgressOutput enables progress bars on the given writer.
func WithProgressOutput(out io.Writer) Option {
	return func(g *Generator) { g.progressOut = out }
}

// WithDependencyCheck overrides the external binary verification (for testing).
func WithDependencyCheck(check func() error) Option {
	return func(g *Generator) {
		if check != nil {
			g.verifyDeps = check
		}
	}
}

// WithPreflight overrides the source media inspection (for testing).
func WithPreflight(preflight func(ctx context.Context, source string) error) Option {
	return func(g *Generator) {
		if preflight != nil {
			g.preflight = preflight
		}
	}
}

// New builds a generator from configuration. Recognition and translation
// clients default to the remote services named in cfg.
func New(cfg *config.Config, opts ...Option) *Generator {
	g := &Generator{
		cfg:    cfg,
		logger: logging.NewNop(),
		media:  ffmpeg.NewService(cfg.FFmpegBinary()),
		recognizer: recognize.NewClient(recognize.Config{
			APIKey:     cfg.Recognition.APIKey,
			BaseURL:    cfg.Recognition.BaseURL,
			SampleRate: cfg.Recognition.SampleRate,
			Retries:    cfg.Recognition.Retries,
		}),
	}
	if cfg.Translation.APIKey != "" {
		g.translator = translate.NewClient(translate.Config{
			APIKey:  cfg.Translation.APIKey,
			BaseURL: cfg.Translation.BaseURL,
		})
	}
	g.verifyDeps = func() error {
		return deps.Verify(deps.CheckBinaries(deps.Requirements(cfg)))
	}
	g.preflight = g.inspectSource
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate runs the full pipeline for one source file and writes the rendered
// subtitles to the output path.
func (g *Generator) Generate(ctx context.Context, req Request) (Result, error) {
	formatter, err := subtitle.Lookup(req.Format)
	if err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "generator", "select format", err.Error(), nil)
	}

	srcLang, ok := language.Normalize(req.SourceLanguage)
	if !ok {
		return Result{}, services.Wrap(services.ErrValidation, "generator", "validate language",
			fmt.Sprintf("unsupported source language %q", req.SourceLanguage), nil)
	}
	dstLang := ""
	if strings.TrimSpace(req.TargetLanguage) != "" {
		dstLang, ok = language.Normalize(req.TargetLanguage)
		if !ok {
			return Result{}, services.Wrap(services.ErrValidation, "generator", "validate language",
				fmt.Sprintf("unsupported target language %q", req.TargetLanguage), nil)
		}
	}
	needTranslation := dstLang != "" && !language.SameBase(srcLang, dstLang)
	if needTranslation && g.translator == nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "generator", "prepare translation",
			"translation requested but no translation api key is configured", nil)
	}

	if err := g.verifyDeps(); err != nil {
		return Result{}, err
	}
	if err := g.preflight(ctx, req.Source); err != nil {
		return Result{}, err
	}

	g.logger.Info("extracting audio", logging.String("source", req.Source))
	wavPath, sampleRate, err := g.media.ExtractAudio(ctx, req.Source)
	if err != nil {
		return Result{}, err
	}
	defer os.Remove(wavPath)

	regions, err := g.detectRegions(wavPath)
	if err != nil {
		return Result{}, err
	}
	g.logger.Info("speech regions detected",
		logging.Int("regions", len(regions)),
		logging.Int("sample_rate", sampleRate),
	)

	var cache pipeline.Cache
	if g.cfg.Cache.Enabled && !req.DisableCache {
		store, cacheErr := transcache.Open(g.cfg.Cache.Dir)
		if cacheErr != nil {
			g.logger.Warn("transcript cache unavailable, continuing without it", logging.Error(cacheErr))
		} else {
			defer store.Close()
			cache = store
		}
	}

	clipper := ffmpeg.NewClipper(g.media, req.Source, g.cfg.Clips.PadBeforeSeconds, g.cfg.Clips.PadAfterSeconds)
	concurrency := req.Concurrency
	if concurrency < 1 {
		concurrency = g.cfg.Recognition.Concurrency
	}

	transcripts, err := pipeline.Run(ctx, regions, clipper, g.recognizer, pipeline.Options{
		Concurrency:       concurrency,
		Language:          srcLang,
		Cache:             cache,
		Logger:            g.logger,
		ExtractObserver:   g.observer(len(regions), "Converting speech regions to FLAC files"),
		RecognizeObserver: g.observer(len(regions), "Performing speech recognition"),
	})
	if err != nil {
		return Result{}, err
	}

	if needTranslation {
		transcripts, err = g.translateAll(ctx, transcripts, srcLang, dstLang, concurrency)
		if err != nil {
			return Result{}, err
		}
	}

	cues := subtitle.Assemble(regions, transcripts)
	content, err := formatter.Render(cues)
	if err != nil {
		return Result{}, services.Wrap(services.ErrValidation, "generator", "render subtitles", "render failed", err)
	}

	// A cancelled run must not leave a partial output file behind.
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	dest := req.Output
	if dest == "" {
		dest = defaultDestination(req.Source, formatter.Name())
	}
	if err := subtitle.Write(dest, content); err != nil {
		return Result{}, err
	}
	g.logger.Info("subtitles written",
		logging.String("path", dest),
		logging.Int("cues", len(cues)),
	)
	return Result{OutputPath: dest, Regions: regions, Subtitles: cues}, nil
}

func (g *Generator) detectRegions(wavPath string) ([]detect.Region, error) {
	reader, err := wav.Open(wavPath)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "generator", "open audio", "extracted audio unreadable", err)
	}
	defer reader.Close()

	opts := detect.Options{
		FrameWidth:        g.cfg.Detection.FrameWidth,
		MinRegionSize:     g.cfg.Detection.MinRegionSeconds,
		MaxRegionSize:     g.cfg.Detection.MaxRegionSeconds,
		SilencePercentile: g.cfg.Detection.SilencePercentile,
	}
	regions, err := detect.Detect(reader, opts)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "generator", "detect regions", "detection failed", err)
	}
	return regions, nil
}

// translateAll maps the translation client over non-empty transcripts using the
// recognition worker pool. A failed translation keeps the original text.
func (g *Generator) translateAll(ctx context.Context, transcripts []string, srcLang, dstLang string, concurrency int) ([]string, error) {
	return pipeline.Map(ctx, transcripts, concurrency, func(ctx context.Context, text string) string {
		if strings.TrimSpace(text) == "" {
			return text
		}
		translated, err := g.translator.Translate(ctx, text, srcLang, dstLang)
		if err != nil {
			g.logger.Warn("translation failed, keeping original text", logging.Error(err))
			return text
		}
		return translated
	}, g.observer(len(transcripts), "Translating subtitles"))
}

// inspectSource probes the container before any transcoding. A missing ffprobe
// binary skips the preflight; a probed source without audio streams fails it.
func (g *Generator) inspectSource(ctx context.Context, source string) error {
	binary := g.cfg.FFprobeBinary()
	if _, err := exec.LookPath(binary); err != nil {
		g.logger.Debug("ffprobe not found, skipping preflight", logging.String("binary", binary))
		return nil
	}
	result, err := ffprobe.Inspect(ctx, binary, source)
	if err != nil {
		g.logger.Warn("source preflight failed, continuing", logging.Error(err))
		return nil
	}
	if result.AudioStreamCount() == 0 {
		return services.Wrap(services.ErrValidation, "generator", "preflight",
			fmt.Sprintf("source %q has no audio streams", source), nil)
	}
	return nil
}

func defaultDestination(source, format string) string {
	base := strings.TrimSuffix(source, filepath.Ext(source))
	return base + "." + format
}
