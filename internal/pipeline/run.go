package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	"subvox/internal/detect"
	"subvox/internal/logging"
	"subvox/internal/recognize"
)

// Clipper extracts one padded audio clip per region.
type Clipper interface {
	Clip(ctx context.Context, startSec, endSec float64) ([]byte, error)
}

// Recognizer turns one clip into a typed recognition result.
type Recognizer interface {
	Recognize(ctx context.Context, clip []byte, language string) recognize.Result
}

// Cache stores transcripts keyed by clip digest and language. Implementations
// must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, clipDigest, language string) (string, bool, error)
	Put(ctx context.Context, clipDigest, language, transcript string) error
}

// Options configures a pipeline run.
type Options struct {
	Concurrency       int
	Language          string
	Cache             Cache
	Logger            *slog.Logger
	ExtractObserver   Observer
	RecognizeObserver Observer
}

// Run executes the two pipeline stages over the full region list: extract all
// clips, then recognize all clips. The returned transcripts are index-aligned
// with regions; a region whose clip failed to extract, or whose recognition
// produced nothing, contributes an empty string.
func Run(ctx context.Context, regions []detect.Region, clipper Clipper, recognizer Recognizer, opts Options) ([]string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	workers := opts.Concurrency
	if workers < 1 {
		workers = 10
	}

	clips, err := Map(ctx, regions, workers, func(ctx context.Context, region detect.Region) []byte {
		data, clipErr := clipper.Clip(ctx, region.Start, region.End)
		if clipErr != nil {
			logger.Warn("clip extraction failed",
				logging.Float64("start", region.Start),
				logging.Float64("end", region.End),
				logging.Error(clipErr),
			)
			return nil
		}
		return data
	}, opts.ExtractObserver)
	if err != nil {
		return nil, err
	}

	transcripts, err := Map(ctx, clips, workers, func(ctx context.Context, clip []byte) string {
		if len(clip) == 0 {
			// Extraction failed for this region; skip the recognition call.
			return ""
		}
		digest := clipDigest(clip)
		if opts.Cache != nil {
			if text, ok, cacheErr := opts.Cache.Get(ctx, digest, opts.Language); cacheErr != nil {
				logger.Debug("transcript cache read failed", logging.Error(cacheErr))
			} else if ok {
				return text
			}
		}
		result := recognizer.Recognize(ctx, clip, opts.Language)
		if opts.Cache != nil && result.Outcome != recognize.OutcomeUnavailable {
			// Cache settled answers only; an unavailable service may answer later.
			if cacheErr := opts.Cache.Put(ctx, digest, opts.Language, result.Text()); cacheErr != nil {
				logger.Debug("transcript cache write failed", logging.Error(cacheErr))
			}
		}
		return result.Text()
	}, opts.RecognizeObserver)
	if err != nil {
		return nil, err
	}
	return transcripts, nil
}

func clipDigest(clip []byte) string {
	sum := sha256.Sum256(clip)
	return hex.EncodeToString(sum[:])
}
