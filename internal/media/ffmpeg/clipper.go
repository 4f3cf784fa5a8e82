package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Clipper cuts padded per-region FLAC clips from one source file. It is
// stateless beyond its configuration and safe for concurrent use.
type Clipper struct {
	service   *Service
	source    string
	padBefore float64
	padAfter  float64
}

// NewClipper returns a clipper for source with the given pads in seconds.
func NewClipper(service *Service, source string, padBefore, padAfter float64) *Clipper {
	return &Clipper{
		service:   service,
		source:    source,
		padBefore: padBefore,
		padAfter:  padAfter,
	}
}

// Clip transcodes the padded interval around [startSec, endSec) into a FLAC
// payload held fully in memory. The temporary file is removed on every path,
// including cancellation.
func (c *Clipper) Clip(ctx context.Context, startSec, endSec float64) ([]byte, error) {
	if endSec <= startSec {
		return nil, fmt.Errorf("clip: invalid interval [%g, %g)", startSec, endSec)
	}
	start := startSec - c.padBefore
	if start < 0 {
		start = 0
	}
	duration := endSec + c.padAfter - start

	dest := filepath.Join(os.TempDir(), "subvox-clip-"+uuid.NewString()+".flac")
	defer os.Remove(dest)

	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", formatSeconds(start),
		"-t", formatSeconds(duration),
		"-i", c.source,
		"-vn", "-sn", "-dn",
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", SampleRate),
		dest,
	}
	if err := c.service.run(ctx, c.service.binary, args...); err != nil {
		return nil, fmt.Errorf("clip [%g, %g): %w", startSec, endSec, err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		return nil, fmt.Errorf("clip read: %w", err)
	}
	return data, nil
}

func formatSeconds(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
