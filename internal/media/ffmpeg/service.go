package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"subvox/internal/services"
)

const (
	// DefaultBinary is the ffmpeg command resolved from PATH.
	DefaultBinary = "ffmpeg"
	// SampleRate is the PCM rate used for detection and recognition.
	SampleRate = 16000
)

// Runner executes an external command. Tests substitute their own.
type Runner func(ctx context.Context, name string, args ...string) error

// Service runs ffmpeg conversions.
type Service struct {
	binary string
	runner Runner
}

// NewService creates an ffmpeg service using the given binary name or path.
func NewService(binary string) *Service {
	if strings.TrimSpace(binary) == "" {
		binary = DefaultBinary
	}
	return &Service{binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner Runner) {
	s.runner = runner
}

// ExtractAudio transcodes the whole source file into a temporary mono 16-bit
// WAV file at SampleRate. The caller owns the returned path and removes it.
func (s *Service) ExtractAudio(ctx context.Context, source string) (string, int, error) {
	if _, err := os.Stat(source); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", 0, services.Wrap(services.ErrNotFound, "media", "extract audio", fmt.Sprintf("source file %q does not exist", source), nil)
		}
		return "", 0, services.Wrap(services.ErrValidation, "media", "extract audio", "source unreadable", err)
	}
	if err := s.checkBinary(); err != nil {
		return "", 0, err
	}

	dest := filepath.Join(os.TempDir(), "subvox-"+uuid.NewString()+".wav")
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn", "-sn", "-dn",
		"-ac", "1",
		"-ar", strconv.Itoa(SampleRate),
		"-c:a", "pcm_s16le",
		dest,
	}
	if err := s.run(ctx, s.binary, args...); err != nil {
		_ = os.Remove(dest)
		return "", 0, services.Wrap(services.ErrExternalTool, "media", "extract audio", "conversion failed", err)
	}
	return dest, SampleRate, nil
}

func (s *Service) checkBinary() error {
	if s.runner != nil {
		return nil
	}
	if _, err := exec.LookPath(s.binary); err != nil {
		return services.Wrap(services.ErrExternalTool, "media", "locate ffmpeg", fmt.Sprintf("binary %q not found", s.binary), nil)
	}
	return nil
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.runner != nil {
		return s.runner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
