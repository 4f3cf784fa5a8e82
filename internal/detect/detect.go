package detect

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
)

// Region is a half-open time interval in the source audio judged to contain
// speech. Regions emitted by Detect are ordered and non-overlapping.
type Region struct {
	Start float64
	End   float64
}

// Duration returns the region length in seconds.
func (r Region) Duration() float64 { return r.End - r.Start }

// Options tunes the detector.
type Options struct {
	// FrameWidth is the number of per-channel samples per energy frame.
	FrameWidth int
	// MinRegionSize is the shortest region emitted, in seconds.
	MinRegionSize float64
	// MaxRegionSize caps a single region's length, in seconds.
	MaxRegionSize float64
	// SilencePercentile selects the energy percentile used as the silence
	// threshold (0 < p < 1).
	SilencePercentile float64
}

// DefaultOptions returns the detector tuning used by the CLI defaults.
func DefaultOptions() Options {
	return Options{
		FrameWidth:        4096,
		MinRegionSize:     0.5,
		MaxRegionSize:     6.0,
		SilencePercentile: 0.2,
	}
}

// FrameSource supplies raw PCM bytes in sample frames. *wav.Reader satisfies it.
type FrameSource interface {
	SampleRate() int
	Channels() int
	SampleWidth() int
	ReadSamples(n int) ([]byte, error)
}

// Detect partitions the stream into FrameWidth-sample frames, computes the RMS
// energy of each, derives the silence threshold from the configured percentile
// of all frame energies, and sweeps the frames emitting speech regions.
//
// A frame whose energy equals the threshold counts as silent. A region still
// open at end of stream is emitted when it satisfies MinRegionSize.
func Detect(src FrameSource, opts Options) ([]Region, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	if src.SampleRate() <= 0 {
		return nil, errors.New("detect: source has no sample rate")
	}
	width := src.SampleWidth()
	if width != 1 && width != 2 {
		return nil, fmt.Errorf("detect: unsupported sample width %d bytes", width)
	}

	frameDuration := float64(opts.FrameWidth) / float64(src.SampleRate())

	var energies []float64
	for {
		chunk, err := src.ReadSamples(opts.FrameWidth)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("detect: read frame: %w", err)
		}
		if len(chunk) == 0 {
			break
		}
		energies = append(energies, rms(chunk, width))
	}
	if len(energies) == 0 {
		return nil, nil
	}

	threshold := Percentile(energies, opts.SilencePercentile)

	var (
		regions     []Region
		regionStart float64
		regionOpen  bool
		elapsed     float64
	)
	for _, energy := range energies {
		silent := energy <= threshold
		switch {
		case regionOpen && (silent || elapsed-regionStart >= opts.MaxRegionSize):
			if elapsed-regionStart >= opts.MinRegionSize {
				regions = append(regions, Region{Start: regionStart, End: elapsed})
			}
			regionOpen = false
		case !regionOpen && !silent:
			regionStart = elapsed
			regionOpen = true
		}
		elapsed += frameDuration
	}
	if regionOpen && elapsed-regionStart >= opts.MinRegionSize {
		regions = append(regions, Region{Start: regionStart, End: elapsed})
	}
	return regions, nil
}

// Percentile returns the p-th percentile (0 <= p <= 1) of values using linear
// interpolation between order statistics. The input slice is not modified.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	k := float64(len(sorted)-1) * p
	floor := math.Floor(k)
	ceil := math.Ceil(k)
	if floor == ceil {
		return sorted[int(k)]
	}
	lower := sorted[int(floor)] * (ceil - k)
	upper := sorted[int(ceil)] * (k - floor)
	return lower + upper
}

// rms computes the root-mean-square amplitude over raw PCM bytes. 16-bit
// samples are little-endian signed; 8-bit samples are unsigned per the WAV
// convention. Interleaved channels contribute as ordinary samples.
func rms(chunk []byte, width int) float64 {
	var sum float64
	var count int
	switch width {
	case 2:
		for i := 0; i+1 < len(chunk); i += 2 {
			v := float64(int16(binary.LittleEndian.Uint16(chunk[i:])))
			sum += v * v
			count++
		}
	case 1:
		for _, b := range chunk {
			v := float64(int(b) - 128)
			sum += v * v
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(count))
}

func validateOptions(opts Options) error {
	if opts.FrameWidth <= 0 {
		return errors.New("detect: frame width must be positive")
	}
	if opts.MinRegionSize <= 0 {
		return errors.New("detect: min region size must be positive")
	}
	if opts.MaxRegionSize <= opts.MinRegionSize {
		return errors.New("detect: max region size must exceed min region size")
	}
	if opts.SilencePercentile <= 0 || opts.SilencePercentile >= 1 {
		return errors.New("detect: silence percentile must be in (0, 1)")
	}
	return nil
}
