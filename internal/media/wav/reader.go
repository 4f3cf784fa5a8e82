package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

const pcmFormat = 1

// Reader streams raw PCM sample bytes from a WAV file.
type Reader struct {
	f           *os.File
	sampleRate  int
	channels    int
	sampleWidth int // bytes per sample
	remaining   uint32
}

// Open parses the RIFF/WAVE header of the file at path and positions the
// reader at the start of the data chunk.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	r, err := newReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return r, nil
}

func newReader(f *os.File) (*Reader, error) {
	var riff [12]byte
	if _, err := io.ReadFull(f, riff[:]); err != nil {
		return nil, fmt.Errorf("read riff header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, errors.New("not a RIFF/WAVE file")
	}

	r := &Reader{f: f}
	sawFmt := false
	for {
		var chunk [8]byte
		if _, err := io.ReadFull(f, chunk[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, errors.New("wav: missing data chunk")
			}
			return nil, fmt.Errorf("read chunk header: %w", err)
		}
		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("wav: fmt chunk too small (%d bytes)", size)
			}
			body := make([]byte, size)
			if _, err := io.ReadFull(f, body); err != nil {
				return nil, fmt.Errorf("read fmt chunk: %w", err)
			}
			format := binary.LittleEndian.Uint16(body[0:2])
			if format != pcmFormat {
				return nil, fmt.Errorf("wav: unsupported audio format %d (PCM only)", format)
			}
			r.channels = int(binary.LittleEndian.Uint16(body[2:4]))
			r.sampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			bitsPerSample := int(binary.LittleEndian.Uint16(body[14:16]))
			if bitsPerSample%8 != 0 || bitsPerSample == 0 {
				return nil, fmt.Errorf("wav: unsupported bit depth %d", bitsPerSample)
			}
			r.sampleWidth = bitsPerSample / 8
			if r.sampleWidth > 2 {
				return nil, fmt.Errorf("wav: unsupported sample width %d bytes", r.sampleWidth)
			}
			if r.channels <= 0 || r.sampleRate <= 0 {
				return nil, errors.New("wav: invalid fmt chunk")
			}
			sawFmt = true
		case "data":
			if !sawFmt {
				return nil, errors.New("wav: data chunk before fmt chunk")
			}
			r.remaining = size
			return r, nil
		default:
			// Skip unknown chunks (LIST, fact, ...). Chunks are word-aligned.
			skip := int64(size)
			if size%2 == 1 {
				skip++
			}
			if _, err := f.Seek(skip, io.SeekCurrent); err != nil {
				return nil, fmt.Errorf("skip %s chunk: %w", id, err)
			}
		}
	}
}

// SampleRate returns samples per second.
func (r *Reader) SampleRate() int { return r.sampleRate }

// Channels returns the interleaved channel count.
func (r *Reader) Channels() int { return r.channels }

// SampleWidth returns bytes per sample.
func (r *Reader) SampleWidth() int { return r.sampleWidth }

// TotalSamples returns the number of per-channel sample frames in the data chunk.
func (r *Reader) TotalSamples() int {
	return int(r.remaining) / (r.sampleWidth * r.channels)
}

// ReadSamples reads up to n sample frames of raw bytes. It returns io.EOF once
// the data chunk is exhausted; the final read may be shorter than requested.
func (r *Reader) ReadSamples(n int) ([]byte, error) {
	if n <= 0 {
		return nil, errors.New("wav: non-positive sample count")
	}
	if r.remaining == 0 {
		return nil, io.EOF
	}
	want := uint32(n * r.sampleWidth * r.channels)
	if want > r.remaining {
		want = r.remaining
	}
	buf := make([]byte, want)
	read, err := io.ReadFull(r.f, buf)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			// Truncated data chunk; hand back what exists.
			r.remaining = 0
			if read == 0 {
				return nil, io.EOF
			}
			return buf[:read], nil
		}
		return nil, fmt.Errorf("read samples: %w", err)
	}
	r.remaining -= want
	return buf, nil
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	if r == nil || r.f == nil {
		return nil
	}
	return r.f.Close()
}
