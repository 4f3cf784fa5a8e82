package wav

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Encode writes mono 16-bit PCM samples as a minimal WAV stream.
func Encode(w io.Writer, sampleRate int, samples []int16) error {
	if sampleRate <= 0 {
		return fmt.Errorf("wav encode: invalid sample rate %d", sampleRate)
	}
	dataSize := len(samples) * 2

	var header [44]byte
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+dataSize))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], pcmFormat)
	binary.LittleEndian.PutUint16(header[22:24], 1) // mono
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(sampleRate*2)) // byte rate
	binary.LittleEndian.PutUint16(header[32:34], 2)                    // block align
	binary.LittleEndian.PutUint16(header[34:36], 16)                   // bits per sample
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataSize))

	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("wav encode: write header: %w", err)
	}
	body := make([]byte, dataSize)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(body[i*2:], uint16(s))
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("wav encode: write samples: %w", err)
	}
	return nil
}
