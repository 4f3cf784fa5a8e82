package subtitle

import (
	"fmt"
	"os"
	"strings"

	"subvox/internal/detect"
)

// Cue is one timed subtitle line.
type Cue struct {
	Start float64
	End   float64
	Text  string
}

// Assemble pairs regions[i] with transcripts[i] and drops pairs whose
// transcript is empty. Order is preserved.
func Assemble(regions []detect.Region, transcripts []string) []Cue {
	n := len(regions)
	if len(transcripts) < n {
		n = len(transcripts)
	}
	cues := make([]Cue, 0, n)
	for i := 0; i < n; i++ {
		text := strings.TrimSpace(transcripts[i])
		if text == "" {
			continue
		}
		cues = append(cues, Cue{Start: regions[i].Start, End: regions[i].End, Text: text})
	}
	return cues
}

// Write stores rendered subtitle text as UTF-8 bytes at path, replacing any
// existing file.
func Write(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write subtitles: %w", err)
	}
	return nil
}
