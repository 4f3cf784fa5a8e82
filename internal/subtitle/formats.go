package subtitle

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// formatTimestamp renders seconds as HH:MM:SS followed by milliseconds joined
// with sep ("," for SRT, "." for WebVTT).
func formatTimestamp(seconds float64, sep string) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	totalMillis := int64(math.Round(seconds * 1000))
	millis := totalMillis % 1000
	totalSeconds := totalMillis / 1000
	secs := totalSeconds % 60
	mins := (totalSeconds / 60) % 60
	hours := totalSeconds / 3600
	return fmt.Sprintf("%02d:%02d:%02d%s%03d", hours, mins, secs, sep, millis)
}

type srtFormatter struct{}

func (srtFormatter) Name() string { return "srt" }

func (srtFormatter) Render(cues []Cue) (string, error) {
	var b strings.Builder
	for i, cue := range cues {
		fmt.Fprintf(&b, "%d\n", i+1)
		fmt.Fprintf(&b, "%s --> %s\n", formatTimestamp(cue.Start, ","), formatTimestamp(cue.End, ","))
		b.WriteString(cue.Text)
		b.WriteString("\n\n")
	}
	return b.String(), nil
}

type vttFormatter struct{}

func (vttFormatter) Name() string { return "vtt" }

func (vttFormatter) Render(cues []Cue) (string, error) {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, cue := range cues {
		fmt.Fprintf(&b, "%s --> %s\n", formatTimestamp(cue.Start, "."), formatTimestamp(cue.End, "."))
		b.WriteString(cue.Text)
		b.WriteString("\n\n")
	}
	return b.String(), nil
}

type jsonFormatter struct{}

func (jsonFormatter) Name() string { return "json" }

func (jsonFormatter) Render(cues []Cue) (string, error) {
	type line struct {
		Start   float64 `json:"start"`
		End     float64 `json:"end"`
		Content string  `json:"content"`
	}
	lines := make([]line, 0, len(cues))
	for _, cue := range cues {
		lines = append(lines, line{Start: cue.Start, End: cue.End, Content: cue.Text})
	}
	data, err := json.MarshalIndent(lines, "", "  ")
	if err != nil {
		return "", fmt.Errorf("render json subtitles: %w", err)
	}
	return string(data) + "\n", nil
}

type rawFormatter struct{}

func (rawFormatter) Name() string { return "raw" }

func (rawFormatter) Render(cues []Cue) (string, error) {
	var b strings.Builder
	for _, cue := range cues {
		b.WriteString(cue.Text)
		b.WriteString("\n")
	}
	return b.String(), nil
}
