// Package ffmpeg invokes the external ffmpeg binary to turn arbitrary media
// into the two shapes the pipeline needs: a whole-file mono PCM stream for
// region detection and per-region FLAC clips for recognition.
package ffmpeg
