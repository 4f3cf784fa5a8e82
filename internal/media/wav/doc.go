// Package wav reads PCM samples out of RIFF/WAVE files produced by the
// ffmpeg audio frontend. Only uncompressed integer PCM is supported.
package wav
