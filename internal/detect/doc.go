// Package detect finds speech regions in a PCM stream using short-term
// frame energies and a percentile-derived silence threshold.
package detect
