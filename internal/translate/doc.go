// Package translate calls a Google-translate-style REST endpoint to convert
// recognized transcripts into a destination language. It is an optional
// post-processing step; failures leave the original transcript in place.
package translate
