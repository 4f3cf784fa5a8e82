// Package generator orchestrates a full subtitle run: preflight, audio
// extraction, speech region detection, concurrent recognition, optional
// translation, and rendering to the requested output file.
package generator
