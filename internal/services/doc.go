// Package services defines the sentinel error taxonomy shared by every
// component that talks to an external collaborator (ffmpeg, the recognition
// API, the translation API) or validates user input.
//
// Errors are tagged with one of the exported markers via Wrap so callers can
// classify failures with errors.Is: configuration and external-tool errors
// terminate the run, transient failures are retried or downgraded to absent
// results, and everything else stays contained in the component that raised it.
package services
