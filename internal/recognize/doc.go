// Package recognize posts audio clips to a Google-speech-style recognition
// endpoint and extracts the best transcript from its newline-delimited JSON
// response. Connection-level failures are retried a bounded number of times;
// every other failure degrades to an unavailable result so a single region can
// never abort a whole run.
package recognize
