// Package pipeline fans region work out to a bounded pool of workers and
// collects results back in submission order. It runs the two stages of
// subtitle generation, clip extraction then recognition, with per-item
// failure isolation and cooperative cancellation.
package pipeline
