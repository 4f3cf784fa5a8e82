// Package ffprobe wraps ffprobe invocations for source preflight checks.
package ffprobe
