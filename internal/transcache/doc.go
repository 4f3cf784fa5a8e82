// Package transcache persists recognized transcripts keyed by clip digest so
// repeated runs over the same media skip the speech API.
package transcache
