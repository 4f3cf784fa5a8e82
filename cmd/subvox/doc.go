// Command subvox generates subtitle files from the speech in audio and video
// files.
package main
