// Package subtitle assembles recognized transcripts with their regions and
// renders them in one of the registered output syntaxes.
package subtitle
