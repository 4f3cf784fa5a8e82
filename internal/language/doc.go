// Package language holds the table of recognition languages the speech
// service accepts and helpers to normalize user-supplied codes against it.
package language
