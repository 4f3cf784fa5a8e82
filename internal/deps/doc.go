// Package deps checks for the external binaries subvox shells out to.
package deps
