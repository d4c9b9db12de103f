//go:build !tiny

package constants

// Chain specific constants by configuration, eg tiny

const (
	// Number of recent block hashes kept. Mortal transactions born before
	// this window are rejected as ancient.
	BlockHashCount = 2400
)
