//go:build tiny

package constants

const (
	BlockHashCount = 16
)
