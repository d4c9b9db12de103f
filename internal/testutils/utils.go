package testutils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/primitives/internal/crypto"
	"github.com/eigerco/primitives/internal/crypto/ed25519"
	"github.com/eigerco/primitives/internal/crypto/sr25519"
)

func RandomHash(t *testing.T) crypto.Hash {
	hash := make([]byte, crypto.HashSize)
	_, err := rand.Read(hash)
	require.NoError(t, err)
	return crypto.Hash(hash)
}

func RandomBytes(t *testing.T, n int) []byte {
	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return b
}

func RandomEd25519Keypair(t *testing.T) *ed25519.Keypair {
	kp, err := ed25519.GenerateKeypair(rand.Reader)
	require.NoError(t, err)
	return kp
}

func RandomSr25519Keypair(t *testing.T) *sr25519.Keypair {
	kp, err := sr25519.GenerateKeypair()
	require.NoError(t, err)
	return kp
}

// MustDecodeHex decodes a hex string, spaces are ignored.
func MustDecodeHex(t *testing.T, s string) []byte {
	b, err := hex.DecodeString(strings.ReplaceAll(strings.TrimPrefix(s, "0x"), " ", ""))
	require.NoError(t, err)
	return b
}

// RequireEqualBytes compares two encodings and fails with a unified diff of
// their hex dumps.
func RequireEqualBytes(t *testing.T, expected, actual []byte) {
	t.Helper()
	if string(expected) == string(actual) {
		return
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(hex.Dump(expected)),
		B:        difflib.SplitLines(hex.Dump(actual)),
		FromFile: "Expected",
		ToFile:   "Actual",
		Context:  1,
	})
	t.Fatalf("encoding mismatch:\n%s", diff)
}
