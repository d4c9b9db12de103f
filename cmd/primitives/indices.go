package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eigerco/primitives/internal/crypto"
	"github.com/eigerco/primitives/internal/indices"
	"github.com/eigerco/primitives/internal/signature"
	"github.com/eigerco/primitives/internal/store"
	"github.com/eigerco/primitives/pkg/db"
)

type accountView struct {
	Index   uint32 `json:"index"`
	Account string `json:"account"`
}

func (a *app) indicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "indices",
		Short: "Manage account indices",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <scheme:hex-public-key>...",
		Short: "Assign indices to new accounts, e.g. ed25519:0x...",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signers := make([]signature.MultiSigner, 0, len(args))
			for _, arg := range args {
				s, err := parseSigner(arg)
				if err != nil {
					return err
				}
				signers = append(signers, s)
			}
			return a.withChain(func(_ *store.Chain, kv db.KVStore) error {
				registry := indices.NewRegistry[signature.MultiSigner](kv)
				for _, s := range signers {
					index, err := registry.OnNewAccount(s)
					if err != nil {
						return fmt.Errorf("adding %s: %w", s, err)
					}
					if err := a.print(accountView{Index: index, Account: s.String()}); err != nil {
						return err
					}
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "lookup <index>",
		Short: "Print the account holding an index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("parsing index: %w", err)
			}
			return a.withChain(func(_ *store.Chain, kv db.KVStore) error {
				s, err := indices.NewRegistry[signature.MultiSigner](kv).LookupIndex(uint32(index))
				if err != nil {
					return fmt.Errorf("index %d: %w", index, err)
				}
				return a.print(accountView{Index: uint32(index), Account: s.String()})
			})
		},
	})
	return cmd
}

// parseSigner reads the scheme:0x-hex form printed by MultiSigner.String.
func parseSigner(s string) (signature.MultiSigner, error) {
	scheme, key, ok := strings.Cut(s, ":")
	if !ok {
		return signature.MultiSigner{}, fmt.Errorf("account %q: expected scheme:hex", s)
	}
	b, err := crypto.DecodeHex(key)
	if err != nil {
		return signature.MultiSigner{}, err
	}
	switch scheme {
	case "ed25519":
		var pub signature.Ed25519Public
		if len(b) != len(pub) {
			return signature.MultiSigner{}, fmt.Errorf("ed25519 key: want %d bytes, got %d", len(pub), len(b))
		}
		copy(pub[:], b)
		return signature.NewEd25519Signer(pub), nil
	case "sr25519":
		var pub signature.Sr25519Public
		if len(b) != len(pub) {
			return signature.MultiSigner{}, fmt.Errorf("sr25519 key: want %d bytes, got %d", len(pub), len(b))
		}
		copy(pub[:], b)
		return signature.NewSr25519Signer(pub), nil
	}
	return signature.MultiSigner{}, fmt.Errorf("account %q: unknown scheme %q", s, scheme)
}
