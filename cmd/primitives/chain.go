package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/eigerco/primitives/internal/crypto"
	"github.com/eigerco/primitives/internal/store"
	"github.com/eigerco/primitives/pkg/db"
	"github.com/eigerco/primitives/pkg/db/pebble"
	"github.com/eigerco/primitives/pkg/log"
)

type importedView struct {
	Number uint64      `json:"number"`
	Hash   crypto.Hash `json:"hash"`
}

type bestView struct {
	Best uint64 `json:"best"`
}

func (a *app) chainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Maintain the local chain index",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "import <hex-header>...",
		Short: "Import encoded headers into the index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withChain(func(c *store.Chain, _ db.KVStore) error {
				for _, arg := range args {
					h, err := decodeHeaderHex(arg)
					if err != nil {
						return err
					}
					hash, err := c.PutHeader(h)
					if err != nil {
						return fmt.Errorf("importing header %d: %w", h.Number, err)
					}
					if err := a.print(importedView{Number: h.Number, Hash: hash}); err != nil {
						return err
					}
				}
				return a.print(bestView{Best: c.CurrentHeight()})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "hash <number>",
		Short: "Print the hash of the indexed block at number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("parsing block number: %w", err)
			}
			return a.withChain(func(c *store.Chain, _ db.KVStore) error {
				hash, err := c.BlockHash(number)
				if err != nil {
					return fmt.Errorf("block %d: %w", number, err)
				}
				return a.print(importedView{Number: number, Hash: hash})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "best",
		Short: "Print the best block number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withChain(func(c *store.Chain, _ db.KVStore) error {
				return a.print(bestView{Best: c.CurrentHeight()})
			})
		},
	})
	return cmd
}

// withChain opens the index at the configured data dir, in memory when none
// is set, and closes it once f returns. f also gets the underlying store,
// shared with the account indices.
func (a *app) withChain(f func(*store.Chain, db.KVStore) error) (err error) {
	var kv db.KVStore
	if a.cfg.DataDir == "" {
		kv, err = pebble.NewKVStore()
	} else {
		kv, err = pebble.NewPebbleStore(a.cfg.DataDir, 0)
	}
	if err != nil {
		return err
	}

	hasher, err := a.cfg.HasherImpl()
	if err != nil {
		_ = kv.Close()
		return err
	}
	c, err := store.NewChain(kv, hasher,
		store.WithBlockHashCount(a.cfg.BlockHashCount),
		store.WithCacheSize(a.cfg.CacheSize),
	)
	if err != nil {
		_ = kv.Close()
		return err
	}
	log.Chain.Debug().Str("dataDir", a.cfg.DataDir).Uint64("best", c.CurrentHeight()).Msg("chain index opened")

	defer func() {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return f(c, kv)
}
