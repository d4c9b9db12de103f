package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eigerco/primitives/internal/block"
	"github.com/eigerco/primitives/internal/crypto"
	"github.com/eigerco/primitives/internal/digest"
)

type headerView struct {
	Hash           crypto.Hash   `json:"hash"`
	Number         uint64        `json:"number"`
	ParentHash     crypto.Hash   `json:"parentHash"`
	StateRoot      crypto.Hash   `json:"stateRoot"`
	ExtrinsicsRoot crypto.Hash   `json:"extrinsicsRoot"`
	Digest         []digest.Item `json:"digest"`
}

func (a *app) headerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "header",
		Short: "Inspect block headers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "hash <hex>",
		Short: "Decode an encoded header and print it with its hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := decodeHeaderHex(args[0])
			if err != nil {
				return err
			}
			hasher, err := a.cfg.HasherImpl()
			if err != nil {
				return err
			}
			hash, err := h.Hash(hasher)
			if err != nil {
				return err
			}
			return a.print(newHeaderView(hash, h))
		},
	})
	return cmd
}

func decodeHeaderHex(s string) (block.Header, error) {
	b, err := crypto.DecodeHex(s)
	if err != nil {
		return block.Header{}, err
	}
	h, err := block.DecodeHeader(b)
	if err != nil {
		return block.Header{}, fmt.Errorf("decoding header: %w", err)
	}
	return h, nil
}

func newHeaderView(hash crypto.Hash, h block.Header) headerView {
	logs := h.Digest.Logs()
	if logs == nil {
		logs = []digest.Item{}
	}
	return headerView{
		Hash:           hash,
		Number:         h.Number,
		ParentHash:     h.ParentHash,
		StateRoot:      h.StateRoot,
		ExtrinsicsRoot: h.ExtrinsicsRoot,
		Digest:         logs,
	}
}
