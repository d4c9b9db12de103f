package main

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/eigerco/primitives/internal/crypto"
	"github.com/eigerco/primitives/internal/era"
)

type eraView struct {
	Era     string `json:"era"`
	Period  uint64 `json:"period"`
	Phase   uint64 `json:"phase"`
	Encoded string `json:"encoded"`
	Birth   uint64 `json:"birth,omitempty"`
	Death   uint64 `json:"death,omitempty"`
}

func (a *app) eraCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "era",
		Short: "Encode and decode transaction eras",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "encode <period> <current>",
		Short: "Encode the era of a transaction created at block current. A zero period is immortal.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("parsing period: %w", err)
			}
			current, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("parsing current block: %w", err)
			}
			e := era.Immortal()
			if period != 0 {
				e = era.Mortal(period, current)
			}
			return a.printEra(e, current, true)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "decode <hex> [current]",
		Short: "Decode an encoded era, optionally resolving its lifetime at block current",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := crypto.DecodeHex(args[0])
			if err != nil {
				return err
			}
			var e era.Era
			if err := a.scale.Decode(b, &e); err != nil {
				return fmt.Errorf("decoding era: %w", err)
			}
			if len(args) == 1 {
				return a.printEra(e, 0, false)
			}
			current, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("parsing current block: %w", err)
			}
			return a.printEra(e, current, true)
		},
	})
	return cmd
}

func (a *app) printEra(e era.Era, current uint64, lifetime bool) error {
	b, err := a.scale.Encode(e)
	if err != nil {
		return err
	}
	view := eraView{
		Era:     e.String(),
		Period:  e.Period,
		Phase:   e.Phase,
		Encoded: "0x" + hex.EncodeToString(b),
	}
	if lifetime && !e.IsImmortal() {
		view.Birth = e.Birth(current)
		view.Death = e.Death(current)
	}
	return a.print(view)
}
