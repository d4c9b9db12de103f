package main

import (
	"encoding/hex"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/eigerco/primitives/internal/crypto"
	"github.com/eigerco/primitives/internal/executive"
	"github.com/eigerco/primitives/internal/extrinsic"
	"github.com/eigerco/primitives/internal/indices"
	"github.com/eigerco/primitives/internal/signature"
	"github.com/eigerco/primitives/internal/store"
	"github.com/eigerco/primitives/internal/validity"
	"github.com/eigerco/primitives/pkg/db"
	"github.com/eigerco/primitives/pkg/log"
	"github.com/eigerco/primitives/pkg/serialization/codec/scale"
)

// fixedNonce reports the same expected transaction index for every account.
type fixedNonce uint64

func (n fixedNonce) AccountNonce(signature.MultiSigner) (uint64, error) {
	return uint64(n), nil
}

func (n fixedNonce) IncAccountNonce(signature.MultiSigner) error {
	return nil
}

type validityView struct {
	Outcome   string   `json:"outcome"`
	Validity  string   `json:"validity"`
	Priority  uint64   `json:"priority,omitempty"`
	Requires  []string `json:"requires,omitempty"`
	Provides  []string `json:"provides,omitempty"`
	Longevity uint64   `json:"longevity,omitempty"`
}

func newValidityView(v validity.TransactionValidity) validityView {
	view := validityView{Outcome: v.Outcome(), Validity: v.String()}
	if valid, ok := v.AsValid(); ok {
		view.Priority = valid.Priority
		view.Longevity = valid.Longevity
		view.Requires = hexTags(valid.Requires)
		view.Provides = hexTags(valid.Provides)
	}
	return view
}

func hexTags(tags []validity.Tag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, "0x"+hex.EncodeToString(t))
	}
	return out
}

func (a *app) validateCmd() *cobra.Command {
	var (
		nonce       uint64
		metricsFile string
	)
	cmd := &cobra.Command{
		Use:   "validate <hex>...",
		Short: "Validate extrinsics against the local chain index and account indices",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			xts := make([]extrinsic.Extrinsic[Address, signature.MultiSigner, OpaqueCall], 0, len(args))
			for i, arg := range args {
				b, err := crypto.DecodeHex(arg)
				if err != nil {
					return err
				}
				var xt Extrinsic
				if err := scale.Unmarshal(b, &xt); err != nil {
					return fmt.Errorf("decoding extrinsic %d: %w", i, err)
				}
				xts = append(xts, xt)
			}

			return a.withChain(func(c *store.Chain, kv db.KVStore) error {
				registry := indices.NewRegistry[signature.MultiSigner](kv)
				chainCtx := store.NewChainContext[Address, signature.MultiSigner](c, registry)
				hasher, err := a.cfg.HasherImpl()
				if err != nil {
					return err
				}
				reg := prometheus.NewRegistry()
				metrics, err := executive.NewMetrics(reg)
				if err != nil {
					return err
				}
				// Validation never dispatches.
				ex := executive.New[Address, signature.MultiSigner, OpaqueCall](chainCtx, fixedNonce(nonce), nil,
					executive.WithHasher[Address, signature.MultiSigner, OpaqueCall](hasher),
					executive.WithMetrics[Address, signature.MultiSigner, OpaqueCall](metrics),
				)

				results, err := ex.ValidateBatch(cmd.Context(), xts, a.cfg.ValidateWorkers)
				if err != nil {
					return err
				}
				log.Executive.Debug().Int("count", len(results)).Int("workers", a.cfg.ValidateWorkers).Msg("validated batch")
				for _, v := range results {
					if err := a.print(newValidityView(v)); err != nil {
						return err
					}
				}
				if metricsFile == "" {
					return nil
				}
				if err := prometheus.WriteToTextfile(metricsFile, reg); err != nil {
					return fmt.Errorf("writing metrics: %w", err)
				}
				return nil
			})
		},
	}
	cmd.Flags().Uint64Var(&nonce, "nonce", 0, "Expected transaction index of every sender.")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write the validation metrics in the Prometheus text format to this file.")
	return cmd
}
