package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/eigerco/primitives/internal/crypto"
	"github.com/eigerco/primitives/internal/extrinsic"
	"github.com/eigerco/primitives/internal/indices"
	"github.com/eigerco/primitives/internal/signature"
	"github.com/eigerco/primitives/pkg/serialization/codec/scale"
)

// OpaqueCall is a call whose encoding is not known to the tool. It consumes
// every remaining byte of the extrinsic.
type OpaqueCall []byte

func (c OpaqueCall) MarshalSCALE() ([]byte, error) {
	return c, nil
}

func (c *OpaqueCall) UnmarshalSCALE(r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	*c = b
	return nil
}

type (
	Address   = indices.Address[signature.MultiSigner]
	Extrinsic = extrinsic.UncheckedMortalCompact[Address, signature.MultiSigner, signature.MultiSignature, OpaqueCall]
)

type extrinsicView struct {
	Signed    bool   `json:"signed"`
	Sender    string `json:"sender,omitempty"`
	Scheme    string `json:"scheme,omitempty"`
	Signature string `json:"signature,omitempty"`
	Index     uint64 `json:"index"`
	Era       string `json:"era,omitempty"`
	Call      string `json:"call"`
	Length    int    `json:"length"`
}

func (a *app) extrinsicCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extrinsic",
		Short: "Inspect extrinsics",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "decode <hex>",
		Short: "Decode a length prefixed mortal extrinsic with a compact index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := crypto.DecodeHex(args[0])
			if err != nil {
				return err
			}
			view, err := describeExtrinsic(b)
			if err != nil {
				return err
			}
			return a.print(view)
		},
	})
	cmd.AddCommand(a.validateCmd())
	return cmd
}

func describeExtrinsic(b []byte) (extrinsicView, error) {
	var xt Extrinsic
	if err := scale.Unmarshal(b, &xt); err != nil {
		return extrinsicView{}, fmt.Errorf("decoding extrinsic: %w", err)
	}

	view := extrinsicView{
		Signed: xt.IsSigned(),
		Call:   "0x" + hex.EncodeToString(xt.Function),
		Length: len(b),
	}
	if !xt.IsSigned() {
		return view, nil
	}

	s := xt.Signature
	index, sig, err := s.Signature.IndexValue()
	if err != nil {
		return extrinsicView{}, err
	}
	raw, err := scale.Marshal(sig)
	if err != nil {
		return extrinsicView{}, err
	}
	view.Sender = s.Signed.String()
	view.Scheme = schemeName(index)
	view.Signature = "0x" + hex.EncodeToString(raw)
	view.Index = s.Index
	view.Era = s.Era.String()
	return view, nil
}

func schemeName(index uint) string {
	switch index {
	case signature.Ed25519Type:
		return "ed25519"
	case signature.Sr25519Type:
		return "sr25519"
	}
	return fmt.Sprintf("unknown(%d)", index)
}
