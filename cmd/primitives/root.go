package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/eigerco/primitives/internal/config"
	"github.com/eigerco/primitives/pkg/log"
	"github.com/eigerco/primitives/pkg/serialization"
	"github.com/eigerco/primitives/pkg/serialization/codec"
)

// app is the state shared by all subcommands of one invocation.
type app struct {
	out   io.Writer
	cfg   config.Config
	json  *serialization.Serializer
	scale *serialization.Serializer
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{
		out:   out,
		json:  serialization.NewSerializer(&codec.JSONCodec{}),
		scale: serialization.NewSerializer(&codec.SCALECodec{}),
	}

	root := &cobra.Command{
		Use:   "primitives",
		Short: "Inspect and index runtime primitives",
		Long: `
primitives decodes the wire formats of a blockchain runtime (eras, extrinsics,
headers) and maintains a local chain index used for transaction mortality.
Settings come from --config, PRIMITIVES_* environment variables and flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	config.RegisterFlags(root.PersistentFlags())
	root.SetOut(out)

	root.AddCommand(
		a.eraCmd(),
		a.extrinsicCmd(),
		a.headerCmd(),
		a.chainCmd(),
		a.indicesCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	v, err := config.NewViper(cmd.Flags())
	if err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	opts, err := cfg.LogOptions()
	if err != nil {
		return err
	}
	opts.Output = cmd.ErrOrStderr()
	log.Init(opts)

	a.cfg = cfg
	log.Root.Debug().Str("command", cmd.CommandPath()).Str("hasher", cfg.Hasher).Msg("config loaded")
	return nil
}

// print writes v as a single line of JSON.
func (a *app) print(v any) error {
	b, err := a.json.Encode(v)
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(a.out, string(b))
	return err
}
