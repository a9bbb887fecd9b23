package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/librapid/librapid-go"
	"github.com/spf13/cobra"
)

// extraOpts are appended to every load; tests use it to stub the opener.
var extraOpts []librapid.Option

type globalFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "librapid",
		Short:         "Inspect and load the native LibRapid engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log each load step to stderr")

	root.AddCommand(
		newVersionCmd(),
		newPathsCmd(flags),
		newInfoCmd(flags),
		newConfigCmd(flags),
	)
	return root
}

// loadConfig merges the config file, if any, with environment overrides.
func (f *globalFlags) loadConfig() (*librapid.Config, error) {
	cfg := &librapid.Config{}
	if f.configPath != "" {
		var err error
		if cfg, err = librapid.LoadConfig(f.configPath); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (f *globalFlags) options(cfg *librapid.Config, stderr io.Writer) []librapid.Option {
	opts := []librapid.Option{librapid.WithConfig(cfg)}
	if f.verbose || cfg.Verbose {
		opts = append(opts, librapid.WithLogger(log.New(stderr, "librapid: ", 0)))
	}
	return append(opts, extraOpts...)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "librapid %s (engine ABI %d)\n", version, librapid.ABIVersion)
		},
	}
}
