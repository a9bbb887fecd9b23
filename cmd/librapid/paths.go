package main

import (
	"fmt"

	"github.com/librapid/librapid-go"
	"github.com/spf13/cobra"
)

func newPathsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Show where the engine and its dependencies are looked up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			info, err := librapid.Describe(flags.options(cfg, cmd.ErrOrStderr())...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Host:           %s/%s\n", info.Host, info.Arch)
			fmt.Fprintf(out, "Install dir:    %s\n", info.InstallDir)
			if info.DependencyDir != "" {
				fmt.Fprintf(out, "Dependency dir: %s%s\n", info.DependencyDir, missing(info.DependencyDirExists))
			} else {
				fmt.Fprintln(out, "Dependency dir: (not registered on this host)")
			}
			fmt.Fprintf(out, "Library:        %s%s\n", info.LibraryPath, missing(info.LibraryExists))
			return nil
		},
	}
}

func missing(exists bool) string {
	if exists {
		return ""
	}
	return " (missing)"
}
