package main

import (
	"fmt"

	"github.com/librapid/librapid-go"
	"github.com/spf13/cobra"
)

func newInfoCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Load the engine and print its version and settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			opts := flags.options(cfg, cmd.ErrOrStderr())

			info, err := librapid.Describe(opts...)
			if err != nil {
				return err
			}
			eng, err := librapid.Load(opts...)
			if err != nil {
				return err
			}
			defer func() { _ = eng.Close() }()

			s := eng.Settings()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Engine:            %s (ABI %d)\n", eng.Version(), eng.ABIVersion())
			fmt.Fprintf(out, "Library:           %s\n", info.LibraryPath)
			fmt.Fprintf(out, "CPU:               %s, %d threads, SIMD %s, FMA %t\n", info.Arch, info.NumCPU, info.SIMD, info.HasFMA)
			fmt.Fprintf(out, "Cache line:        %d bytes\n", eng.CacheLineSize())
			fmt.Fprintf(out, "Memory alignment:  %d bytes\n", eng.MemoryAlignment())
			fmt.Fprintf(out, "Threads:           %d\n", s.NumThreads)
			if s.Seed != nil {
				fmt.Fprintf(out, "Seed:              %d\n", *s.Seed)
			}
			fmt.Fprintf(out, "Throw on assert:   %t\n", s.ThrowOnAssert)
			fmt.Fprintf(out, "Thresholds:        multithread=%d gemm=%d gemv=%d\n",
				s.MultithreadThreshold, s.GemmMultithreadThreshold, s.GemvMultithreadThreshold)
			return nil
		},
	}
}
