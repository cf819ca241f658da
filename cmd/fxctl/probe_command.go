package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Report whether hardware-accelerated encoding is available",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, deps, err := ctx.dependencies()
			if err != nil {
				return err
			}

			available := deps.Probe.Available(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "Acceleration mode: %s\n", cfg.Acceleration)
			fmt.Fprintf(cmd.OutOrStdout(), "GPU available:     %t\n", available)
			return nil
		},
	}
}
