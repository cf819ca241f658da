package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/maauso/mocky-effects/internal/effect"
)

func newEffectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "effects",
		Short: "Print the effect catalog as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"effects": effect.Catalog()})
		},
	}
}
