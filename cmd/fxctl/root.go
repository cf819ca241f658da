package main

import (
	"sync"

	"github.com/spf13/cobra"

	"github.com/maauso/mocky-effects/internal/bootstrap"
	"github.com/maauso/mocky-effects/internal/config"
)

// commandContext loads configuration and dependencies once, on first use.
type commandContext struct {
	once sync.Once
	cfg  *config.Config
	deps *bootstrap.Dependencies
	err  error
}

func (c *commandContext) dependencies() (*config.Config, *bootstrap.Dependencies, error) {
	c.once.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			c.err = err
			return
		}
		deps, err := bootstrap.NewDependencies(cfg, cfg.NewLogger())
		if err != nil {
			c.err = err
			return
		}
		c.cfg, c.deps = cfg, deps
	})
	return c.cfg, c.deps, c.err
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "fxctl",
		Short:         "Apply Mocky video effects locally",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newApplyCommand(ctx))
	rootCmd.AddCommand(newProbeCommand(ctx))
	rootCmd.AddCommand(newEffectsCommand())

	return rootCmd
}
