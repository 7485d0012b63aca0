package main

import (
	"github.com/spf13/cobra"

	"github.com/hengadev/blockx"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "blockx-gen",
		Short: "Generate type universe registrations for blockx",
		Long: `blockx-gen scans Go packages and writes a registration file in each of
them. The generated init functions add every package-level named type to the
blockx type universe, which package and marker rules are resolved against.

Interfaces, aliases and generic types are never registered. A type can be
left out with a "//blockx:options skip" line in its doc comment.`,
		Version:       blockx.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "blockx.yaml", "config file path")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(
		newGenerateCmd(opts),
		newListCmd(opts),
		newInitCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// loadConfig reads and validates the generator configuration.
func (o *rootOptions) loadConfig() (*Config, error) {
	config, err := LoadConfigOrDefault(o.configPath)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
