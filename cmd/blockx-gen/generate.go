package main

import (
	"github.com/spf13/cobra"
)

func newGenerateCmd(root *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "generate [packages]",
		Short: "Write registration files",
		Long: `Write a registration file in each package directory. Patterns ending in
"/..." cover every package below the directory.

Examples:
  # Current package
  blockx-gen generate

  # Whole module, without writing anything
  blockx-gen generate ./... --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := root.loadConfig()
			if err != nil {
				printError(cmd.ErrOrStderr(), err)
				return err
			}

			dirs, err := expandPatterns(args)
			if err != nil {
				printError(cmd.ErrOrStderr(), err)
				return err
			}

			generator := NewGenerator(config, cmd.OutOrStdout(), root.verbose)
			result, err := generator.Generate(cmd.Context(), dirs, dryRun)
			if err != nil {
				printError(cmd.ErrOrStderr(), err)
				return err
			}

			okColor.Fprintf(cmd.OutOrStdout(), "Registered %d types in %d packages\n", result.Types, len(result.Written))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be generated without writing files")
	return cmd
}
