package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newInitCmd(root *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := root.configPath
			if !force {
				if _, err := os.Stat(path); err == nil {
					err := fmt.Errorf("configuration file %s already exists, use --force to overwrite", path)
					printError(cmd.ErrOrStderr(), err)
					return err
				}
			}

			if err := SaveConfig(DefaultConfig(), path); err != nil {
				printError(cmd.ErrOrStderr(), err)
				return err
			}

			okColor.Fprintf(cmd.OutOrStdout(), "Configuration file created at %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	return cmd
}
