package main

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hengadev/blockx"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			info := blockx.FullVersionInfo()
			fmt.Fprintf(out, "blockx-gen %s\n", color.New(color.Bold).Sprint(info.String()))
			if info.GitCommit != "" {
				fmt.Fprintf(out, "Git Commit: %s\n", info.GitCommit)
				fmt.Fprintf(out, "Build Date: %s\n", info.BuildDate)
			}
			fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
