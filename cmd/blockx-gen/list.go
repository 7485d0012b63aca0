package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hengadev/blockx/internal/codegen"
)

func newListCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list [packages]",
		Short: "List the types that would be registered",
		Long: `Print the qualified name of every type generate would register, with
its kind and the file declaring it. Embedded fields are shown because they are
what struct markers are matched against.`,
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

			generator := NewGenerator(config, cmd.ErrOrStderr(), root.verbose)
			pkgs, err := generator.Discover(cmd.Context(), dirs)
			if err != nil {
				printError(cmd.ErrOrStderr(), err)
				return err
			}

			out := cmd.OutOrStdout()
			total := 0
			for _, pkg := range pkgs {
				if len(pkg.Types) == 0 {
					continue
				}
				importPath := resolveImportPath(pkg)
				for _, t := range pkg.Types {
					fmt.Fprintf(out, "%s.%s\t%s\t%s", importPath, t.TypeName, t.Kind, t.SourceFile)
					if len(t.Embedded) > 0 {
						fmt.Fprintf(out, "\tembeds %s", strings.Join(t.Embedded, ", "))
					}
					fmt.Fprintln(out)
				}
				total += len(pkg.Types)
			}
			if root.verbose {
				okColor.Fprintf(cmd.ErrOrStderr(), "%d types in %d packages\n", total, len(pkgs))
			}
			return nil
		},
	}
}

// resolveImportPath falls back to the package name outside a module.
func resolveImportPath(pkg *codegen.PackageInfo) string {
	mod, err := codegen.FindModule(pkg.Dir)
	if err != nil {
		return pkg.Name
	}
	importPath, err := mod.ImportPath(pkg.Dir)
	if err != nil {
		return pkg.Name
	}
	return importPath
}
