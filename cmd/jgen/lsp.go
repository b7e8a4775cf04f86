package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jgen/java/codebase"
)

var version = "0.1.0"

func newLSPCmd(g *globalOptions) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Serve the generation commands as code actions over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			cfg, err := g.setup(dir)
			if err != nil {
				return err
			}
			server := codebase.NewLSPServer(codebase.ServerOptions{
				Version:        version,
				Generator:      cfg.Generator(),
				Roots:          cfg.SourceRoots,
				SourceArchives: cfg.SourceArchives,
				Watch:          watch,
			})
			return server.RunStdio()
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", true, "rescan .java files changed outside the editor")
	return cmd
}
