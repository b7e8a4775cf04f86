package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}
	rootCmd := &cobra.Command{
		Use:           "jgen",
		Short:         "Generate Java fields, methods, imports and invocations at a position",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.PersistentFlags().CountVarP(&g.verbose, "verbose", "v", "log more, repeat for debug output")
	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default: nearest .jgen.yaml)")

	rootCmd.AddCommand(newFieldsCmd(g))
	rootCmd.AddCommand(newMethodCmd(g))
	rootCmd.AddCommand(newImportCmd(g))
	rootCmd.AddCommand(newInvokeCmd(g))
	rootCmd.AddCommand(newAccessorCmd(g, "getters"))
	rootCmd.AddCommand(newAccessorCmd(g, "setters"))
	rootCmd.AddCommand(newSymbolsCmd(g))
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newLSPCmd(g))
	return rootCmd
}
