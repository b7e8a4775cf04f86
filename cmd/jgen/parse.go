package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jgen/format"
	"github.com/dhamidi/jgen/java/parser"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var includeComments bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Dump the syntax tree of a .java file with the offsets --at takes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read java file: %w", err)
			}

			opts := []parser.Option{parser.WithFile(filename)}
			if includeComments {
				opts = append(opts, parser.WithComments())
			}
			p := parser.ParseCompilationUnit(bytes.NewReader(data), opts...)
			node := p.Finish()
			if node == nil {
				return fmt.Errorf("parse java file: incomplete or invalid syntax")
			}

			switch outputFormat {
			case "json":
				enc := format.NewASTJSONEncoder(cmd.OutOrStdout())
				if includeComments {
					return enc.EncodeWithComments(node, p.Comments())
				}
				return enc.Encode(node)
			case "tree":
				fmt.Fprintln(cmd.OutOrStdout(), node.StringWithPositions())
				for _, c := range p.Comments() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", c.Span.Start, c.Literal)
				}
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, tree)")
	cmd.Flags().BoolVar(&includeComments, "comments", false, "include comments")

	return cmd
}
