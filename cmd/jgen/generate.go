package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/jgen/codegen"
	"github.com/dhamidi/jgen/java"
)

// cliDialog answers the generator from flags, spec files and, for the
// member choice, the terminal.
type cliDialog struct {
	fields []codegen.FieldSpec
	method codegen.MethodSpec
	imp    codegen.ImportSpec
	symbol string

	in  io.Reader
	out io.Writer
}

func (d *cliDialog) Fields(context.Context) ([]codegen.FieldSpec, error) {
	if len(d.fields) == 0 {
		return nil, codegen.ErrCancelled
	}
	return d.fields, nil
}

func (d *cliDialog) Method(context.Context, codegen.ScopeKind) (codegen.MethodSpec, error) {
	return d.method, nil
}

func (d *cliDialog) Import(context.Context) (codegen.ImportSpec, error) {
	return d.imp, nil
}

// Member uses --symbol when it is given and asks otherwise. An empty
// answer cancels.
func (d *cliDialog) Member(_ context.Context, candidates []java.Symbol) (java.Symbol, error) {
	name := d.symbol
	if name == "" {
		for i, c := range candidates {
			fmt.Fprintf(d.out, "%d) %s %s\n", i+1, c.Type.Format(java.SimpleName), c.Name)
		}
		fmt.Fprint(d.out, "variable: ")
		line, err := bufio.NewReader(d.in).ReadString('\n')
		if err != nil && line == "" {
			return java.Symbol{}, codegen.ErrCancelled
		}
		name = strings.TrimSpace(line)
		if n, err := strconv.Atoi(name); err == nil && n >= 1 && n <= len(candidates) {
			return candidates[n-1], nil
		}
	}
	for _, c := range candidates {
		if c.Name == name {
			return c, nil
		}
	}
	if d.symbol != "" {
		return java.Symbol{}, fmt.Errorf("no variable %q at this position", name)
	}
	return java.Symbol{}, codegen.ErrCancelled
}

// run executes cmd on file at the --at position.
func run(c *cobra.Command, g *globalOptions, cmd codegen.Command, file, at string, dialog *cliDialog, out *outputOptions) error {
	cfg, f, err := g.workspace(file)
	if err != nil {
		return err
	}
	caret, err := parseAt(f.Source, at)
	if err != nil {
		return err
	}
	dialog.in, dialog.out = c.InOrStdin(), c.ErrOrStderr()
	result, err := codegen.NewGenerator(dialog, cfg.Generator()).Run(c.Context(), cmd, f, caret)
	if err != nil {
		return err
	}
	return out.emit(c, result)
}

func readSpec(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func newFieldsCmd(g *globalOptions) *cobra.Command {
	var at, specPath, access string
	var field codegen.FieldSpec
	out := &outputOptions{}

	cmd := &cobra.Command{
		Use:   "fields <file>",
		Short: "Add fields to the class or interface at a position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dialog := &cliDialog{}
			if specPath != "" {
				if err := readSpec(specPath, &dialog.fields); err != nil {
					return err
				}
			} else {
				a, err := codegen.ParseAccess(access)
				if err != nil {
					return err
				}
				field.Access = a
				dialog.fields = []codegen.FieldSpec{field}
			}
			return run(cmd, g, codegen.CommandFields, args[0], at, dialog, out)
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "position as OFFSET or LINE:COL")
	cmd.Flags().StringVar(&specPath, "spec", "", "YAML file with a list of fields")
	cmd.Flags().StringVar(&access, "access", "", "public, protected, private or default")
	cmd.Flags().BoolVar(&field.Static, "static", false, "static field")
	cmd.Flags().BoolVar(&field.Final, "final", false, "final field")
	cmd.Flags().BoolVar(&field.Transient, "transient", false, "transient field")
	cmd.Flags().BoolVar(&field.Volatile, "volatile", false, "volatile field")
	cmd.Flags().StringVar(&field.Type, "type", "", "field type")
	cmd.Flags().StringVar(&field.Name, "name", "", "field name")
	cmd.Flags().StringVar(&field.Value, "value", "", "initializer expression")
	out.register(cmd)
	return cmd
}

func newMethodCmd(g *globalOptions) *cobra.Command {
	var at, specPath, access string
	var params, typeParams []string
	var method codegen.MethodSpec
	out := &outputOptions{}

	cmd := &cobra.Command{
		Use:   "method <file>",
		Short: "Add a method to the class or interface at a position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dialog := &cliDialog{}
			if specPath != "" {
				if err := readSpec(specPath, &dialog.method); err != nil {
					return err
				}
			} else {
				a, err := codegen.ParseAccess(access)
				if err != nil {
					return err
				}
				method.Access = a
				if method.Parameters, err = parseParameters(params); err != nil {
					return err
				}
				for _, tp := range typeParams {
					method.TypeParameters = append(method.TypeParameters, parseTypeParameter(tp))
				}
				dialog.method = method
			}
			return run(cmd, g, codegen.CommandMethod, args[0], at, dialog, out)
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "position as OFFSET or LINE:COL")
	cmd.Flags().StringVar(&specPath, "spec", "", "YAML file with the method")
	cmd.Flags().StringVar(&access, "access", "", "public, protected, private or default")
	cmd.Flags().BoolVar(&method.Abstract, "abstract", false, "abstract method")
	cmd.Flags().BoolVar(&method.Static, "static", false, "static method")
	cmd.Flags().BoolVar(&method.Final, "final", false, "final method")
	cmd.Flags().BoolVar(&method.Synchronized, "synchronized", false, "synchronized method")
	cmd.Flags().BoolVar(&method.Native, "native", false, "native method")
	cmd.Flags().BoolVar(&method.Strictfp, "strictfp", false, "strictfp method")
	cmd.Flags().StringVar(&method.ReturnType, "type", "void", "return type")
	cmd.Flags().StringVar(&method.Name, "name", "", "method name")
	cmd.Flags().StringArrayVar(&params, "param", nil, `parameter as "[final] TYPE [NAME]", repeatable`)
	cmd.Flags().StringArrayVar(&typeParams, "type-param", nil, `type parameter as "T [extends BOUND]", repeatable`)
	cmd.Flags().StringArrayVar(&method.Throws, "throws", nil, "thrown exception type, repeatable")
	out.register(cmd)
	return cmd
}

// parseParameters reads --param values. A parameter without a name gets
// one suggested from its type.
func parseParameters(values []string) ([]codegen.ParameterSpec, error) {
	params := make([]codegen.ParameterSpec, 0, len(values))
	names := codegen.NewNameRegistry()
	var unnamed []int
	for _, v := range values {
		p := codegen.ParameterSpec{}
		text := strings.TrimSpace(v)
		if rest, ok := strings.CutPrefix(text, "final "); ok {
			p.Final = true
			text = strings.TrimSpace(rest)
		}
		if text == "" {
			return nil, fmt.Errorf("%w: empty parameter %q", codegen.ErrInvalidSpecification, v)
		}
		i := strings.LastIndexAny(text, " \t")
		if i > 0 && codegen.ValidIdentifier(text[i+1:]) && codegen.ValidType(strings.TrimSpace(text[:i])) {
			p.Type, p.Name = strings.TrimSpace(text[:i]), text[i+1:]
			names.Reserve(p.Name)
		} else {
			p.Type = text
			unnamed = append(unnamed, len(params))
		}
		params = append(params, p)
	}
	for _, i := range unnamed {
		params[i].Name = names.Next(codegen.SuggestParameterName(params[i].Type))
	}
	return params, nil
}

func parseTypeParameter(text string) codegen.TypeParameterSpec {
	name, bound, _ := strings.Cut(strings.TrimSpace(text), " ")
	bound = strings.TrimSpace(bound)
	bound = strings.TrimSpace(strings.TrimPrefix(bound, "extends"))
	return codegen.TypeParameterSpec{Name: name, Bound: bound}
}

func newImportCmd(g *globalOptions) *cobra.Command {
	var at string
	dialog := &cliDialog{}
	out := &outputOptions{}

	cmd := &cobra.Command{
		Use:   "import <file> <qualified.Name>",
		Short: "Add an import, skipping ones that are present or implicit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dialog.imp.QualifiedName = args[1]
			if at == "" {
				at = "0"
			}
			return run(cmd, g, codegen.CommandImport, args[0], at, dialog, out)
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "position as OFFSET or LINE:COL, picks the place among the imports")
	cmd.Flags().BoolVar(&dialog.imp.Static, "static", false, "static import")
	out.register(cmd)
	return cmd
}

func newInvokeCmd(g *globalOptions) *cobra.Command {
	var at string
	dialog := &cliDialog{}
	out := &outputOptions{}

	cmd := &cobra.Command{
		Use:   "invoke <file>",
		Short: "Call every public method of a variable that is not a getter or setter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, g, codegen.CommandMethodInvocations, args[0], at, dialog, out)
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "position as OFFSET or LINE:COL")
	cmd.Flags().StringVar(&dialog.symbol, "symbol", "", "variable whose methods are called, asked for when empty")
	out.register(cmd)
	return cmd
}

// newAccessorCmd builds the getters and setters commands, which work on
// the variable under the selection.
func newAccessorCmd(g *globalOptions, use string) *cobra.Command {
	var at string
	out := &outputOptions{}
	command, short := codegen.CommandGetterInvocations, "Store every getter of the selected variable in a local"
	if use == "setters" {
		command, short = codegen.CommandSetterInvocations, "Call every setter of the selected variable"
	}

	cmd := &cobra.Command{
		Use:   use + " <file>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, g, command, args[0], at, &cliDialog{}, out)
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "selection as OFFSET or LINE:COL")
	out.register(cmd)
	return cmd
}

func newSymbolsCmd(g *globalOptions) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "symbols <file>",
		Short: "List the variables visible at a position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, f, err := g.workspace(args[0])
			if err != nil {
				return err
			}
			caret, err := parseAt(f.Source, at)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, s := range codegen.LocalCandidates(f, caret) {
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.Kind, s.Type, s.Name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "position as OFFSET or LINE:COL")
	return cmd
}
