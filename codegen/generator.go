package codegen

import (
	"context"
	"errors"
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/jgen/edit"
	"github.com/dhamidi/jgen/java"
	"github.com/dhamidi/jgen/java/parser"
)

var log = commonlog.GetLogger("jgen.codegen")

// Dialog asks the user for what to generate. Implementations return
// ErrCancelled when the user backs out.
type Dialog interface {
	Fields(ctx context.Context) ([]FieldSpec, error)
	Method(ctx context.Context, kind ScopeKind) (MethodSpec, error)
	Import(ctx context.Context) (ImportSpec, error)
	// Member picks the variable whose methods are invoked.
	Member(ctx context.Context, candidates []java.Symbol) (java.Symbol, error)
}

type Options struct {
	// Indent is one level of indentation, edit.DefaultIndent when empty.
	Indent string
	// ImplicitImports are packages that never get imported,
	// DefaultImplicitImports when nil.
	ImplicitImports []string
	// NameHints lets parameter names choose between equally typed
	// arguments.
	NameHints bool
}

// Generator runs generation commands against one file at a time. A
// command that does not apply, or that the user cancels, returns a nil
// result and no error.
type Generator struct {
	dialog Dialog
	opts   Options
}

func NewGenerator(dialog Dialog, opts Options) *Generator {
	if opts.Indent == "" {
		opts.Indent = edit.DefaultIndent
	}
	if opts.ImplicitImports == nil {
		opts.ImplicitImports = DefaultImplicitImports
	}
	return &Generator{dialog: dialog, opts: opts}
}

// Run dispatches cmd.
func (g *Generator) Run(ctx context.Context, cmd Command, f *File, caret int) (*edit.Result, error) {
	switch cmd {
	case CommandFields:
		return g.GenerateFields(ctx, f, caret)
	case CommandMethod:
		return g.GenerateMethod(ctx, f, caret)
	case CommandImport:
		return g.GenerateImport(ctx, f, caret)
	case CommandMethodInvocations:
		return g.GenerateMethodInvocations(ctx, f, caret)
	case CommandGetterInvocations:
		return g.GenerateGetterInvocations(ctx, f, caret)
	case CommandSetterInvocations:
		return g.GenerateSetterInvocations(ctx, f, caret)
	}
	return nil, fmt.Errorf("unknown command %q", cmd)
}

// skip turns the errors that mean "nothing to do" into a clean no-op.
func skip(cmd Command, f *File, err error) (*edit.Result, error) {
	if errors.Is(err, ErrCancelled) || errors.Is(err, ErrNoEnclosingScope) {
		log.Debugf("%s on %s: %s", cmd, f.Path, err)
		return nil, nil
	}
	log.Errorf("%s on %s: %s", cmd, f.Path, err)
	return nil, err
}

func (g *Generator) GenerateFields(ctx context.Context, f *File, caret int) (*edit.Result, error) {
	target, err := ResolveEnclosingScope(f.Root, caret, ScopeClass, ScopeInterface)
	if err != nil {
		return skip(CommandFields, f, err)
	}
	specs, err := g.dialog.Fields(ctx)
	if err != nil {
		return skip(CommandFields, f, err)
	}
	var fields []*parser.Node
	for _, spec := range specs {
		field, err := BuildField(spec)
		if err != nil {
			return skip(CommandFields, f, err)
		}
		fields = append(fields, field)
	}
	log.Infof("%s on %s at %d: %d fields into %s", CommandFields, f.Path, caret, len(fields), target.Kind)
	return g.insert(ctx, f, target, fields, nil)
}

func (g *Generator) GenerateMethod(ctx context.Context, f *File, caret int) (*edit.Result, error) {
	target, err := ResolveEnclosingScope(f.Root, caret, ScopeClass, ScopeInterface)
	if err != nil {
		return skip(CommandMethod, f, err)
	}
	spec, err := g.dialog.Method(ctx, target.Kind)
	if err != nil {
		return skip(CommandMethod, f, err)
	}
	method, err := BuildMethod(spec, MethodHasBody(spec, target.Kind))
	if err != nil {
		return skip(CommandMethod, f, err)
	}
	log.Infof("%s on %s at %d: %s into %s", CommandMethod, f.Path, caret, spec.Name, target.Kind)
	return g.insert(ctx, f, target, []*parser.Node{method}, nil)
}

// GenerateImport adds an import among the existing ones, next to the
// caret. Imports of implicit packages and imports already present are
// skipped.
func (g *Generator) GenerateImport(ctx context.Context, f *File, caret int) (*edit.Result, error) {
	if f.Root == nil || f.Root.Kind != parser.KindCompilationUnit {
		return skip(CommandImport, f, ErrNoEnclosingScope)
	}
	spec, err := g.dialog.Import(ctx)
	if err != nil {
		return skip(CommandImport, f, err)
	}
	if err := spec.Validate(); err != nil {
		return skip(CommandImport, f, err)
	}
	if !spec.Static && IsImplicitImport(spec.Normalized(), g.opts.ImplicitImports) {
		log.Debugf("%s on %s: %s is imported implicitly", CommandImport, f.Path, spec.Normalized())
		return nil, nil
	}
	if HasImport(f.Root, spec) {
		log.Debugf("%s on %s: %s is already imported", CommandImport, f.Path, spec.Normalized())
		return nil, nil
	}
	imp, err := BuildImport(spec)
	if err != nil {
		return skip(CommandImport, f, err)
	}
	imports := f.Root.ChildrenOfKind(parser.KindImportDecl)
	at := ComputeInsertionIndex(SiblingStarts(imports), caret)
	unit := f.Root.Clone()
	unit.InsertChild(importPosition(f.Root, imports, at), imp)
	return edit.Run(ctx, f.Document, func(wc *edit.WorkingCopy) error {
		wc.Indent = g.opts.Indent
		return wc.Rewrite(f.Root, unit)
	})
}

// importPosition maps the position among the imports to a child index of
// the compilation unit.
func importPosition(cu *parser.Node, imports []*parser.Node, at int) int {
	if len(imports) == 0 {
		if pkg := cu.FirstChildOfKind(parser.KindPackageDecl); pkg != nil {
			return childIndex(cu, pkg) + 1
		}
		return 0
	}
	if at < len(imports) {
		return childIndex(cu, imports[at])
	}
	return childIndex(cu, imports[len(imports)-1]) + 1
}

func childIndex(parent, child *parser.Node) int {
	for i, c := range parent.Children {
		if c == child {
			return i
		}
	}
	return len(parent.Children)
}

// GenerateMethodInvocations asks for a variable visible at caret and calls
// each of its public methods that is not a getter or setter.
func (g *Generator) GenerateMethodInvocations(ctx context.Context, f *File, caret int) (*edit.Result, error) {
	target, err := ResolveEnclosingScope(f.Root, caret, ScopeBlock)
	if err != nil {
		return skip(CommandMethodInvocations, f, err)
	}
	locals := LocalCandidates(f, caret)
	if len(locals) == 0 {
		log.Debugf("%s on %s: no variables at %d", CommandMethodInvocations, f.Path, caret)
		return nil, nil
	}
	sym, err := g.dialog.Member(ctx, locals)
	if err != nil {
		return skip(CommandMethodInvocations, f, err)
	}
	return g.invoke(ctx, CommandMethodInvocations, f, caret, target, sym, AccessibleMethodsOf(sym, f.Index))
}

// GenerateGetterInvocations calls the getters of the variable selected at
// selection and stores each result in a new local.
func (g *Generator) GenerateGetterInvocations(ctx context.Context, f *File, selection int) (*edit.Result, error) {
	return g.selected(ctx, CommandGetterInvocations, f, selection, Getters)
}

// GenerateSetterInvocations calls the setters of the variable selected at
// selection.
func (g *Generator) GenerateSetterInvocations(ctx context.Context, f *File, selection int) (*edit.Result, error) {
	return g.selected(ctx, CommandSetterInvocations, f, selection, Setters)
}

func (g *Generator) selected(ctx context.Context, cmd Command, f *File, selection int, methods func(java.Symbol, java.ClassIndex) []java.MethodModel) (*edit.Result, error) {
	sym, ok := SymbolAt(f, selection)
	if !ok {
		log.Debugf("%s on %s: no variable at %d", cmd, f.Path, selection)
		return nil, nil
	}
	target, err := ResolveEnclosingScope(f.Root, selection, ScopeBlock)
	if err != nil {
		return skip(cmd, f, err)
	}
	return g.invoke(ctx, cmd, f, selection, target, sym, methods(sym, f.Index))
}

func (g *Generator) invoke(ctx context.Context, cmd Command, f *File, caret int, target *InsertionTarget, sym java.Symbol, methods []java.MethodModel) (*edit.Result, error) {
	if len(methods) == 0 {
		log.Debugf("%s on %s: %s has no candidate methods", cmd, f.Path, sym.Name)
		return nil, nil
	}
	locals := LocalCandidates(f, caret)
	reserved := DeclaredNames(target.Container)
	for _, l := range locals {
		if l.Kind != java.SymbolField {
			reserved = append(reserved, l.Name)
		}
	}
	imports := NewImportSet(f, g.opts.ImplicitImports)
	synth := &InvocationSynthesizer{
		Types:     java.NewTypeSystem(f.Index),
		Locals:    locals,
		Names:     NewNameRegistry(reserved...),
		Imports:   imports,
		NameHints: g.opts.NameHints,
		Resolve: func(typeText string) (java.TypeModel, bool) {
			return ResolveType(typeText, f, caret)
		},
	}
	var stmts []*parser.Node
	for _, m := range methods {
		var stmt *parser.Node
		var err error
		switch cmd {
		case CommandGetterInvocations:
			stmt, err = synth.GetterInvocation(sym, m)
		case CommandSetterInvocations:
			stmt = synth.SetterInvocation(sym, m)
		default:
			stmt, err = synth.Invocation(sym, m)
		}
		if err != nil {
			log.Debugf("%s on %s: skipping %s: %s", cmd, f.Path, m.Signature(), err)
			continue
		}
		stmts = append(stmts, stmt)
	}
	if len(stmts) == 0 {
		return nil, nil
	}
	var imps []*parser.Node
	for _, name := range imports.Added() {
		spec := ImportSpec{QualifiedName: name}
		if HasImport(f.Root, spec) {
			continue
		}
		imp, err := BuildImport(spec)
		if err != nil {
			log.Debugf("%s on %s: skipping import %s: %s", cmd, f.Path, name, err)
			continue
		}
		imps = append(imps, imp)
	}
	log.Infof("%s on %s at %d: %d statements on %s, %d imports", cmd, f.Path, caret, len(stmts), sym.Name, len(imps))
	return g.insert(ctx, f, target, stmts, imps)
}

// insert places nodes into target at target.Index + row and appends
// imports after the existing ones, all in one transaction.
func (g *Generator) insert(ctx context.Context, f *File, target *InsertionTarget, nodes, imports []*parser.Node) (*edit.Result, error) {
	container := target.Container.Clone()
	for row, n := range nodes {
		container.InsertChild(target.Index+row, n)
	}
	return edit.Run(ctx, f.Document, func(wc *edit.WorkingCopy) error {
		wc.Indent = g.opts.Indent
		if err := wc.Rewrite(target.Container, container); err != nil {
			return err
		}
		if len(imports) == 0 {
			return nil
		}
		unit := f.Root.Clone()
		existing := f.Root.ChildrenOfKind(parser.KindImportDecl)
		at := importPosition(f.Root, existing, len(existing))
		for row, imp := range imports {
			unit.InsertChild(at+row, imp)
		}
		return wc.Rewrite(f.Root, unit)
	})
}
