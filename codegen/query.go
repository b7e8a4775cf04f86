package codegen

import (
	"strings"

	"github.com/dhamidi/jgen/edit"
	"github.com/dhamidi/jgen/java"
	"github.com/dhamidi/jgen/java/parser"
)

// File is a parsed document together with the classes its names resolve
// against.
type File struct {
	edit.Document
	Index java.ClassIndex
}

// LocalCandidates returns the variables visible at caret, sorted by name.
func LocalCandidates(f *File, caret int) []java.Symbol {
	return java.VisibleSymbols(f.Root, caret, f.Index)
}

// SymbolAt returns the variable named at offset.
func SymbolAt(f *File, offset int) (java.Symbol, bool) {
	return java.SymbolAt(f.Root, offset, f.Index)
}

// DeclaredNames returns the names of the locals, parameters, loop and
// catch variables declared anywhere inside block, in source order. Nested
// type declarations are not entered.
func DeclaredNames(block *parser.Node) []string {
	var names []string
	block.Walk(func(n *parser.Node) bool {
		if n != block && parser.IsTypeDecl(n.Kind) {
			return false
		}
		switch n.Kind {
		case parser.KindLocalVarDecl:
			for _, c := range n.ChildrenOfKind(parser.KindIdentifier) {
				if !c.IsInitializer() {
					names = append(names, c.TokenLiteral())
				}
			}
		case parser.KindParameter:
			if ids := n.ChildrenOfKind(parser.KindIdentifier); len(ids) > 0 {
				names = append(names, ids[len(ids)-1].TokenLiteral())
			}
		case parser.KindLambdaExpr:
			if params := n.FirstChildOfKind(parser.KindParameters); params != nil {
				for _, c := range params.ChildrenOfKind(parser.KindIdentifier) {
					names = append(names, c.TokenLiteral())
				}
			}
		case parser.KindEnhancedForStmt, parser.KindCatchClause:
			if id := n.FirstChildOfKind(parser.KindIdentifier); id != nil {
				names = append(names, id.TokenLiteral())
			}
		}
		return true
	})
	return names
}

// resolverAt returns a resolver that knows the type variables declared by
// the methods and types around caret.
func resolverAt(f *File, caret int) *java.Resolver {
	r := java.NewResolver(f.Root, f.Index)
	for _, node := range parser.PathAt(f.Root, caret) {
		if tps := node.FirstChildOfKind(parser.KindTypeParameters); tps != nil {
			_, r = r.TypeParametersOf(tps)
		}
	}
	return r
}

// ResolveType resolves typeText as if it were written at caret. The text
// is first parsed as the type of a local in a block snippet and then, if
// that fails, as a bare type.
func ResolveType(typeText string, f *File, caret int) (java.TypeModel, bool) {
	r := resolverAt(f, caret)
	snippet := parser.ParseStatement(strings.NewReader("{" + typeText + " a;}")).Finish()
	if snippet != nil && !snippet.HasErrors() {
		if decl := snippet.FirstChildOfKind(parser.KindLocalVarDecl); decl != nil {
			if t := typeChild(decl); t != nil {
				return r.TypeOf(t), true
			}
		}
	}
	t := parser.ParseType(strings.NewReader(typeText)).Finish()
	if t == nil || t.HasErrors() {
		return java.TypeModel{}, false
	}
	return r.TypeOf(t), true
}

func typeChild(decl *parser.Node) *parser.Node {
	for _, c := range decl.Children {
		if c.Kind == parser.KindType || c.Kind == parser.KindArrayType {
			return c
		}
	}
	return nil
}

// AccessibleMethodsOf returns the public methods declared on the type of
// sym, excluding constructors and anything named like a getter or setter.
// Parameter and return types are specialized to the type arguments of
// sym's type. An unknown type has no methods.
func AccessibleMethodsOf(sym java.Symbol, index java.ClassIndex) []java.MethodModel {
	return methodsOf(sym, index, func(m java.MethodModel) bool {
		return !isGetterName(m.Name) && !isSetterName(m.Name)
	})
}

// Getters returns the public non-void methods of sym's type whose names
// start with "get" or "is".
func Getters(sym java.Symbol, index java.ClassIndex) []java.MethodModel {
	return methodsOf(sym, index, func(m java.MethodModel) bool {
		return isGetterName(m.Name) && !m.ReturnType.IsVoid()
	})
}

// Setters returns the public methods of sym's type whose names start with
// "set".
func Setters(sym java.Symbol, index java.ClassIndex) []java.MethodModel {
	return methodsOf(sym, index, func(m java.MethodModel) bool {
		return isSetterName(m.Name)
	})
}

// The prefix test is purely textual, so "getup" counts as a getter.
func isGetterName(name string) bool {
	return strings.HasPrefix(name, "get") || strings.HasPrefix(name, "is")
}

func isSetterName(name string) bool {
	return strings.HasPrefix(name, "set")
}

func methodsOf(sym java.Symbol, index java.ClassIndex, keep func(java.MethodModel) bool) []java.MethodModel {
	if index == nil || sym.Type.IsZero() || !sym.Type.IsReference() || sym.Type.IsArray() || sym.Type.IsTypeVariable {
		return nil
	}
	class := index.FindClass(sym.Type.Name)
	if class == nil {
		return nil
	}
	bindings := java.Bindings(class, sym.Type)
	var out []java.MethodModel
	for _, m := range class.Methods {
		if m.IsConstructor || m.Visibility != java.VisibilityPublic || !keep(m) {
			continue
		}
		params := append(append([]java.TypeParameterModel(nil), class.TypeParameters...), m.TypeParameters...)
		specialized := m
		specialized.ReturnType = java.Substitute(m.ReturnType, bindings, params)
		specialized.Parameters = make([]java.ParameterModel, len(m.Parameters))
		for i, p := range m.Parameters {
			p.Type = java.Substitute(p.Type, bindings, params)
			specialized.Parameters[i] = p
		}
		out = append(out, specialized)
	}
	return out
}
