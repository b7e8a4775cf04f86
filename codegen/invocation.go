package codegen

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"github.com/dhamidi/jgen/java"
	"github.com/dhamidi/jgen/java/parser"
)

// InvocationSynthesizer builds statements that call methods on a chosen
// variable. Arguments are picked from Locals; declared variable names go
// through Names and type names through Imports.
type InvocationSynthesizer struct {
	Types   *java.TypeSystem
	Locals  []java.Symbol
	Names   *NameRegistry
	Imports *ImportSet
	// NameHints makes parameter names break ties between equally good
	// argument candidates.
	NameHints bool
	// Resolve qualifies parameter type text as written at the insertion
	// point. Parameter types the class index left as simple names go
	// through it before locals are matched.
	Resolve func(typeText string) (java.TypeModel, bool)
}

// Invocation calls m on receiver. A void method becomes an expression
// statement; any other result is stored in a new local named after the
// method.
func (s *InvocationSynthesizer) Invocation(receiver java.Symbol, m java.MethodModel) (*parser.Node, error) {
	call := s.call(receiver, m)
	if m.ReturnType.IsVoid() || m.ReturnType.IsZero() {
		return expressionStatement(call), nil
	}
	return s.declare(m.ReturnType, s.Names.Next(m.Name), call)
}

// GetterInvocation stores the result of getter m in a local named after
// its property.
func (s *InvocationSynthesizer) GetterInvocation(receiver java.Symbol, m java.MethodModel) (*parser.Node, error) {
	return s.declare(m.ReturnType, s.Names.Next(PropertyName(m.Name)), s.call(receiver, m))
}

// SetterInvocation calls setter m as a statement, whatever it returns.
func (s *InvocationSynthesizer) SetterInvocation(receiver java.Symbol, m java.MethodModel) *parser.Node {
	return expressionStatement(s.call(receiver, m))
}

// Argument returns the expression passed for parameter p: the best
// matching local, or a default literal.
func (s *InvocationSynthesizer) Argument(p java.ParameterModel) *parser.Node {
	hint := ""
	if s.NameHints {
		hint = p.Name
	}
	t := s.parameterType(p.Type)
	if local, ok := ChooseLocal(s.Types, s.Locals, t, hint); ok {
		return identifierNode(local.Name)
	}
	return literalNode(DefaultValue(t))
}

// parameterType qualifies t when it is a simple class name, such as a
// parameter type of a class model built from source that could not be
// resolved where the class was declared.
func (s *InvocationSynthesizer) parameterType(t java.TypeModel) java.TypeModel {
	if s.Resolve == nil || t.IsPrimitive() || t.IsTypeVariable || t.IsZero() || strings.Contains(t.Name, ".") {
		return t
	}
	resolved, ok := s.Resolve(t.Format(func(q string) string { return q }))
	if !ok || resolved.IsZero() {
		return t
	}
	return resolved
}

func (s *InvocationSynthesizer) call(receiver java.Symbol, m java.MethodModel) *parser.Node {
	target := &parser.Node{Kind: parser.KindFieldAccess}
	target.AddChild(identifierNode(receiver.Name))
	target.AddChild(identifierNode(m.Name))
	args := &parser.Node{Kind: parser.KindParameters}
	for _, p := range m.Parameters {
		args.AddChild(s.Argument(p))
	}
	call := &parser.Node{Kind: parser.KindCallExpr}
	call.AddChild(target)
	call.AddChild(args)
	return call
}

func (s *InvocationSynthesizer) declare(t java.TypeModel, name string, init *parser.Node) (*parser.Node, error) {
	nameFn := func(q string) string { return q }
	if s.Imports != nil {
		nameFn = s.Imports.Name
	}
	typ, err := parseTypeText(t.Format(nameFn))
	if err != nil {
		return nil, err
	}
	decl := &parser.Node{Kind: parser.KindLocalVarDecl}
	decl.AddChild(&parser.Node{Kind: parser.KindModifiers})
	decl.AddChild(typ)
	decl.AddChild(identifierNode(name))
	decl.AddChild(init.MarkInitializer())
	return decl, nil
}

func expressionStatement(expr *parser.Node) *parser.Node {
	stmt := &parser.Node{Kind: parser.KindExprStmt}
	stmt.AddChild(expr)
	return stmt
}

func literalNode(text string) *parser.Node {
	kind := parser.TokenIntLiteral
	switch text {
	case "null":
		kind = parser.TokenNull
	case "false":
		kind = parser.TokenFalse
	case "0.0", "0.0F":
		kind = parser.TokenFloatLiteral
	case `'\0'`:
		kind = parser.TokenCharLiteral
	}
	return &parser.Node{Kind: parser.KindLiteral, Token: &parser.Token{Kind: kind, Literal: text}}
}

// DefaultValue is the literal passed when no local fits a parameter of
// type t.
func DefaultValue(t java.TypeModel) string {
	if !t.IsPrimitive() {
		return "null"
	}
	switch t.Name {
	case "boolean":
		return "false"
	case "long":
		return "0L"
	case "float":
		return "0.0F"
	case "double":
		return "0.0"
	case "char":
		return `'\0'`
	}
	return "0"
}

const (
	noMatch = iota
	assignableMatch
	boxingMatch
	exactMatch
)

func matchRank(ts *java.TypeSystem, from, to java.TypeModel) int {
	switch {
	case java.IsSameType(from, to):
		return exactMatch
	case java.IsBoxingOf(from, to) || java.IsBoxingOf(to, from):
		return boxingMatch
	case ts.IsAssignable(from, to):
		return assignableMatch
	}
	return noMatch
}

// ChooseLocal picks the local that fits a parameter of type to best:
// exact type first, then a boxing conversion, then plain assignability.
// Ties go to the name closest to hint, or to the earlier candidate.
func ChooseLocal(ts *java.TypeSystem, locals []java.Symbol, to java.TypeModel, hint string) (java.Symbol, bool) {
	if ts == nil {
		ts = java.NewTypeSystem(nil)
	}
	best, bestRank, bestDistance := -1, noMatch, 0
	for i, local := range locals {
		rank := matchRank(ts, local.Type, to)
		if rank == noMatch {
			continue
		}
		distance := 0
		if hint != "" {
			distance = levenshtein.ComputeDistance(local.Name, hint)
		}
		if best < 0 || rank > bestRank || (rank == bestRank && distance < bestDistance) {
			best, bestRank, bestDistance = i, rank, distance
		}
	}
	if best < 0 {
		return java.Symbol{}, false
	}
	return locals[best], true
}

// PropertyName derives a variable name from a getter: getBytes gives
// bytes, isEmpty gives empty and getURL stays URL. When the result is a
// keyword or empty the method name is used.
func PropertyName(method string) string {
	name := method
	switch {
	case strings.HasPrefix(method, "get"):
		name = method[3:]
	case strings.HasPrefix(method, "is"):
		name = method[2:]
	}
	if name == "" {
		return method
	}
	runes := []rune(name)
	if len(runes) < 2 || !unicode.IsUpper(runes[0]) || !unicode.IsUpper(runes[1]) {
		runes[0] = unicode.ToLower(runes[0])
	}
	name = string(runes)
	if !ValidIdentifier(name) {
		return method
	}
	return name
}
