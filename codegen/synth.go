package codegen

import (
	"strings"

	"github.com/dhamidi/jgen/java/parser"
)

// MethodHasBody reports whether a method generated into a scope of the
// given kind gets an empty body. Interface methods, abstract methods and
// native methods end with a semicolon.
func MethodHasBody(spec MethodSpec, kind ScopeKind) bool {
	return kind == ScopeClass && !spec.Abstract && !spec.Native
}

// BuildField synthesizes a field declaration.
func BuildField(spec FieldSpec) (*parser.Node, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	typ, err := parseTypeText(spec.Type)
	if err != nil {
		return nil, err
	}
	field := &parser.Node{Kind: parser.KindFieldDecl}
	field.AddChild(modifiers(spec.Access, map[string]bool{
		"static":    spec.Static,
		"final":     spec.Final,
		"transient": spec.Transient,
		"volatile":  spec.Volatile,
	}))
	field.AddChild(typ)
	field.AddChild(identifierNode(spec.Name))
	if strings.TrimSpace(spec.Value) != "" {
		value, err := parseExpressionText(spec.Value)
		if err != nil {
			return nil, err
		}
		field.AddChild(value.MarkInitializer())
	}
	return field, nil
}

// BuildMethod synthesizes a method declaration, with an empty body when
// hasBody is set.
func BuildMethod(spec MethodSpec, hasBody bool) (*parser.Node, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	method := &parser.Node{Kind: parser.KindMethodDecl}
	method.AddChild(modifiers(spec.Access, map[string]bool{
		"static":       spec.Static,
		"abstract":     spec.Abstract,
		"final":        spec.Final,
		"synchronized": spec.Synchronized,
		"native":       spec.Native,
		"strictfp":     spec.Strictfp,
	}))

	if len(spec.TypeParameters) > 0 {
		tps := &parser.Node{Kind: parser.KindTypeParameters}
		for _, tp := range spec.TypeParameters {
			node := &parser.Node{Kind: parser.KindTypeParameter}
			node.AddChild(identifierNode(tp.Name))
			for _, bound := range splitBounds(tp.Bound) {
				b, err := parseTypeText(bound)
				if err != nil {
					return nil, err
				}
				node.AddChild(b)
			}
			tps.AddChild(node)
		}
		method.AddChild(tps)
	}

	ret, err := parseTypeText(spec.ReturnType)
	if err != nil {
		return nil, err
	}
	method.AddChild(ret)
	method.AddChild(identifierNode(spec.Name))

	params := &parser.Node{Kind: parser.KindParameters}
	for _, p := range spec.Parameters {
		typ, err := parseTypeText(p.Type)
		if err != nil {
			return nil, err
		}
		param := &parser.Node{Kind: parser.KindParameter}
		param.AddChild(modifiers(AccessDefault, map[string]bool{"final": p.Final}))
		param.AddChild(typ)
		param.AddChild(identifierNode(p.Name))
		params.AddChild(param)
	}
	method.AddChild(params)

	if len(spec.Throws) > 0 {
		throws := &parser.Node{Kind: parser.KindThrowsList}
		for _, t := range spec.Throws {
			typ, err := parseTypeText(t)
			if err != nil {
				return nil, err
			}
			throws.AddChild(typ)
		}
		method.AddChild(throws)
	}

	if hasBody {
		method.AddChild(&parser.Node{Kind: parser.KindBlock})
	}
	return method, nil
}

// BuildImport synthesizes a single-type or on-demand import.
func BuildImport(spec ImportSpec) (*parser.Node, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	name := spec.Normalized()
	imp := &parser.Node{Kind: parser.KindImportDecl}
	if spec.Static {
		imp.AddChild(identifierNode("static"))
	}
	wildcard := strings.HasSuffix(name, ".*")
	imp.AddChild(qualifiedNameNode(strings.TrimSuffix(name, ".*")))
	if wildcard {
		imp.AddChild(&parser.Node{Kind: parser.KindIdentifier, Token: &parser.Token{Kind: parser.TokenStar, Literal: "*"}})
	}
	return imp, nil
}

// modifierOrder is the order in which keywords are written.
var modifierOrder = []string{"static", "abstract", "final", "synchronized", "transient", "native", "volatile", "strictfp"}

func modifiers(access Access, set map[string]bool) *parser.Node {
	mods := &parser.Node{Kind: parser.KindModifiers}
	if access != AccessDefault {
		mods.AddChild(identifierNode(string(access)))
	}
	for _, m := range modifierOrder {
		if set[m] {
			mods.AddChild(identifierNode(m))
		}
	}
	return mods
}

func identifierNode(name string) *parser.Node {
	return &parser.Node{
		Kind:  parser.KindIdentifier,
		Token: &parser.Token{Kind: parser.LookupKeyword(name, false), Literal: name},
	}
}

func qualifiedNameNode(name string) *parser.Node {
	qn := &parser.Node{Kind: parser.KindQualifiedName}
	for _, part := range strings.Split(name, ".") {
		qn.AddChild(identifierNode(part))
	}
	return qn
}

func parseTypeText(text string) (*parser.Node, error) {
	node := parser.ParseType(strings.NewReader(strings.TrimSpace(text))).Finish()
	if node == nil || node.HasErrors() {
		return nil, invalid("type %q does not parse", text)
	}
	return node.ClearSpans(), nil
}

func parseExpressionText(text string) (*parser.Node, error) {
	node := parser.ParseExpression(strings.NewReader(strings.TrimSpace(text))).Finish()
	if node == nil || node.HasErrors() {
		return nil, invalid("expression %q does not parse", text)
	}
	return node.ClearSpans(), nil
}
