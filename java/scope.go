package java

import (
	"sort"
	"strings"

	"github.com/dhamidi/jgen/java/parser"
)

type SymbolKind int

const (
	SymbolField SymbolKind = iota
	SymbolParameter
	SymbolLocal
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolField:
		return "field"
	case SymbolParameter:
		return "parameter"
	case SymbolLocal:
		return "local"
	}
	return "unknown"
}

// Symbol is a variable visible at some position of a file.
type Symbol struct {
	Name   string
	Type   TypeModel
	Kind   SymbolKind
	Static bool
	// Owner is the class declaring a field.
	Owner string
	// Decl is the declaring node, nil for inherited fields.
	Decl *parser.Node
}

// VisibleSymbols returns the variables that code placed at offset can refer
// to by simple name: fields of the enclosing types and of their known
// superclasses, parameters of enclosing methods and lambdas, and locals
// declared before offset. Inner declarations shadow outer ones. The result
// is sorted by name.
func VisibleSymbols(root *parser.Node, offset int, index ClassIndex) []Symbol {
	visible := scopeAt(root, offset, index)
	out := make([]Symbol, 0, len(visible))
	for _, s := range visible {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func scopeAt(root *parser.Node, offset int, index ClassIndex) map[string]Symbol {
	if root == nil {
		return nil
	}
	r := NewResolver(root, index)
	path := parser.PathAt(root, offset)
	visible := map[string]Symbol{}
	var classes []string
	var enclosing *parser.Node

	for i, node := range path {
		var next *parser.Node
		if i+1 < len(path) {
			next = path[i+1]
		}

		if tps := node.FirstChildOfKind(parser.KindTypeParameters); tps != nil {
			_, r = r.TypeParametersOf(tps)
		}

		switch {
		case parser.IsTypeDecl(node.Kind):
			name := node.Name()
			if len(classes) > 0 {
				name = classes[len(classes)-1] + "." + name
			} else if r.pkg != "" {
				name = r.pkg + "." + name
			}
			if enclosing != nil && isStaticMember(node, enclosing) {
				dropInstanceFields(visible)
			}
			enclosing = node
			classes = append(classes, name)
			addInheritedFields(visible, name, index)
			addTypeFields(visible, node, name, r)
		case node.Kind == parser.KindNewExpr && next != nil && next.Kind == parser.KindBlock:
			addAnonymousFields(visible, node, next, r, index)
		case node.Kind == parser.KindBlock && isStaticInitializer(node):
			dropInstanceFields(visible)
		case node.Kind == parser.KindMethodDecl || node.Kind == parser.KindConstructorDecl:
			if hasStaticModifier(node) {
				dropInstanceFields(visible)
			}
			if params := node.FirstChildOfKind(parser.KindParameters); params != nil && next != params {
				addParameters(visible, params, r)
			}
		case node.Kind == parser.KindLambdaExpr:
			if params := node.FirstChildOfKind(parser.KindParameters); params != nil && next != params {
				addParameters(visible, params, r)
			}
		case node.Kind == parser.KindEnhancedForStmt:
			addLoopVariable(visible, node, next, r)
		case node.Kind == parser.KindCatchClause:
			if next != nil && next.Kind == parser.KindBlock {
				addDeclarators(visible, node, SymbolLocal, r, index)
			}
		case node.Kind == parser.KindForStmt:
			if init := node.FirstChildOfKind(parser.KindForInit); init != nil && next != init {
				for _, decl := range init.ChildrenOfKind(parser.KindLocalVarDecl) {
					addDeclarators(visible, decl, SymbolLocal, r, index)
				}
			}
		}

		// Locals of a block, switch case or try resource list that end
		// before offset.
		if node.Kind == parser.KindTryStmt && (next == nil || next.Kind != parser.KindBlock) {
			continue
		}
		if !parser.IsTypeDecl(node.Kind) && !path.IsTypeBody(i) {
			for _, decl := range node.ChildrenOfKind(parser.KindLocalVarDecl) {
				if decl.Span.End.Offset <= offset {
					addDeclarators(visible, decl, SymbolLocal, r, index)
				}
			}
		}
	}
	return visible
}

// dropInstanceFields removes the instance fields of enclosing types from
// visible. Code in a static context cannot refer to them by simple name.
func dropInstanceFields(visible map[string]Symbol) {
	for name, s := range visible {
		if s.Kind == SymbolField && !s.Static {
			delete(visible, name)
		}
	}
}

func hasStaticModifier(decl *parser.Node) bool {
	mods := decl.FirstChildOfKind(parser.KindModifiers)
	if mods == nil {
		return false
	}
	for _, child := range mods.Children {
		if child.Kind == parser.KindIdentifier && child.TokenLiteral() == "static" {
			return true
		}
	}
	return false
}

func isStaticInitializer(block *parser.Node) bool {
	id := block.FirstChildOfKind(parser.KindIdentifier)
	return id != nil && id.TokenLiteral() == "static"
}

// isStaticMember reports whether a type nested in outer is implicitly or
// explicitly static. Enums, records, interfaces and annotations always
// are, as is every type declared in an interface.
func isStaticMember(decl, outer *parser.Node) bool {
	switch decl.Kind {
	case parser.KindEnumDecl, parser.KindRecordDecl, parser.KindInterfaceDecl, parser.KindAnnotationDecl:
		return true
	}
	switch outer.Kind {
	case parser.KindInterfaceDecl, parser.KindAnnotationDecl:
		return true
	}
	return hasStaticModifier(decl)
}

func addTypeFields(visible map[string]Symbol, decl *parser.Node, owner string, r *Resolver) {
	if decl.Kind == parser.KindRecordDecl {
		if params := decl.FirstChildOfKind(parser.KindParameters); params != nil {
			for _, p := range params.ChildrenOfKind(parser.KindParameter) {
				param := parameterFromNode(p, r)
				visible[param.Name] = Symbol{Name: param.Name, Type: param.Type, Kind: SymbolField, Owner: owner, Decl: p}
			}
		}
	}
	for _, member := range typeMembers(decl) {
		if member.Kind != parser.KindFieldDecl {
			continue
		}
		if member.FirstChildOfKind(parser.KindType) == nil && member.FirstChildOfKind(parser.KindArrayType) == nil {
			visible[member.Name()] = Symbol{Name: member.Name(), Type: TypeModel{Name: owner}, Kind: SymbolField, Static: true, Owner: owner, Decl: member}
			continue
		}
		for _, f := range fieldModelsFromFieldDecl(member, r) {
			isStatic := f.IsStatic || decl.Kind == parser.KindInterfaceDecl
			visible[f.Name] = Symbol{Name: f.Name, Type: f.Type, Kind: SymbolField, Static: isStatic, Owner: owner, Decl: member}
		}
	}
}

func addAnonymousFields(visible map[string]Symbol, expr, body *parser.Node, r *Resolver, index ClassIndex) {
	if qn := expr.FirstChildOfKind(parser.KindQualifiedName); qn != nil {
		addInheritedFields(visible, r.Resolve(qualifiedNameToString(qn)), index)
	}
	for _, member := range body.ChildrenOfKind(parser.KindFieldDecl) {
		for _, f := range fieldModelsFromFieldDecl(member, r) {
			visible[f.Name] = Symbol{Name: f.Name, Type: f.Type, Kind: SymbolField, Static: f.IsStatic, Decl: member}
		}
	}
}

// addInheritedFields adds the non-private fields of the known supertypes of
// class, farthest first so that nearer declarations win.
func addInheritedFields(visible map[string]Symbol, class string, index ClassIndex) {
	if index == nil {
		return
	}
	var chain []*ClassModel
	seen := map[string]bool{}
	for c := index.FindClass(class); c != nil && !seen[c.Name]; {
		seen[c.Name] = true
		if c.SuperClass == "" {
			break
		}
		c = index.FindClass(c.SuperClass)
		if c != nil {
			chain = append(chain, c)
		}
	}
	for i := len(chain) - 1; i >= 0; i-- {
		for _, f := range chain[i].Fields {
			if f.Visibility == VisibilityPrivate {
				continue
			}
			visible[f.Name] = Symbol{Name: f.Name, Type: f.Type, Kind: SymbolField, Static: f.IsStatic, Owner: chain[i].Name}
		}
	}
}

func addParameters(visible map[string]Symbol, params *parser.Node, r *Resolver) {
	for _, child := range params.Children {
		switch child.Kind {
		case parser.KindParameter:
			p := parameterFromNode(child, r)
			if p.Name != "" {
				visible[p.Name] = Symbol{Name: p.Name, Type: p.Type, Kind: SymbolParameter, Decl: child}
			}
		case parser.KindIdentifier:
			// untyped lambda parameter
			name := child.TokenLiteral()
			visible[name] = Symbol{Name: name, Kind: SymbolParameter, Decl: child}
		}
	}
}

func addLoopVariable(visible map[string]Symbol, loop, next *parser.Node, r *Resolver) {
	var typ, name *parser.Node
	for _, child := range loop.Children {
		switch {
		case typ == nil && (child.Kind == parser.KindType || child.Kind == parser.KindArrayType):
			typ = child
		case typ != nil && name == nil && child.Kind == parser.KindIdentifier:
			name = child
		}
	}
	if name == nil || len(loop.Children) == 0 || next != loop.Children[len(loop.Children)-1] {
		return
	}
	t := r.TypeOf(typ)
	if t.Name == "var" {
		t = TypeModel{}
	}
	visible[name.TokenLiteral()] = Symbol{Name: name.TokenLiteral(), Type: t, Kind: SymbolLocal, Decl: loop}
}

// addDeclarators adds every variable declared by a local variable
// declaration or catch clause.
func addDeclarators(visible map[string]Symbol, decl *parser.Node, kind SymbolKind, r *Resolver, index ClassIndex) {
	var declared TypeModel
	var isVar bool
	for _, child := range decl.Children {
		if child.Kind == parser.KindType || child.Kind == parser.KindArrayType {
			declared = r.TypeOf(child)
			isVar = declared.Name == "var"
			break
		}
	}
	children := decl.Children
	for i, child := range children {
		if child.Kind != parser.KindIdentifier || child.IsInitializer() || child.Token == nil {
			continue
		}
		t := declared
		if isVar {
			t = TypeModel{}
			if i+1 < len(children) && children[i+1].IsInitializer() {
				t = inferType(children[i+1], r, index, visible)
			}
		}
		visible[child.Token.Literal] = Symbol{Name: child.Token.Literal, Type: t, Kind: kind, Decl: decl}
	}
}

// inferType guesses the static type of an initializer expression for
// "var" declarations. Unknown shapes yield the zero type.
func inferType(expr *parser.Node, r *Resolver, index ClassIndex, known map[string]Symbol) TypeModel {
	switch expr.Kind {
	case parser.KindLiteral:
		return literalType(expr.Token)
	case parser.KindNewExpr:
		if qn := expr.FirstChildOfKind(parser.KindQualifiedName); qn != nil {
			typ := &parser.Node{Kind: parser.KindType, Children: []*parser.Node{qn}}
			typ.AddChild(expr.FirstChildOfKind(parser.KindTypeArguments))
			return r.TypeOf(typ)
		}
	case parser.KindNewArrayExpr:
		var elem TypeModel
		depth := 0
		for _, c := range expr.Children {
			switch c.Kind {
			case parser.KindQualifiedName:
				elem = TypeModel{Name: r.Resolve(qualifiedNameToString(c))}
			case parser.KindType:
				elem = r.TypeOf(c)
			case parser.KindArrayInit:
			case parser.KindAnnotation:
			default:
				depth++
			}
		}
		if depth == 0 {
			depth = 1
		}
		elem.ArrayDepth = depth
		return elem
	case parser.KindIdentifier:
		if s, ok := known[expr.TokenLiteral()]; ok {
			return s.Type
		}
	case parser.KindCallExpr:
		return callReturnType(expr, r, index, known)
	}
	return TypeModel{}
}

func literalType(tok *parser.Token) TypeModel {
	if tok == nil {
		return TypeModel{}
	}
	lit := strings.ToLower(tok.Literal)
	switch tok.Kind {
	case parser.TokenIntLiteral:
		if strings.HasSuffix(lit, "l") {
			return TypeModel{Name: "long"}
		}
		return TypeModel{Name: "int"}
	case parser.TokenFloatLiteral:
		if strings.HasSuffix(lit, "f") {
			return TypeModel{Name: "float"}
		}
		return TypeModel{Name: "double"}
	case parser.TokenCharLiteral:
		return TypeModel{Name: "char"}
	case parser.TokenStringLiteral, parser.TokenTextBlock:
		return TypeModel{Name: "java.lang.String"}
	case parser.TokenTrue, parser.TokenFalse:
		return TypeModel{Name: "boolean"}
	}
	return TypeModel{}
}

// callReturnType looks up the return type of "target.method(...)" where
// target is a known variable or a class name.
func callReturnType(call *parser.Node, r *Resolver, index ClassIndex, known map[string]Symbol) TypeModel {
	if index == nil || len(call.Children) == 0 {
		return TypeModel{}
	}
	access := call.Children[0]
	if access.Kind != parser.KindFieldAccess || len(access.Children) < 2 {
		return TypeModel{}
	}
	target, method := access.Children[0], access.Children[len(access.Children)-1]
	var owner TypeModel
	if s, ok := known[target.TokenLiteral()]; ok && target.Kind == parser.KindIdentifier {
		owner = s.Type
	} else if name := dottedName(target); name != "" {
		owner = TypeModel{Name: r.Resolve(name)}
	} else {
		return TypeModel{}
	}
	class := index.FindClass(owner.Name)
	if class == nil || owner.ArrayDepth > 0 {
		return TypeModel{}
	}
	m := class.Method(method.TokenLiteral())
	if m == nil {
		return TypeModel{}
	}
	params := append(append([]TypeParameterModel{}, m.TypeParameters...), class.TypeParameters...)
	return Substitute(m.ReturnType, Bindings(class, owner), params)
}

// dottedName renders "a.b.c" from an identifier, a qualified name or a
// chain of field accesses, and "" for anything else.
func dottedName(n *parser.Node) string {
	switch n.Kind {
	case parser.KindIdentifier:
		return n.TokenLiteral()
	case parser.KindQualifiedName:
		return qualifiedNameToString(n)
	case parser.KindFieldAccess:
		if len(n.Children) != 2 || n.Children[1].Kind != parser.KindIdentifier {
			return ""
		}
		if head := dottedName(n.Children[0]); head != "" {
			return head + "." + n.Children[1].TokenLiteral()
		}
	}
	return ""
}

// SymbolAt returns the variable named by the identifier at offset, either
// at its declaration or at a reference to it. Type names, method names and
// keywords are not symbols.
func SymbolAt(root *parser.Node, offset int, index ClassIndex) (Symbol, bool) {
	path := parser.PathAt(root, offset)
	leaf := path.Leaf()
	if leaf == nil || leaf.Kind != parser.KindIdentifier || leaf.Token == nil {
		return Symbol{}, false
	}
	name := leaf.Token.Literal
	if parser.IsKeyword(name) || leaf.Token.Kind == parser.TokenEllipsis {
		return Symbol{}, false
	}
	parent := path.Parent(len(path) - 1)
	if parent == nil {
		return Symbol{}, false
	}
	switch parent.Kind {
	case parser.KindType, parser.KindQualifiedName, parser.KindTypeParameter,
		parser.KindMethodDecl, parser.KindConstructorDecl, parser.KindAnnotation,
		parser.KindImportDecl, parser.KindPackageDecl:
		return Symbol{}, false
	case parser.KindFieldAccess:
		// only the receiver of "a.b" can be a plain variable
		if len(parent.Children) == 0 || parent.Children[0] != leaf {
			return Symbol{}, false
		}
	}
	if parser.IsTypeDecl(parent.Kind) {
		return Symbol{}, false
	}

	scope := scopeAt(root, offset, index)
	if !leaf.IsInitializer() {
		// a declaration is not in scope at its own name
		r := NewResolver(root, index)
		switch parent.Kind {
		case parser.KindLocalVarDecl, parser.KindCatchClause:
			addDeclarators(scope, parent, SymbolLocal, r, index)
		case parser.KindEnhancedForStmt:
			if n := len(parent.Children); n > 0 {
				addLoopVariable(scope, parent, parent.Children[n-1], r)
			}
		case parser.KindParameter:
			p := parameterFromNode(parent, r)
			scope[p.Name] = Symbol{Name: p.Name, Type: p.Type, Kind: SymbolParameter, Decl: parent}
		case parser.KindParameters:
			scope[name] = Symbol{Name: name, Kind: SymbolParameter, Decl: leaf}
		}
	}
	s, ok := scope[name]
	return s, ok
}
