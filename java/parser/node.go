package parser

import (
	"fmt"
	"strings"
)

type NodeKind int

// Kinds are grouped the way they appear in a file. The order must match
// nodeKindNames.
const (
	KindError NodeKind = iota

	// Files
	KindCompilationUnit
	KindPackageDecl
	KindImportDecl
	KindModuleImportDecl

	// Type and module declarations
	KindClassDecl
	KindInterfaceDecl
	KindEnumDecl
	KindRecordDecl
	KindAnnotationDecl
	KindModuleDecl
	KindRequiresDirective
	KindExportsDirective
	KindOpensDirective
	KindUsesDirective
	KindProvidesDirective

	// Members
	KindFieldDecl
	KindMethodDecl
	KindConstructorDecl
	KindReceiverParameter
	KindExplicitConstructorInvocation

	// Types
	KindModifiers
	KindTypeParameters
	KindTypeParameter
	KindTypeArguments
	KindType
	KindArrayType
	KindWildcard
	KindAnnotation
	KindAnnotationElement
	KindExtendsClause
	KindImplementsClause
	KindPermitsClause
	KindParameters
	KindParameter
	KindThrowsList

	// Statements
	KindBlock
	KindEmptyStmt
	KindExprStmt
	KindIfStmt
	KindForStmt
	KindForInit
	KindForUpdate
	KindEnhancedForStmt
	KindWhileStmt
	KindDoStmt
	KindSwitchStmt
	KindSwitchCase
	KindSwitchLabel
	KindTypePattern
	KindRecordPattern
	KindMatchAllPattern
	KindUnnamedVariable
	KindGuard
	KindReturnStmt
	KindBreakStmt
	KindContinueStmt
	KindThrowStmt
	KindTryStmt
	KindCatchClause
	KindFinallyClause
	KindSynchronizedStmt
	KindAssertStmt
	KindLabeledStmt
	KindLocalVarDecl
	KindLocalClassDecl
	KindYieldStmt

	// Expressions
	KindAssignExpr
	KindTernaryExpr
	KindBinaryExpr
	KindUnaryExpr
	KindPostfixExpr
	KindCastExpr
	KindInstanceofExpr
	KindCallExpr
	KindMethodRef
	KindFieldAccess
	KindArrayAccess
	KindNewExpr
	KindNewArrayExpr
	KindArrayInit
	KindLambdaExpr
	KindParenExpr
	KindLiteral
	KindIdentifier
	KindQualifiedName
	KindThis
	KindSuper
	KindClassLiteral
	KindSwitchExpr
	KindTemplateExpr
)

var nodeKindNames = strings.Fields(`
Error
CompilationUnit PackageDecl ImportDecl ModuleImportDecl
ClassDecl InterfaceDecl EnumDecl RecordDecl AnnotationDecl ModuleDecl
RequiresDirective ExportsDirective OpensDirective UsesDirective
ProvidesDirective
FieldDecl MethodDecl ConstructorDecl ReceiverParameter
ExplicitConstructorInvocation
Modifiers TypeParameters TypeParameter TypeArguments Type ArrayType
Wildcard Annotation AnnotationElement ExtendsClause ImplementsClause
PermitsClause Parameters Parameter ThrowsList
Block EmptyStmt ExprStmt IfStmt ForStmt ForInit ForUpdate
EnhancedForStmt WhileStmt DoStmt SwitchStmt SwitchCase SwitchLabel
TypePattern RecordPattern MatchAllPattern UnnamedVariable Guard
ReturnStmt BreakStmt ContinueStmt ThrowStmt TryStmt CatchClause
FinallyClause SynchronizedStmt AssertStmt LabeledStmt LocalVarDecl
LocalClassDecl YieldStmt
AssignExpr TernaryExpr BinaryExpr UnaryExpr PostfixExpr CastExpr
InstanceofExpr CallExpr MethodRef FieldAccess ArrayAccess NewExpr
NewArrayExpr ArrayInit LambdaExpr ParenExpr Literal Identifier
QualifiedName This Super ClassLiteral SwitchExpr TemplateExpr
`)

func (k NodeKind) String() string {
	if k >= 0 && int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "Unknown"
}

// Error describes why a KindError node was produced. Got is the token the
// parser stopped at.
type Error struct {
	Message string
	Got     *Token
}

type Node struct {
	Kind          NodeKind
	Span          Span
	Children      []*Node
	Token         *Token
	Error         *Error
	isArrowCase   bool
	isInitializer bool
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

// InsertChild inserts child so that it ends up at index i.
// Indexes past the end append.
func (n *Node) InsertChild(i int, child *Node) {
	if child == nil {
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= len(n.Children) {
		n.Children = append(n.Children, child)
		return
	}
	n.Children = append(n.Children, nil)
	copy(n.Children[i+1:], n.Children[i:])
	n.Children[i] = child
}

// Clone returns a copy of n that shares its children but owns its
// Children slice, so children can be inserted without touching n.
func (n *Node) Clone() *Node {
	c := *n
	c.Children = append([]*Node(nil), n.Children...)
	return &c
}

// IsInitializer reports whether n is the initializer expression of a
// variable declarator, as in the "b" of "int a = b;".
func (n *Node) IsInitializer() bool {
	return n.isInitializer
}

// MarkInitializer flags n as a declarator initializer. Used when building
// declarations by hand.
func (n *Node) MarkInitializer() *Node {
	n.isInitializer = true
	return n
}

// Name returns the literal of the first identifier child, which for
// declarations is the declared name.
func (n *Node) Name() string {
	if id := n.FirstChildOfKind(KindIdentifier); id != nil {
		return id.TokenLiteral()
	}
	return ""
}

// IsSynthesized reports whether n was built in memory rather than parsed.
func (n *Node) IsSynthesized() bool {
	return n.Span == Span{}
}

// Contains reports whether offset lies within n's source range.
func (n *Node) Contains(offset int) bool {
	if n.IsSynthesized() {
		return false
	}
	return n.Span.Start.Offset <= offset && offset < n.Span.End.Offset
}

// Walk calls fn for n and its descendants in source order. Returning false
// from fn skips the children of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// HasErrors reports whether n or any descendant is an error node.
func (n *Node) HasErrors() bool {
	found := false
	n.Walk(func(c *Node) bool {
		if c.IsError() {
			found = true
		}
		return !found
	})
	return found
}

// ClearSpans resets all positions below n, turning a parsed snippet into a
// synthesized subtree.
func (n *Node) ClearSpans() *Node {
	n.Walk(func(c *Node) bool {
		c.Span = Span{}
		if c.Token != nil {
			tok := *c.Token
			tok.Span = Span{}
			c.Token = &tok
		}
		return true
	})
	return n
}

func (n *Node) TokenLiteral() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

func (n *Node) String() string {
	var b strings.Builder
	n.dump(&b, 0, false)
	return b.String()
}

// StringWithPositions is String with a [start-end] range after each kind.
func (n *Node) StringWithPositions() string {
	var b strings.Builder
	n.dump(&b, 0, true)
	return b.String()
}

func (n *Node) dump(b *strings.Builder, depth int, positions bool) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.Kind.String())
	if positions {
		fmt.Fprintf(b, " [%s-%s]", n.Span.Start, n.Span.End)
	}
	if n.Token != nil {
		b.WriteString(" " + n.Token.Literal)
	}
	if n.Error != nil {
		b.WriteString(" ERROR: " + n.Error.Message)
	}
	b.WriteByte('\n')
	for _, child := range n.Children {
		child.dump(b, depth+1, positions)
	}
}
