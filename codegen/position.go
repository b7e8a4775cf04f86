package codegen

import (
	"fmt"

	"github.com/dhamidi/jgen/java/parser"
)

type ScopeKind int

const (
	ScopeClass ScopeKind = iota + 1
	ScopeInterface
	ScopeBlock
	// ScopeCompilationUnit is the target of imports.
	ScopeCompilationUnit
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeClass:
		return "class"
	case ScopeInterface:
		return "interface"
	case ScopeBlock:
		return "block"
	case ScopeCompilationUnit:
		return "compilation unit"
	}
	return fmt.Sprintf("ScopeKind(%d)", int(k))
}

// InsertionTarget is where generated nodes go. Container is the node whose
// children are the siblings of the new nodes and Index the position of the
// first new node among them.
type InsertionTarget struct {
	Scope     *parser.Node
	Kind      ScopeKind
	Container *parser.Node
	Index     int
}

// ResolveEnclosingScope finds the innermost scope around caret whose kind
// is one of allowed and computes the insertion index inside it.
func ResolveEnclosingScope(root *parser.Node, caret int, allowed ...ScopeKind) (*InsertionTarget, error) {
	if root == nil {
		return nil, ErrNoEnclosingScope
	}
	path := parser.PathAt(root, caret)
	for i := len(path) - 1; i >= 0; i-- {
		kind, container := scopeAt(path, i)
		if kind == 0 || !kindIn(kind, allowed) {
			continue
		}
		return &InsertionTarget{
			Scope:     path[i],
			Kind:      kind,
			Container: container,
			Index:     ComputeInsertionIndex(SiblingStarts(container.Children), caret),
		}, nil
	}
	return nil, ErrNoEnclosingScope
}

// scopeAt classifies path[i]. Class scopes include anonymous class
// bodies; enums, records and annotation types are not member scopes.
func scopeAt(path parser.Path, i int) (ScopeKind, *parser.Node) {
	node := path[i]
	switch node.Kind {
	case parser.KindCompilationUnit:
		return ScopeCompilationUnit, node
	case parser.KindClassDecl:
		if body := node.FirstChildOfKind(parser.KindBlock); body != nil {
			return ScopeClass, body
		}
	case parser.KindInterfaceDecl:
		if body := node.FirstChildOfKind(parser.KindBlock); body != nil {
			return ScopeInterface, body
		}
	case parser.KindNewExpr:
		if body := node.FirstChildOfKind(parser.KindBlock); body != nil && !body.IsSynthesized() {
			return ScopeClass, body
		}
	case parser.KindBlock:
		if path.IsStatementBlock(i) {
			return ScopeBlock, node
		}
	}
	return 0, nil
}

func kindIn(kind ScopeKind, kinds []ScopeKind) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Command names a generation command.
type Command string

const (
	CommandFields            Command = "fields"
	CommandMethod            Command = "method"
	CommandImport            Command = "import"
	CommandMethodInvocations Command = "invoke"
	CommandGetterInvocations Command = "getters"
	CommandSetterInvocations Command = "setters"
)

// Commands lists every command in menu order.
var Commands = []Command{
	CommandFields, CommandMethod, CommandImport,
	CommandMethodInvocations, CommandGetterInvocations, CommandSetterInvocations,
}

// IsCommandApplicable reports whether cmd makes sense at caret. Member
// commands need a class or interface body that is not inside a statement
// block; invocation commands need a statement block.
func IsCommandApplicable(root *parser.Node, caret int, cmd Command) bool {
	if root == nil || root.Kind != parser.KindCompilationUnit {
		return false
	}
	if cmd == CommandImport {
		return true
	}
	path := parser.PathAt(root, caret)
	member, block := -1, -1
	for i := len(path) - 1; i >= 0; i-- {
		kind, _ := scopeAt(path, i)
		switch kind {
		case ScopeClass, ScopeInterface:
			if member < 0 {
				member = i
			}
		case ScopeBlock:
			if block < 0 {
				block = i
			}
		}
	}
	switch cmd {
	case CommandFields, CommandMethod:
		// a local class inside a method body is a member scope again
		return member >= 0 && (block < 0 || block < member)
	case CommandMethodInvocations, CommandGetterInvocations, CommandSetterInvocations:
		return block >= 0 && block > member
	}
	return false
}
