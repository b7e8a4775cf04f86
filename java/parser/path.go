package parser

// Path is the chain of nodes from a root down to some descendant.
// Path[0] is the root and Path[len-1] the leaf.
type Path []*Node

// PathAt returns the path from root to the innermost node whose source
// range contains offset. The root is always part of the path, even when
// offset is outside of it.
func PathAt(root *Node, offset int) Path {
	if root == nil {
		return nil
	}
	path := Path{root}
	node := root
	for {
		next := childAt(node, offset)
		if next == nil {
			return path
		}
		path = append(path, next)
		node = next
	}
}

func childAt(n *Node, offset int) *Node {
	var found *Node
	for _, child := range n.Children {
		if child.Contains(offset) {
			found = child
		}
	}
	return found
}

// PathTo returns the path from root to target, or nil if target is not
// part of the tree.
func PathTo(root, target *Node) Path {
	if root == nil {
		return nil
	}
	if root == target {
		return Path{root}
	}
	for _, child := range root.Children {
		if sub := PathTo(child, target); sub != nil {
			return append(Path{root}, sub...)
		}
	}
	return nil
}

// Leaf returns the innermost node of the path.
func (p Path) Leaf() *Node {
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1]
}

// Parent returns the parent of the node at index i.
func (p Path) Parent(i int) *Node {
	if i <= 0 || i >= len(p) {
		return nil
	}
	return p[i-1]
}

// Nearest scans the path upwards and returns the index of the innermost
// node accepted by match, or -1.
func (p Path) Nearest(match func(p Path, i int) bool) int {
	for i := len(p) - 1; i >= 0; i-- {
		if match(p, i) {
			return i
		}
	}
	return -1
}

// NearestKind returns the innermost node of one of the given kinds.
func (p Path) NearestKind(kinds ...NodeKind) *Node {
	i := p.Nearest(func(p Path, i int) bool {
		for _, k := range kinds {
			if p[i].Kind == k {
				return true
			}
		}
		return false
	})
	if i < 0 {
		return nil
	}
	return p[i]
}

// IsTypeDecl reports whether kind declares a class-like type.
func IsTypeDecl(kind NodeKind) bool {
	switch kind {
	case KindClassDecl, KindInterfaceDecl, KindEnumDecl, KindRecordDecl, KindAnnotationDecl:
		return true
	}
	return false
}

// IsTypeBody reports whether the KindBlock at index i of the path is the
// body of a type declaration or anonymous class rather than a statement
// block.
func (p Path) IsTypeBody(i int) bool {
	if p[i].Kind != KindBlock {
		return false
	}
	parent := p.Parent(i)
	if parent == nil {
		return false
	}
	return IsTypeDecl(parent.Kind) || parent.Kind == KindNewExpr
}

// IsStatementBlock reports whether the node at index i is a block that
// holds statements: a method or constructor body, an initializer, a
// lambda body or a nested block.
func (p Path) IsStatementBlock(i int) bool {
	if p[i].Kind != KindBlock || p.IsTypeBody(i) {
		return false
	}
	// "static { ... }" is a wrapper block holding the static keyword and the
	// real body.
	if id := p[i].FirstChildOfKind(KindIdentifier); id != nil && id.TokenLiteral() == "static" {
		return false
	}
	return true
}
