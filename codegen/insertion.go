package codegen

import (
	"sort"

	"github.com/dhamidi/jgen/java/parser"
)

// ComputeInsertionIndex returns where a new sibling goes for a caret at
// the given offset: after every sibling that starts at or before the
// caret. starts must be ascending.
func ComputeInsertionIndex(starts []int, caret int) int {
	return sort.SearchInts(starts, caret+1)
}

// SiblingStarts returns the start offsets of nodes. Synthesized nodes
// have no position and take the start of the sibling before them.
func SiblingStarts(nodes []*parser.Node) []int {
	starts := make([]int, len(nodes))
	prev := -1
	for i, n := range nodes {
		if !n.IsSynthesized() {
			prev = n.Span.Start.Offset
		}
		starts[i] = prev
	}
	return starts
}
