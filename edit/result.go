package edit

import (
	"github.com/google/uuid"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/dhamidi/jgen/java/parser"
)

// Result is a committed transaction.
type Result struct {
	ID     uuid.UUID
	Path   string
	Before []byte
	After  []byte
	// Edits are relative to Before, sorted by offset.
	Edits []Edit
	// Root is the tree parsed from After.
	Root *parser.Node
}

// Document returns the document after the transaction.
func (r *Result) Document() Document {
	return Document{Path: r.Path, Source: r.After, Root: r.Root}
}

// Diff renders the change as a unified diff.
func (r *Result) Diff() (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(r.Before)),
		B:        difflib.SplitLines(string(r.After)),
		FromFile: "a/" + r.Path,
		ToFile:   "b/" + r.Path,
		Context:  3,
	})
}
