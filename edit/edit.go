// Package edit applies tree rewrites to Java source text as one
// transaction: either every change lands and the result still parses, or
// the document is left untouched.
package edit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/jgen/java/parser"
)

var log = commonlog.GetLogger("jgen.edit")

var ErrTransaction = errors.New("edit transaction failed")

const DefaultIndent = "    "

// Document is one source file and its syntax tree.
type Document struct {
	Path   string
	Source []byte
	Root   *parser.Node
}

// ParseDocument parses source into a Document. A syntax error does not
// fail the parse; error nodes stay in the tree.
func ParseDocument(path string, source []byte) (Document, error) {
	root := parser.ParseCompilationUnit(bytes.NewReader(source), parser.WithFile(path)).Finish()
	if root == nil {
		return Document{}, fmt.Errorf("parse %s: incomplete compilation unit", path)
	}
	return Document{Path: path, Source: source, Root: root}, nil
}

// Edit replaces Length bytes at Offset with Text.
type Edit struct {
	Offset int
	Length int
	Text   string
}

// WorkingCopy collects the rewrites of one transaction.
type WorkingCopy struct {
	Root   *parser.Node
	Source []byte
	// Indent is one level of indentation for rendered nodes,
	// DefaultIndent unless the mutator changes it.
	Indent string

	rewrites []rewrite
}

type rewrite struct {
	old, updated *parser.Node
}

// Rewrite replaces the parsed node old by updated. Children that updated
// shares with old stay as they are in the source; children only in
// updated are rendered and inserted, children only in old are removed.
func (wc *WorkingCopy) Rewrite(old, updated *parser.Node) error {
	if old == nil || updated == nil || old.IsSynthesized() {
		return fmt.Errorf("%w: rewrite needs a parsed node", ErrTransaction)
	}
	for i, rw := range wc.rewrites {
		if rw.old == old {
			wc.rewrites[i].updated = updated
			return nil
		}
	}
	wc.rewrites = append(wc.rewrites, rewrite{old: old, updated: updated})
	return nil
}

// Edits turns the recorded rewrites into text edits, ordered by offset.
func (wc *WorkingCopy) Edits() ([]Edit, error) {
	var edits []Edit
	for _, rw := range wc.rewrites {
		e, err := wc.editsFor(rw.old, rw.updated)
		if err != nil {
			return nil, err
		}
		edits = append(edits, e...)
	}
	sort.SliceStable(edits, func(i, j int) bool { return edits[i].Offset < edits[j].Offset })
	for i := 1; i < len(edits); i++ {
		if prev := edits[i-1]; prev.Offset+prev.Length > edits[i].Offset {
			return nil, fmt.Errorf("%w: overlapping edits at offset %d", ErrTransaction, edits[i].Offset)
		}
	}
	return edits, nil
}

// Apply returns source with edits applied. Edits must be sorted and must
// not overlap.
func Apply(source []byte, edits []Edit) []byte {
	var out bytes.Buffer
	pos := 0
	for _, e := range edits {
		out.Write(source[pos:e.Offset])
		out.WriteString(e.Text)
		pos = e.Offset + e.Length
	}
	out.Write(source[pos:])
	return out.Bytes()
}

// Commit applies the rewrites and reparses the result. The transaction
// fails when the new text does not parse or has more syntax errors than
// before.
func (wc *WorkingCopy) Commit(path string) (*Result, error) {
	edits, err := wc.Edits()
	if err != nil {
		return nil, err
	}
	after := Apply(wc.Source, edits)
	root := parser.ParseCompilationUnit(bytes.NewReader(after), parser.WithFile(path)).Finish()
	if root == nil {
		return nil, fmt.Errorf("%w: result does not parse", ErrTransaction)
	}
	if before, now := countErrors(wc.Root), countErrors(root); now > before {
		return nil, fmt.Errorf("%w: result has %d syntax errors, had %d", ErrTransaction, now, before)
	}
	return &Result{
		Path:   path,
		Before: wc.Source,
		After:  after,
		Edits:  edits,
		Root:   root,
	}, nil
}

func countErrors(root *parser.Node) int {
	n := 0
	root.Walk(func(c *parser.Node) bool {
		if c.IsError() {
			n++
		}
		return true
	})
	return n
}

// Run gives mutate a working copy of doc and commits what it rewrote. A
// mutate error aborts the transaction. A transaction without rewrites
// returns a nil result.
func Run(ctx context.Context, doc Document, mutate func(*WorkingCopy) error) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := uuid.New()
	wc := &WorkingCopy{Root: doc.Root, Source: doc.Source, Indent: DefaultIndent}
	if err := mutate(wc); err != nil {
		log.Debugf("transaction %s on %s aborted: %s", id, doc.Path, err)
		return nil, err
	}
	if len(wc.rewrites) == 0 {
		log.Debugf("transaction %s on %s changed nothing", id, doc.Path)
		return nil, nil
	}
	result, err := wc.Commit(doc.Path)
	if err != nil {
		log.Errorf("transaction %s on %s: %s", id, doc.Path, err)
		return nil, err
	}
	result.ID = id
	log.Infof("transaction %s on %s: %d edits", id, doc.Path, len(result.Edits))
	return result, nil
}
