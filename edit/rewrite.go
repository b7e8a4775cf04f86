package edit

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dhamidi/jgen/format"
	"github.com/dhamidi/jgen/java/parser"
)

func (wc *WorkingCopy) editsFor(old, updated *parser.Node) ([]Edit, error) {
	kept := make(map[*parser.Node]bool, len(updated.Children))
	for _, c := range updated.Children {
		kept[c] = true
	}
	position := make(map[*parser.Node]int, len(old.Children))
	for i, c := range old.Children {
		position[c] = i
	}
	last := -1
	for _, c := range updated.Children {
		if i, ok := position[c]; ok {
			if i < last {
				return nil, fmt.Errorf("%w: %s children were reordered", ErrTransaction, old.Kind)
			}
			last = i
		}
	}

	var edits []Edit
	for _, c := range old.Children {
		if !kept[c] {
			edits = append(edits, wc.deletion(c))
		}
	}

	var prev *parser.Node
	var run []*parser.Node
	flush := func(next *parser.Node) {
		if len(run) > 0 {
			edits = append(edits, wc.insertion(old, prev, next, run))
			run = nil
		}
	}
	for _, c := range updated.Children {
		if _, ok := position[c]; ok {
			flush(c)
			prev = c
			continue
		}
		run = append(run, c)
	}
	flush(nil)
	return edits, nil
}

// insertion renders nodes as new children of container, placed after prev
// or, without prev, at the start of the container.
func (wc *WorkingCopy) insertion(container, prev, next *parser.Node, nodes []*parser.Node) Edit {
	if container.Kind == parser.KindCompilationUnit {
		return wc.unitInsertion(prev, next, nodes)
	}
	indent := wc.childIndent(container, prev, next)
	printer := format.NewJavaPrinter(indent, wc.Indent)
	var sb strings.Builder
	for i, n := range nodes {
		sb.WriteString("\n")
		if separated(n) && (i > 0 || prev != nil) {
			sb.WriteString("\n")
		}
		sb.WriteString(indent)
		sb.WriteString(printer.Print(n))
	}
	if prev != nil {
		return Edit{Offset: lineTail(wc.Source, prev.Span.End.Offset), Text: sb.String()}
	}

	open := container.Span.Start.Offset
	if i := bytes.IndexByte(wc.Source[open:], '{'); i >= 0 {
		open += i
	}
	open++
	closing := container.Span.End.Offset - 1
	if next == nil && closing >= open && len(bytes.TrimSpace(wc.Source[open:closing])) == 0 {
		sb.WriteString("\n")
		sb.WriteString(lineIndent(wc.Source, container.Span.Start.Offset))
		return Edit{Offset: open, Length: closing - open, Text: sb.String()}
	}
	return Edit{Offset: open, Text: sb.String()}
}

// separated reports whether n is set off from its siblings by a blank
// line.
func separated(n *parser.Node) bool {
	switch n.Kind {
	case parser.KindMethodDecl, parser.KindConstructorDecl, parser.KindClassDecl, parser.KindInterfaceDecl:
		return true
	}
	return false
}

// unitInsertion places top level declarations, which start at column one
// and are grouped by kind.
func (wc *WorkingCopy) unitInsertion(prev, next *parser.Node, nodes []*parser.Node) Edit {
	printer := format.NewJavaPrinter("", wc.Indent)
	var sb strings.Builder
	if prev != nil {
		for i, n := range nodes {
			sb.WriteString("\n")
			if i == 0 && prev.Kind != n.Kind {
				sb.WriteString("\n")
			}
			sb.WriteString(printer.Print(n))
		}
		return Edit{Offset: lineTail(wc.Source, prev.Span.End.Offset), Text: sb.String()}
	}
	for _, n := range nodes {
		sb.WriteString(printer.Print(n))
		sb.WriteString("\n")
	}
	if next != nil && next.Kind != nodes[len(nodes)-1].Kind {
		sb.WriteString("\n")
	}
	return Edit{Offset: 0, Text: sb.String()}
}

// deletion removes n, together with its line when n is alone on it.
func (wc *WorkingCopy) deletion(n *parser.Node) Edit {
	start, end := n.Span.Start.Offset, n.Span.End.Offset
	if _, ok := ownLineIndent(wc.Source, start); ok {
		rest := end
		for rest < len(wc.Source) && (wc.Source[rest] == ' ' || wc.Source[rest] == '\t' || wc.Source[rest] == '\r') {
			rest++
		}
		if rest == len(wc.Source) || wc.Source[rest] == '\n' {
			start = lineStart(wc.Source, start)
			end = rest
			if end < len(wc.Source) {
				end++
			}
		}
	}
	return Edit{Offset: start, Length: end - start}
}

// childIndent is the indentation of the neighbours of a new child, or one
// level deeper than the line that opens container.
func (wc *WorkingCopy) childIndent(container, prev, next *parser.Node) string {
	for _, n := range []*parser.Node{prev, next} {
		if n == nil {
			continue
		}
		if indent, ok := ownLineIndent(wc.Source, n.Span.Start.Offset); ok {
			return indent
		}
	}
	return lineIndent(wc.Source, container.Span.Start.Offset) + wc.Indent
}

// lineTail returns the end of the line holding offset when only blanks
// and a line comment follow offset on it, and offset otherwise.
func lineTail(src []byte, offset int) int {
	end := offset
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	if bytes.HasPrefix(src[end:], []byte("//")) {
		if i := bytes.IndexAny(src[end:], "\r\n"); i >= 0 {
			end += i
		} else {
			end = len(src)
		}
	}
	if end == len(src) || src[end] == '\n' || src[end] == '\r' {
		return end
	}
	return offset
}

func lineStart(src []byte, offset int) int {
	return bytes.LastIndexByte(src[:offset], '\n') + 1
}

// ownLineIndent returns the whitespace before offset when nothing else
// precedes it on its line.
func ownLineIndent(src []byte, offset int) (string, bool) {
	start := lineStart(src, offset)
	prefix := src[start:offset]
	if len(bytes.Trim(prefix, " \t")) != 0 {
		return "", false
	}
	return string(prefix), true
}

// lineIndent returns the leading whitespace of the line holding offset.
func lineIndent(src []byte, offset int) string {
	start := lineStart(src, offset)
	end := start
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return string(src[start:end])
}
