package codegen

import (
	"strings"
	"unicode"

	"github.com/dhamidi/jgen/java"
	"github.com/dhamidi/jgen/java/parser"
)

// DefaultImplicitImports are the packages whose types need no import.
var DefaultImplicitImports = []string{"java.lang"}

// IsImplicitImport reports whether importing name is redundant because
// its package is imported implicitly. Only the package itself counts, so
// java.lang.reflect types still need an import.
func IsImplicitImport(name string, implicit []string) bool {
	pkg := java.PackageOf(name)
	if strings.HasSuffix(name, ".*") {
		pkg = strings.TrimSuffix(name, ".*")
	}
	for _, p := range implicit {
		if p == pkg {
			return true
		}
	}
	return false
}

// HasImport reports whether cu already imports exactly name.
func HasImport(cu *parser.Node, spec ImportSpec) bool {
	name := spec.Normalized()
	for _, imp := range java.ImportsOf(cu) {
		written := imp.Name
		if imp.Wildcard {
			written += ".*"
		}
		if written == name && imp.Static == spec.Static {
			return true
		}
	}
	return false
}

// ImportSet renders class names for code inserted into one file. Names
// that can be written by their simple name are shortened, and a class
// that is not yet visible gets an import recorded in Added. A simple name
// that already refers to another class forces the qualified name.
type ImportSet struct {
	resolver *java.Resolver
	index    java.ClassIndex
	implicit []string
	declared map[string]bool
	bound    map[string]string
	added    []string
}

func NewImportSet(f *File, implicit []string) *ImportSet {
	s := &ImportSet{
		resolver: java.NewResolver(f.Root, f.Index),
		index:    f.Index,
		implicit: implicit,
		declared: map[string]bool{},
		bound:    map[string]string{},
	}
	f.Root.Walk(func(n *parser.Node) bool {
		if parser.IsTypeDecl(n.Kind) && n.Name() != "" {
			s.declared[n.Name()] = true
		}
		return true
	})
	for _, imp := range java.ImportsOf(f.Root) {
		if !imp.Static && !imp.Wildcard {
			s.bound[java.SimpleName(imp.Name)] = imp.Name
		}
	}
	return s
}

// Added returns the classes that need an import, in the order they were
// first seen.
func (s *ImportSet) Added() []string {
	return s.added
}

// Name returns how qualified should be written.
func (s *ImportSet) Name(qualified string) string {
	if !strings.Contains(qualified, ".") {
		return qualified
	}
	top := s.topLevel(qualified)
	rest := qualified[len(top):]
	simple := java.SimpleName(top)
	if current, ok := s.lookup(simple); ok {
		if current == top {
			return simple + rest
		}
		return qualified
	}
	s.bound[simple] = top
	pkg := java.PackageOf(top)
	if pkg != s.resolver.Package() && !IsImplicitImport(top, s.implicit) {
		s.added = append(s.added, top)
	}
	return simple + rest
}

// lookup returns the class simple currently refers to in the file.
func (s *ImportSet) lookup(simple string) (string, bool) {
	if q, ok := s.bound[simple]; ok {
		return q, true
	}
	full := s.resolver.Resolve(simple)
	guess := simple
	if pkg := s.resolver.Package(); pkg != "" {
		guess = pkg + "." + simple
	}
	if full != guess || s.declared[simple] {
		return full, true
	}
	if s.index != nil && s.index.FindClass(full) != nil {
		return full, true
	}
	return "", false
}

// topLevel strips member class names from qualified, so that
// java.util.Map.Entry imports java.util.Map.
func (s *ImportSet) topLevel(qualified string) string {
	parts := strings.Split(qualified, ".")
	if s.index != nil {
		for i := 1; i <= len(parts); i++ {
			if prefix := strings.Join(parts[:i], "."); s.index.FindClass(prefix) != nil {
				return prefix
			}
		}
	}
	for i, part := range parts {
		if part != "" && unicode.IsUpper([]rune(part)[0]) {
			return strings.Join(parts[:i+1], ".")
		}
	}
	return qualified
}
