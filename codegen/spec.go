package codegen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dhamidi/jgen/java/parser"
)

// Access is the access level written on a generated declaration.
type Access string

const (
	AccessDefault   Access = ""
	AccessPrivate   Access = "private"
	AccessProtected Access = "protected"
	AccessPublic    Access = "public"
)

// ParseAccess reads an access level. The empty string, "default" and
// "package" all mean package-private access.
func ParseAccess(s string) (Access, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default", "package":
		return AccessDefault, nil
	case "private":
		return AccessPrivate, nil
	case "protected":
		return AccessProtected, nil
	case "public":
		return AccessPublic, nil
	}
	return AccessDefault, fmt.Errorf("%w: unknown access %q", ErrInvalidSpecification, s)
}

// UnmarshalText lets spec files spell access levels the way ParseAccess
// accepts them.
func (a *Access) UnmarshalText(text []byte) error {
	parsed, err := ParseAccess(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// FieldSpec describes one field declaration.
type FieldSpec struct {
	Access    Access `json:"access,omitempty" yaml:"access,omitempty"`
	Static    bool   `json:"static,omitempty" yaml:"static,omitempty"`
	Final     bool   `json:"final,omitempty" yaml:"final,omitempty"`
	Transient bool   `json:"transient,omitempty" yaml:"transient,omitempty"`
	Volatile  bool   `json:"volatile,omitempty" yaml:"volatile,omitempty"`
	Type      string `json:"type" yaml:"type"`
	Name      string `json:"name" yaml:"name"`
	// Value is an optional initializer expression, emitted as written.
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

type ParameterSpec struct {
	Final bool   `json:"final,omitempty" yaml:"final,omitempty"`
	Type  string `json:"type" yaml:"type"`
	Name  string `json:"name" yaml:"name"`
}

type TypeParameterSpec struct {
	Name  string `json:"name" yaml:"name"`
	Bound string `json:"bound,omitempty" yaml:"bound,omitempty"`
}

// MethodSpec describes one method declaration. Whether it gets a body
// depends on the scope it is inserted into, see MethodHasBody.
type MethodSpec struct {
	Access         Access              `json:"access,omitempty" yaml:"access,omitempty"`
	Abstract       bool                `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Static         bool                `json:"static,omitempty" yaml:"static,omitempty"`
	Final          bool                `json:"final,omitempty" yaml:"final,omitempty"`
	Synchronized   bool                `json:"synchronized,omitempty" yaml:"synchronized,omitempty"`
	Native         bool                `json:"native,omitempty" yaml:"native,omitempty"`
	Strictfp       bool                `json:"strictfp,omitempty" yaml:"strictfp,omitempty"`
	ReturnType     string              `json:"returnType" yaml:"return_type"`
	Name           string              `json:"name" yaml:"name"`
	Parameters     []ParameterSpec     `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	TypeParameters []TypeParameterSpec `json:"typeParameters,omitempty" yaml:"type_parameters,omitempty"`
	Throws         []string            `json:"throws,omitempty" yaml:"throws,omitempty"`
}

type ImportSpec struct {
	QualifiedName string `json:"qualifiedName" yaml:"qualified_name"`
	Static        bool   `json:"static,omitempty" yaml:"static,omitempty"`
}

// Normalized returns the qualified name with all whitespace removed, the
// form used to compare imports.
func (s ImportSpec) Normalized() string {
	return strings.Join(strings.Fields(s.QualifiedName), "")
}

const identifier = `[a-zA-Z_]\w*`

var (
	identifierPattern    = regexp.MustCompile(`^` + identifier + `$`)
	qualifiedPattern     = regexp.MustCompile(`^` + identifier + `(\.` + identifier + `)*$`)
	importPattern        = regexp.MustCompile(`^` + identifier + `(\.` + identifier + `)*(\.\*)?$`)
	wildcardBoundPattern = regexp.MustCompile(`^\?\s+(extends|super)\s+(.+)$`)
	arraySuffixPattern   = regexp.MustCompile(`\s*\[\s*\]$`)
)

// ValidIdentifier reports whether s can name a field, method, parameter
// or local variable.
func ValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s) && !parser.IsKeyword(s)
}

// ValidTypeParameterName accepts an identifier or "?".
func ValidTypeParameterName(s string) bool {
	return s == "?" || ValidIdentifier(s)
}

// ValidType reports whether s is written like a Java type: a simple or
// qualified name, optionally followed by type arguments and any number of
// array dimensions. Type arguments are types themselves or wildcards,
// bounded or not.
func ValidType(s string) bool {
	s = strings.TrimSpace(s)
	for arraySuffixPattern.MatchString(s) {
		s = arraySuffixPattern.ReplaceAllString(s, "")
	}
	open := strings.IndexByte(s, '<')
	if open < 0 {
		return qualifiedPattern.MatchString(s)
	}
	if !strings.HasSuffix(s, ">") || !qualifiedPattern.MatchString(strings.TrimSpace(s[:open])) {
		return false
	}
	args, ok := splitTypeArguments(s[open+1 : len(s)-1])
	if !ok {
		return false
	}
	for _, arg := range args {
		if !validTypeArgument(arg) {
			return false
		}
	}
	return true
}

func validTypeArgument(arg string) bool {
	if arg == "?" {
		return true
	}
	if m := wildcardBoundPattern.FindStringSubmatch(arg); m != nil {
		return ValidType(m[2])
	}
	return ValidType(arg)
}

// splitTypeArguments splits on the commas that are not nested inside
// another argument list.
func splitTypeArguments(s string) ([]string, bool) {
	var args []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
			if depth < 0 {
				return nil, false
			}
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, false
	}
	args = append(args, strings.TrimSpace(s[start:]))
	for _, a := range args {
		if a == "" {
			return nil, false
		}
	}
	return args, true
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidSpecification}, args...)...)
}

func (s FieldSpec) Validate() error {
	if !ValidIdentifier(s.Name) {
		return invalid("field name %q", s.Name)
	}
	if !ValidType(s.Type) {
		return invalid("field type %q", s.Type)
	}
	return nil
}

func (s MethodSpec) Validate() error {
	if !ValidIdentifier(s.Name) {
		return invalid("method name %q", s.Name)
	}
	if s.ReturnType != "void" && !ValidType(s.ReturnType) {
		return invalid("return type %q", s.ReturnType)
	}
	seen := map[string]bool{}
	for _, p := range s.Parameters {
		if !ValidIdentifier(p.Name) {
			return invalid("parameter name %q", p.Name)
		}
		if !ValidType(p.Type) {
			return invalid("parameter type %q", p.Type)
		}
		if seen[p.Name] {
			return invalid("duplicate parameter %q", p.Name)
		}
		seen[p.Name] = true
	}
	for _, tp := range s.TypeParameters {
		if !ValidTypeParameterName(tp.Name) {
			return invalid("type parameter %q", tp.Name)
		}
		for _, bound := range splitBounds(tp.Bound) {
			if !ValidType(bound) {
				return invalid("type parameter bound %q", tp.Bound)
			}
		}
	}
	for _, t := range s.Throws {
		if !ValidType(t) {
			return invalid("thrown type %q", t)
		}
	}
	return nil
}

func (s ImportSpec) Validate() error {
	if !importPattern.MatchString(s.Normalized()) {
		return invalid("import %q", s.QualifiedName)
	}
	return nil
}

// splitBounds splits "A & B" into its intersection members.
func splitBounds(bound string) []string {
	if strings.TrimSpace(bound) == "" {
		return nil
	}
	parts := strings.Split(bound, "&")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// SuggestParameterName proposes a parameter name for a type: its simple
// name with a lower-case first letter, or all lower case for an acronym.
// Names that would be keywords are cut down to their first letter.
func SuggestParameterName(typeText string) string {
	name := strings.TrimSpace(typeText)
	if i := strings.IndexAny(name, "<["); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return "arg"
	}
	if strings.ToUpper(name) == name {
		name = strings.ToLower(name)
	} else {
		name = strings.ToLower(name[:1]) + name[1:]
	}
	if parser.IsKeyword(name) {
		return name[:1]
	}
	return name
}
