package java

import "strings"

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
	VisibilityPackage   Visibility = "package"
)

type ClassKind string

const (
	ClassKindClass      ClassKind = "class"
	ClassKindInterface  ClassKind = "interface"
	ClassKindEnum       ClassKind = "enum"
	ClassKindAnnotation ClassKind = "annotation"
	ClassKindRecord     ClassKind = "record"
)

type ClassModel struct {
	Name           string
	SimpleName     string
	Package        string
	SuperClass     string
	Interfaces     []string
	Visibility     Visibility
	Kind           ClassKind
	IsFinal        bool
	IsAbstract     bool
	IsStatic       bool
	SourceFile     string
	EnclosingClass string
	InnerClasses   []string
	Fields         []FieldModel
	Methods        []MethodModel
	TypeParameters []TypeParameterModel
}

// Method returns the first declared method with the given name.
func (c *ClassModel) Method(name string) *MethodModel {
	for i := range c.Methods {
		if c.Methods[i].Name == name {
			return &c.Methods[i]
		}
	}
	return nil
}

type FieldModel struct {
	Name        string
	Type        TypeModel
	Visibility  Visibility
	IsStatic    bool
	IsFinal     bool
	IsVolatile  bool
	IsTransient bool
}

type MethodModel struct {
	Name           string
	ReturnType     TypeModel
	Parameters     []ParameterModel
	Visibility     Visibility
	IsStatic       bool
	IsFinal        bool
	IsAbstract     bool
	IsSynchronized bool
	IsNative       bool
	IsVarargs      bool
	IsDefault      bool
	IsConstructor  bool
	Exceptions     []string
	TypeParameters []TypeParameterModel
}

// Signature renders the method the way a chooser would list it,
// e.g. "getBytes(java.nio.charset.Charset) : byte[]".
func (m MethodModel) Signature() string {
	var sb strings.Builder
	sb.WriteString(m.Name)
	sb.WriteString("(")
	for i, p := range m.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Type.String())
	}
	sb.WriteString(")")
	if !m.IsConstructor {
		sb.WriteString(" : ")
		sb.WriteString(m.ReturnType.String())
	}
	return sb.String()
}

type ParameterModel struct {
	Name    string
	Type    TypeModel
	IsFinal bool
}

type TypeModel struct {
	Name           string
	ArrayDepth     int
	TypeArguments  []TypeArgumentModel
	IsTypeVariable bool
}

func (t TypeModel) IsPrimitive() bool {
	if t.ArrayDepth > 0 {
		return false
	}
	return isPrimitiveName(t.Name)
}

func isPrimitiveName(name string) bool {
	switch name {
	case "boolean", "byte", "char", "short", "int", "long", "float", "double":
		return true
	}
	return false
}

func (t TypeModel) IsArray() bool {
	return t.ArrayDepth > 0
}

func (t TypeModel) IsVoid() bool {
	return t.Name == "void" && t.ArrayDepth == 0
}

func (t TypeModel) IsZero() bool {
	return t.Name == ""
}

// IsReference reports whether values of t are object references.
func (t TypeModel) IsReference() bool {
	return !t.IsZero() && !t.IsVoid() && !t.IsPrimitive()
}

// Element returns the component type of an array type.
func (t TypeModel) Element() TypeModel {
	if t.ArrayDepth == 0 {
		return t
	}
	e := t
	e.ArrayDepth--
	return e
}

// SimpleName returns the last segment of the type's name.
func (t TypeModel) SimpleName() string {
	return SimpleName(t.Name)
}

// String renders t with fully qualified names.
func (t TypeModel) String() string {
	return t.Format(func(name string) string { return name })
}

// Format renders t, passing every class name through name.
func (t TypeModel) Format(name func(string) string) string {
	var sb strings.Builder
	if t.IsPrimitive() || t.Name == "void" || t.IsTypeVariable {
		sb.WriteString(t.Name)
	} else {
		sb.WriteString(name(t.Name))
	}
	if len(t.TypeArguments) > 0 {
		sb.WriteString("<")
		for i, arg := range t.TypeArguments {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(arg.Format(name))
		}
		sb.WriteString(">")
	}
	for i := 0; i < t.ArrayDepth; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

type TypeArgumentModel struct {
	Type       *TypeModel
	IsWildcard bool
	BoundKind  string // "extends", "super", or "" for unbounded
	Bound      *TypeModel
}

func (a TypeArgumentModel) Format(name func(string) string) string {
	if !a.IsWildcard {
		if a.Type == nil {
			return "?"
		}
		return a.Type.Format(name)
	}
	if a.Bound == nil || a.BoundKind == "" {
		return "?"
	}
	return "? " + a.BoundKind + " " + a.Bound.Format(name)
}

type TypeParameterModel struct {
	Name   string
	Bounds []TypeModel
}

// SimpleName returns the part of a qualified name after the last dot.
func SimpleName(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

// PackageOf returns the part of a qualified name before the last dot.
func PackageOf(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[:i]
	}
	return ""
}
