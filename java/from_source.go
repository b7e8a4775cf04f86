package java

import (
	"bytes"
	"strings"

	"github.com/dhamidi/jgen/java/parser"
)

// ClassIndex looks up class models by fully qualified name.
type ClassIndex interface {
	FindClass(name string) *ClassModel
}

// ClassList is a ClassIndex backed by a plain slice.
type ClassList []*ClassModel

func (l ClassList) FindClass(name string) *ClassModel {
	for _, c := range l {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ClassModelsFromSource parses source and returns a model for every type it
// declares, nested member types included.
func ClassModelsFromSource(source []byte, opts ...parser.Option) ([]*ClassModel, error) {
	p := parser.ParseCompilationUnit(bytes.NewReader(source), opts...)
	node := p.Finish()
	if node == nil {
		return nil, nil
	}
	return ClassModelsFromTree(node, nil), nil
}

// ClassModelsFromTree builds class models from a parsed compilation unit.
// index, if not nil, is consulted to resolve star imports.
func ClassModelsFromTree(cu *parser.Node, index ClassIndex) []*ClassModel {
	r := NewResolver(cu, index)
	var models []*ClassModel
	for _, child := range cu.Children {
		if parser.IsTypeDecl(child.Kind) {
			models = append(models, classModelsFromDecl(child, "", r)...)
		}
	}
	return models
}

func packageFromCompilationUnit(cu *parser.Node) string {
	pkgDecl := cu.FirstChildOfKind(parser.KindPackageDecl)
	if pkgDecl == nil {
		return ""
	}
	qn := pkgDecl.FirstChildOfKind(parser.KindQualifiedName)
	if qn == nil {
		return ""
	}
	return qualifiedNameToString(qn)
}

func qualifiedNameToString(qn *parser.Node) string {
	var parts []string
	for _, child := range qn.Children {
		if child.Kind == parser.KindIdentifier && child.Token != nil {
			parts = append(parts, child.Token.Literal)
		}
	}
	return strings.Join(parts, ".")
}

// Import is a single import declaration of a compilation unit.
type Import struct {
	Name     string // "java.util.List", or "java.util" for "java.util.*"
	Static   bool
	Wildcard bool
}

// ImportsOf lists the import declarations of cu in source order.
func ImportsOf(cu *parser.Node) []Import {
	var imports []Import
	for _, child := range cu.ChildrenOfKind(parser.KindImportDecl) {
		imp := Import{}
		for _, ic := range child.Children {
			switch {
			case ic.Kind == parser.KindIdentifier && ic.TokenLiteral() == "static":
				imp.Static = true
			case ic.Kind == parser.KindIdentifier && ic.TokenLiteral() == "*":
				imp.Wildcard = true
			case ic.Kind == parser.KindQualifiedName:
				imp.Name = qualifiedNameToString(ic)
			}
		}
		imports = append(imports, imp)
	}
	return imports
}

// Resolver turns type names as written in one compilation unit into fully
// qualified names.
type Resolver struct {
	pkg      string
	imports  []Import
	declared map[string]string
	vars     map[string]bool
	index    ClassIndex
}

// NewResolver prepares a resolver for names used inside cu.
func NewResolver(cu *parser.Node, index ClassIndex) *Resolver {
	r := &Resolver{
		pkg:      packageFromCompilationUnit(cu),
		imports:  ImportsOf(cu),
		declared: make(map[string]string),
		index:    index,
	}
	r.declareTypes(cu, "")
	return r
}

func (r *Resolver) Package() string  { return r.pkg }
func (r *Resolver) Imports() []Import { return r.imports }

// declareTypes registers every member type declared below node, outer
// types first so they win over nested types with the same simple name.
func (r *Resolver) declareTypes(node *parser.Node, outer string) {
	var nested []*parser.Node
	var names []string
	for _, child := range typeMembers(node) {
		if !parser.IsTypeDecl(child.Kind) {
			continue
		}
		name := child.Name()
		if name == "" {
			continue
		}
		full := name
		if outer != "" {
			full = outer + "." + name
		} else if r.pkg != "" {
			full = r.pkg + "." + name
		}
		if _, ok := r.declared[name]; !ok {
			r.declared[name] = full
		}
		nested = append(nested, child)
		names = append(names, full)
	}
	for i, child := range nested {
		r.declareTypes(child, names[i])
	}
}

// typeMembers returns the member declarations of a compilation unit or of a
// type declaration.
func typeMembers(node *parser.Node) []*parser.Node {
	switch node.Kind {
	case parser.KindCompilationUnit:
		return node.Children
	case parser.KindEnumDecl:
		return node.Children
	}
	if body := node.FirstChildOfKind(parser.KindBlock); body != nil && parser.IsTypeDecl(node.Kind) {
		return body.Children
	}
	return nil
}

// WithTypeVariables returns a resolver that treats the given names as type
// variables.
func (r *Resolver) WithTypeVariables(names ...string) *Resolver {
	if len(names) == 0 {
		return r
	}
	c := *r
	c.vars = make(map[string]bool, len(r.vars)+len(names))
	for k := range r.vars {
		c.vars[k] = true
	}
	for _, n := range names {
		c.vars[n] = true
	}
	return &c
}

// IsTypeVariable reports whether name is a type variable in scope.
func (r *Resolver) IsTypeVariable(name string) bool {
	return r.vars[name]
}

var javaLangTypes = map[string]bool{
	"Object": true, "String": true, "Class": true, "System": true,
	"Throwable": true, "Exception": true, "RuntimeException": true, "Error": true,
	"Integer": true, "Long": true, "Short": true, "Byte": true,
	"Float": true, "Double": true, "Character": true, "Boolean": true,
	"Number": true, "Comparable": true, "CharSequence": true,
	"Iterable": true, "Cloneable": true, "Runnable": true, "Void": true,
	"Thread": true, "StringBuilder": true, "StringBuffer": true,
	"Math": true, "Enum": true, "Record": true, "AutoCloseable": true,
	"IllegalArgumentException": true, "IllegalStateException": true,
	"NullPointerException": true, "UnsupportedOperationException": true,
	"Override": true, "Deprecated": true, "SuppressWarnings": true, "FunctionalInterface": true,
}

// Resolve returns the fully qualified form of a type name. Primitive
// names, type variables and names that cannot be placed are returned so
// that a best guess is still usable.
func (r *Resolver) Resolve(name string) string {
	if name == "" || isPrimitiveName(name) || name == "void" || name == "var" {
		return name
	}
	if r.vars[name] {
		return name
	}
	if head, rest, ok := strings.Cut(name, "."); ok {
		if full, found := r.lookup(head); found {
			return full + "." + rest
		}
		return name
	}
	if full, found := r.lookup(name); found {
		return full
	}
	if r.pkg != "" {
		return r.pkg + "." + name
	}
	return name
}

func (r *Resolver) lookup(simple string) (string, bool) {
	if full, ok := r.declared[simple]; ok {
		return full, true
	}
	for _, imp := range r.imports {
		if imp.Wildcard || imp.Static {
			continue
		}
		if SimpleName(imp.Name) == simple {
			return imp.Name, true
		}
	}
	if r.index != nil && r.pkg != "" {
		if c := r.index.FindClass(r.pkg + "." + simple); c != nil {
			return c.Name, true
		}
	}
	for _, imp := range r.imports {
		if !imp.Wildcard || imp.Static || r.index == nil {
			continue
		}
		if c := r.index.FindClass(imp.Name + "." + simple); c != nil {
			return c.Name, true
		}
	}
	if javaLangTypes[simple] {
		return "java.lang." + simple, true
	}
	if r.index != nil {
		if c := r.index.FindClass("java.lang." + simple); c != nil {
			return c.Name, true
		}
	}
	return "", false
}

// TypeOf converts a Type or ArrayType node into a resolved type model.
func (r *Resolver) TypeOf(node *parser.Node) TypeModel {
	if node == nil {
		return TypeModel{}
	}
	if node.Kind == parser.KindArrayType {
		for _, ac := range node.Children {
			if ac.Kind == parser.KindType || ac.Kind == parser.KindArrayType {
				inner := r.TypeOf(ac)
				inner.ArrayDepth++
				return inner
			}
		}
		return TypeModel{}
	}

	model := TypeModel{}
	var segments []string
	if node.Token != nil && len(node.Children) == 0 {
		segments = append(segments, node.Token.Literal)
	}
	for _, child := range node.Children {
		switch child.Kind {
		case parser.KindIdentifier:
			segments = append(segments, child.TokenLiteral())
		case parser.KindQualifiedName:
			segments = append(segments, qualifiedNameToString(child))
		case parser.KindTypeArguments:
			model.TypeArguments = r.typeArgumentsOf(child)
		case parser.KindType, parser.KindArrayType:
			return r.TypeOf(child)
		}
	}
	written := strings.Join(segments, ".")
	if r.vars[written] {
		model.Name = written
		model.IsTypeVariable = true
		return model
	}
	model.Name = r.Resolve(written)
	return model
}

func (r *Resolver) typeArgumentsOf(node *parser.Node) []TypeArgumentModel {
	args := []TypeArgumentModel{}
	for _, child := range node.Children {
		switch child.Kind {
		case parser.KindType, parser.KindArrayType:
			t := r.TypeOf(child)
			args = append(args, TypeArgumentModel{Type: &t})
		case parser.KindWildcard:
			arg := TypeArgumentModel{IsWildcard: true}
			for _, wc := range child.Children {
				switch wc.Kind {
				case parser.KindIdentifier:
					arg.BoundKind = wc.TokenLiteral()
				case parser.KindType, parser.KindArrayType:
					t := r.TypeOf(wc)
					arg.Bound = &t
				}
			}
			args = append(args, arg)
		}
	}
	return args
}

// TypeParametersOf converts a TypeParameters node. The returned resolver
// knows the declared names as type variables.
func (r *Resolver) TypeParametersOf(node *parser.Node) ([]TypeParameterModel, *Resolver) {
	if node == nil {
		return nil, r
	}
	var names []string
	for _, tp := range node.ChildrenOfKind(parser.KindTypeParameter) {
		names = append(names, tp.Name())
	}
	scoped := r.WithTypeVariables(names...)
	var params []TypeParameterModel
	for _, tp := range node.ChildrenOfKind(parser.KindTypeParameter) {
		param := TypeParameterModel{Name: tp.Name()}
		for _, b := range tp.Children {
			if b.Kind == parser.KindType || b.Kind == parser.KindArrayType {
				param.Bounds = append(param.Bounds, scoped.TypeOf(b))
			}
		}
		params = append(params, param)
	}
	return params, scoped
}

var classKinds = map[parser.NodeKind]ClassKind{
	parser.KindClassDecl:      ClassKindClass,
	parser.KindInterfaceDecl:  ClassKindInterface,
	parser.KindEnumDecl:       ClassKindEnum,
	parser.KindRecordDecl:     ClassKindRecord,
	parser.KindAnnotationDecl: ClassKindAnnotation,
}

// classModelsFromDecl returns the model of a type declaration followed by
// the models of its member types.
func classModelsFromDecl(node *parser.Node, outer string, r *Resolver) []*ClassModel {
	model := &ClassModel{
		Kind:           classKinds[node.Kind],
		Package:        r.pkg,
		SimpleName:     node.Name(),
		Visibility:     VisibilityPackage,
		EnclosingClass: outer,
	}
	switch {
	case outer != "":
		model.Name = outer + "." + model.SimpleName
	case r.pkg != "":
		model.Name = r.pkg + "." + model.SimpleName
	default:
		model.Name = model.SimpleName
	}

	if mods := node.FirstChildOfKind(parser.KindModifiers); mods != nil {
		applyClassModifiers(mods, model)
	}

	scoped := r
	if tps := node.FirstChildOfKind(parser.KindTypeParameters); tps != nil {
		model.TypeParameters, scoped = r.TypeParametersOf(tps)
	}

	switch model.Kind {
	case ClassKindInterface:
		model.IsAbstract = true
	case ClassKindAnnotation:
		model.IsAbstract = true
		model.Interfaces = []string{"java.lang.annotation.Annotation"}
	case ClassKindEnum:
		model.SuperClass = "java.lang.Enum"
	case ClassKindRecord:
		model.SuperClass = "java.lang.Record"
		model.IsFinal = true
	}

	for _, clause := range node.ChildrenOfKind(parser.KindExtendsClause) {
		for _, t := range clause.ChildrenOfKind(parser.KindType) {
			name := scoped.TypeOf(t).Name
			if model.Kind == ClassKindClass {
				model.SuperClass = name
			} else {
				model.Interfaces = append(model.Interfaces, name)
			}
		}
	}
	for _, clause := range node.ChildrenOfKind(parser.KindImplementsClause) {
		for _, t := range clause.ChildrenOfKind(parser.KindType) {
			model.Interfaces = append(model.Interfaces, scoped.TypeOf(t).Name)
		}
	}
	if model.Kind == ClassKindClass && model.SuperClass == "" && model.Name != "java.lang.Object" {
		model.SuperClass = "java.lang.Object"
	}

	if model.Kind == ClassKindRecord {
		addRecordComponents(node.FirstChildOfKind(parser.KindParameters), model, scoped)
	}

	models := []*ClassModel{model}
	for _, member := range typeMembers(node) {
		switch member.Kind {
		case parser.KindFieldDecl:
			if member.FirstChildOfKind(parser.KindType) == nil && member.FirstChildOfKind(parser.KindArrayType) == nil {
				model.Fields = append(model.Fields, enumConstant(member, model))
				continue
			}
			fields := fieldModelsFromFieldDecl(member, scoped)
			if model.Kind == ClassKindInterface || model.Kind == ClassKindAnnotation {
				for i := range fields {
					fields[i].IsStatic = true
					fields[i].IsFinal = true
					fields[i].Visibility = VisibilityPublic
				}
			}
			model.Fields = append(model.Fields, fields...)
		case parser.KindMethodDecl:
			method := methodModelFromMethodDecl(member, scoped)
			if model.Kind == ClassKindInterface || model.Kind == ClassKindAnnotation {
				if method.Visibility != VisibilityPrivate {
					method.Visibility = VisibilityPublic
				}
				if !method.IsStatic && !method.IsDefault && method.Visibility != VisibilityPrivate {
					method.IsAbstract = true
				}
			}
			model.Methods = append(model.Methods, method)
		case parser.KindConstructorDecl:
			model.Methods = append(model.Methods, methodModelFromConstructorDecl(member, scoped))
		default:
			if parser.IsTypeDecl(member.Kind) {
				inner := classModelsFromDecl(member, model.Name, scoped)
				if model.Kind == ClassKindInterface {
					inner[0].IsStatic = true
				}
				model.InnerClasses = append(model.InnerClasses, inner[0].Name)
				models = append(models, inner...)
			}
		}
	}
	if model.Kind == ClassKindRecord {
		addRecordAccessors(model)
	}
	return models
}

func enumConstant(node *parser.Node, enum *ClassModel) FieldModel {
	return FieldModel{
		Name:       node.Name(),
		Type:       TypeModel{Name: enum.Name},
		Visibility: VisibilityPublic,
		IsStatic:   true,
		IsFinal:    true,
	}
}

func addRecordComponents(params *parser.Node, model *ClassModel, r *Resolver) {
	if params == nil {
		return
	}
	for _, p := range params.ChildrenOfKind(parser.KindParameter) {
		param := parameterFromNode(p, r)
		model.Fields = append(model.Fields, FieldModel{
			Name:       param.Name,
			Type:       param.Type,
			Visibility: VisibilityPrivate,
			IsFinal:    true,
		})
	}
}

// addRecordAccessors adds the implicit accessor of every record component
// that the body does not declare itself.
func addRecordAccessors(model *ClassModel) {
	for _, f := range model.Fields {
		if f.IsStatic || f.Visibility != VisibilityPrivate {
			continue
		}
		declared := false
		for _, m := range model.Methods {
			if m.Name == f.Name && len(m.Parameters) == 0 {
				declared = true
				break
			}
		}
		if !declared {
			model.Methods = append(model.Methods, MethodModel{
				Name:       f.Name,
				ReturnType: f.Type,
				Visibility: VisibilityPublic,
			})
		}
	}
}

func visibilityOf(literal string) (Visibility, bool) {
	switch literal {
	case "public":
		return VisibilityPublic, true
	case "protected":
		return VisibilityProtected, true
	case "private":
		return VisibilityPrivate, true
	}
	return "", false
}

func applyClassModifiers(modifiers *parser.Node, model *ClassModel) {
	for _, child := range modifiers.Children {
		lit := child.TokenLiteral()
		if v, ok := visibilityOf(lit); ok {
			model.Visibility = v
			continue
		}
		switch lit {
		case "abstract":
			model.IsAbstract = true
		case "static":
			model.IsStatic = true
		case "final":
			model.IsFinal = true
		}
	}
}

func fieldModelsFromFieldDecl(node *parser.Node, r *Resolver) []FieldModel {
	base := FieldModel{Visibility: VisibilityPackage}
	if mods := node.FirstChildOfKind(parser.KindModifiers); mods != nil {
		for _, child := range mods.Children {
			lit := child.TokenLiteral()
			if v, ok := visibilityOf(lit); ok {
				base.Visibility = v
				continue
			}
			switch lit {
			case "static":
				base.IsStatic = true
			case "final":
				base.IsFinal = true
			case "volatile":
				base.IsVolatile = true
			case "transient":
				base.IsTransient = true
			}
		}
	}

	for _, child := range node.Children {
		if child.Kind == parser.KindType || child.Kind == parser.KindArrayType {
			base.Type = r.TypeOf(child)
			break
		}
	}

	var fields []FieldModel
	for _, child := range node.Children {
		if child.Kind == parser.KindIdentifier && child.Token != nil && !child.IsInitializer() {
			field := base
			field.Name = child.Token.Literal
			fields = append(fields, field)
		}
	}
	return fields
}

func applyMethodModifiers(modifiers *parser.Node, method *MethodModel) {
	for _, child := range modifiers.Children {
		lit := child.TokenLiteral()
		if v, ok := visibilityOf(lit); ok {
			method.Visibility = v
			continue
		}
		switch lit {
		case "static":
			method.IsStatic = true
		case "final":
			method.IsFinal = true
		case "abstract":
			method.IsAbstract = true
		case "synchronized":
			method.IsSynchronized = true
		case "native":
			method.IsNative = true
		case "default":
			method.IsDefault = true
		}
	}
}

func methodModelFromMethodDecl(node *parser.Node, r *Resolver) MethodModel {
	model := MethodModel{Visibility: VisibilityPackage}
	if mods := node.FirstChildOfKind(parser.KindModifiers); mods != nil {
		applyMethodModifiers(mods, &model)
	}

	scoped := r
	if tps := node.FirstChildOfKind(parser.KindTypeParameters); tps != nil {
		model.TypeParameters, scoped = r.TypeParametersOf(tps)
	}

	for _, child := range node.Children {
		switch child.Kind {
		case parser.KindType, parser.KindArrayType:
			if model.ReturnType.IsZero() {
				model.ReturnType = scoped.TypeOf(child)
			}
		case parser.KindIdentifier:
			// an annotation element default may follow as an identifier
			if model.Name == "" {
				model.Name = child.TokenLiteral()
			}
		case parser.KindParameters:
			model.Parameters, model.IsVarargs = parametersFromNode(child, scoped)
		case parser.KindThrowsList:
			model.Exceptions = exceptionsFromThrowsList(child, scoped)
		}
	}
	return model
}

func methodModelFromConstructorDecl(node *parser.Node, r *Resolver) MethodModel {
	model := MethodModel{
		Name:          "<init>",
		Visibility:    VisibilityPackage,
		ReturnType:    TypeModel{Name: "void"},
		IsConstructor: true,
	}
	if mods := node.FirstChildOfKind(parser.KindModifiers); mods != nil {
		applyMethodModifiers(mods, &model)
	}

	scoped := r
	if tps := node.FirstChildOfKind(parser.KindTypeParameters); tps != nil {
		model.TypeParameters, scoped = r.TypeParametersOf(tps)
	}
	if params := node.FirstChildOfKind(parser.KindParameters); params != nil {
		model.Parameters, model.IsVarargs = parametersFromNode(params, scoped)
	}
	if throws := node.FirstChildOfKind(parser.KindThrowsList); throws != nil {
		model.Exceptions = exceptionsFromThrowsList(throws, scoped)
	}
	return model
}

// parametersFromNode also reports whether the last parameter is variadic.
func parametersFromNode(node *parser.Node, r *Resolver) ([]ParameterModel, bool) {
	var params []ParameterModel
	varargs := false
	for _, child := range node.ChildrenOfKind(parser.KindParameter) {
		params = append(params, parameterFromNode(child, r))
		varargs = isVariadic(child)
	}
	return params, varargs
}

func isVariadic(param *parser.Node) bool {
	for _, c := range param.ChildrenOfKind(parser.KindIdentifier) {
		if c.Token != nil && c.Token.Kind == parser.TokenEllipsis {
			return true
		}
	}
	return false
}

func parameterFromNode(node *parser.Node, r *Resolver) ParameterModel {
	param := ParameterModel{}
	if mods := node.FirstChildOfKind(parser.KindModifiers); mods != nil {
		for _, child := range mods.Children {
			if child.TokenLiteral() == "final" {
				param.IsFinal = true
			}
		}
	}
	for _, child := range node.Children {
		switch child.Kind {
		case parser.KindType, parser.KindArrayType:
			param.Type = r.TypeOf(child)
		case parser.KindIdentifier:
			if child.Token != nil && child.Token.Kind != parser.TokenEllipsis {
				param.Name = child.Token.Literal
			}
		}
	}
	if isVariadic(node) {
		param.Type.ArrayDepth++
	}
	return param
}

func exceptionsFromThrowsList(node *parser.Node, r *Resolver) []string {
	var exceptions []string
	for _, child := range node.ChildrenOfKind(parser.KindType) {
		exceptions = append(exceptions, r.TypeOf(child).Name)
	}
	return exceptions
}
