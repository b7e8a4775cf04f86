package java

import (
	"strings"
)

// ResolveInnerClassReferences rewrites type references of the form
// "pkg.Inner" to "pkg.Outer.Inner" when Inner is a member type declared in
// pkg.
//
// A file that uses a member type of a class declared in a different file
// of the same package cannot see the outer class, so its resolver falls
// back to "pkg.Inner". Calling this after every file of a scan has been
// modelled repairs those references.
func ResolveInnerClassReferences(classes []*ClassModel) {
	inner := buildInnerClassMap(classes)
	if len(inner) == 0 {
		return
	}
	known := make(map[string]bool, len(classes))
	for _, c := range classes {
		known[c.Name] = true
	}
	fix := func(name string) string {
		if known[name] {
			return name
		}
		return fixTypeName(name, inner)
	}
	for _, model := range classes {
		if model.SuperClass != "" {
			model.SuperClass = fix(model.SuperClass)
		}
		for i := range model.Interfaces {
			model.Interfaces[i] = fix(model.Interfaces[i])
		}
		for i := range model.Fields {
			fixType(&model.Fields[i].Type, fix)
		}
		for i := range model.Methods {
			m := &model.Methods[i]
			fixType(&m.ReturnType, fix)
			for j := range m.Parameters {
				fixType(&m.Parameters[j].Type, fix)
			}
			for j := range m.Exceptions {
				m.Exceptions[j] = fix(m.Exceptions[j])
			}
			fixTypeParameters(m.TypeParameters, fix)
		}
		fixTypeParameters(model.TypeParameters, fix)
	}
}

// buildInnerClassMap maps package -> simple name -> qualified name for
// every nested class.
func buildInnerClassMap(classes []*ClassModel) map[string]map[string]string {
	result := make(map[string]map[string]string)
	for _, model := range classes {
		if model.EnclosingClass == "" && !isInnerClass(model) {
			continue
		}
		if result[model.Package] == nil {
			result[model.Package] = make(map[string]string)
		}
		result[model.Package][model.SimpleName] = model.Name
	}
	return result
}

func isInnerClass(model *ClassModel) bool {
	if model.Package == "" {
		return strings.Contains(model.Name, ".")
	}
	return strings.Contains(strings.TrimPrefix(model.Name, model.Package+"."), ".")
}

func fixType(t *TypeModel, fix func(string) string) {
	if t.IsTypeVariable || t.IsPrimitive() {
		return
	}
	t.Name = fix(t.Name)
	for i := range t.TypeArguments {
		arg := &t.TypeArguments[i]
		if arg.Type != nil {
			fixType(arg.Type, fix)
		}
		if arg.Bound != nil {
			fixType(arg.Bound, fix)
		}
	}
}

func fixTypeParameters(params []TypeParameterModel, fix func(string) string) {
	for i := range params {
		for j := range params[i].Bounds {
			fixType(&params[i].Bounds[j], fix)
		}
	}
}

func fixTypeName(typeName string, inner map[string]map[string]string) string {
	lastDot := strings.LastIndex(typeName, ".")
	if lastDot == -1 {
		return typeName
	}
	if names, ok := inner[typeName[:lastDot]]; ok {
		if full, ok := names[typeName[lastDot+1:]]; ok {
			return full
		}
	}
	return typeName
}
