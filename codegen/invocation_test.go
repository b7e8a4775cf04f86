package codegen

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/jgen/format"
	"github.com/dhamidi/jgen/java"
)

func methodNames(methods []java.MethodModel) []string {
	var names []string
	for _, m := range methods {
		names = append(names, m.Name)
	}
	return names
}

func TestMethodFilters(t *testing.T) {
	index := java.ClassList{{
		Name: "p.Worker",
		Methods: []java.MethodModel{
			{Name: "getX", Visibility: java.VisibilityPublic, ReturnType: java.TypeModel{Name: "int"}},
			{Name: "isY", Visibility: java.VisibilityPublic, ReturnType: java.TypeModel{Name: "boolean"}},
			{Name: "setZ", Visibility: java.VisibilityPublic, ReturnType: java.TypeModel{Name: "void"}},
			{Name: "doWork", Visibility: java.VisibilityPublic, ReturnType: java.TypeModel{Name: "void"}},
			{Name: "getup", Visibility: java.VisibilityPublic, ReturnType: java.TypeModel{Name: "void"}},
			{Name: "hidden", Visibility: java.VisibilityPrivate, ReturnType: java.TypeModel{Name: "void"}},
			{Name: "Worker", Visibility: java.VisibilityPublic, IsConstructor: true},
		},
	}}
	sym := java.Symbol{Name: "w", Type: java.TypeModel{Name: "p.Worker"}}

	if diff := cmp.Diff([]string{"doWork"}, methodNames(AccessibleMethodsOf(sym, index))); diff != "" {
		t.Errorf("AccessibleMethodsOf (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"getX", "isY"}, methodNames(Getters(sym, index))); diff != "" {
		t.Errorf("Getters (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"setZ"}, methodNames(Setters(sym, index))); diff != "" {
		t.Errorf("Setters (-want +got):\n%s", diff)
	}
	unknown := java.Symbol{Name: "u", Type: java.TypeModel{Name: "p.Unknown"}}
	if got := AccessibleMethodsOf(unknown, index); len(got) != 0 {
		t.Errorf("unknown type has methods %v", methodNames(got))
	}
	primitive := java.Symbol{Name: "i", Type: java.TypeModel{Name: "int"}}
	if got := AccessibleMethodsOf(primitive, index); len(got) != 0 {
		t.Errorf("int has methods %v", methodNames(got))
	}
}

func TestMethodsAreSpecialized(t *testing.T) {
	index := stubIndex(t)
	list := java.Symbol{Name: "list", Type: java.TypeModel{
		Name:          "java.util.List",
		TypeArguments: []java.TypeArgumentModel{{Type: &java.TypeModel{Name: "java.lang.String"}}},
	}}
	got := map[string]string{}
	for _, m := range AccessibleMethodsOf(list, index) {
		got[m.Name] = m.Signature()
	}
	want := map[string]string{
		"size":     "size() : int",
		"add":      "add(java.lang.String) : boolean",
		"iterator": "iterator() : java.util.Iterator<java.lang.String>",
		"subList":  "subList(int, int) : java.util.List<java.lang.String>",
		"toArray":  "toArray(java.lang.Object[]) : java.lang.Object[]",
		"clear":    "clear() : void",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("signatures (-want +got):\n%s", diff)
	}
}

func TestDefaultValue(t *testing.T) {
	tests := map[string]string{
		"boolean": "false",
		"byte":    "0",
		"short":   "0",
		"int":     "0",
		"char":    `'\0'`,
		"long":    "0L",
		"float":   "0.0F",
		"double":  "0.0",
		"String":  "null",
	}
	for typ, want := range tests {
		if got := DefaultValue(java.TypeModel{Name: typ}); got != want {
			t.Errorf("DefaultValue(%s) = %q, want %q", typ, got, want)
		}
	}
	if got := DefaultValue(java.TypeModel{Name: "int", ArrayDepth: 1}); got != "null" {
		t.Errorf("DefaultValue(int[]) = %q", got)
	}
}

func TestChooseLocal(t *testing.T) {
	intType := java.TypeModel{Name: "int"}
	locals := []java.Symbol{
		{Name: "boxed", Type: java.TypeModel{Name: "java.lang.Integer"}},
		{Name: "count", Type: intType},
		{Name: "index", Type: intType},
		{Name: "small", Type: java.TypeModel{Name: "short"}},
		{Name: "text", Type: java.TypeModel{Name: "java.lang.String"}},
	}
	tests := []struct {
		name string
		to   java.TypeModel
		hint string
		want string
	}{
		{"exact beats boxing", intType, "", "count"},
		{"hint breaks ties", intType, "idx", "index"},
		{"closest hint wins", intType, "counter", "count"},
		{"exact wrapper", java.TypeModel{Name: "java.lang.Integer"}, "", "boxed"},
		{"widening", java.TypeModel{Name: "long"}, "", "boxed"},
		{"reference", java.TypeModel{Name: "java.lang.String"}, "", "text"},
		{"nothing fits", java.TypeModel{Name: "boolean"}, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ChooseLocal(nil, locals, tt.to, tt.hint)
			if tt.want == "" {
				if ok {
					t.Errorf("chose %s", got.Name)
				}
				return
			}
			require.True(t, ok)
			if got.Name != tt.want {
				t.Errorf("chose %s, want %s", got.Name, tt.want)
			}
		})
	}
}

func TestPropertyName(t *testing.T) {
	tests := map[string]string{
		"getBytes": "bytes",
		"isEmpty":  "empty",
		"getURL":   "URL",
		"getClass": "getClass",
		"get":      "get",
		"getup":    "up",
		"getX":     "x",
	}
	for method, want := range tests {
		if got := PropertyName(method); got != want {
			t.Errorf("PropertyName(%s) = %q, want %q", method, got, want)
		}
	}
}

func TestInvocationStatements(t *testing.T) {
	synth := &InvocationSynthesizer{
		Locals: []java.Symbol{{Name: "n", Type: java.TypeModel{Name: "int"}}},
		Names:  NewNameRegistry(),
	}
	recv := java.Symbol{Name: "s", Type: java.TypeModel{Name: "java.lang.String"}}

	call, err := synth.Invocation(recv, java.MethodModel{Name: "wait", ReturnType: java.TypeModel{Name: "void"}, Parameters: []java.ParameterModel{{Type: java.TypeModel{Name: "long"}}}})
	require.NoError(t, err)
	value, err := synth.Invocation(recv, java.MethodModel{Name: "charAt", ReturnType: java.TypeModel{Name: "char"}, Parameters: []java.ParameterModel{{Type: java.TypeModel{Name: "int"}}}})
	require.NoError(t, err)
	again, err := synth.Invocation(recv, java.MethodModel{Name: "charAt", ReturnType: java.TypeModel{Name: "char"}, Parameters: []java.ParameterModel{{Type: java.TypeModel{Name: "boolean"}}}})
	require.NoError(t, err)
	index, err := synth.Invocation(recv, java.MethodModel{Name: "indexOf", ReturnType: java.TypeModel{Name: "int"}, Parameters: []java.ParameterModel{{Type: java.TypeModel{Name: "char"}}}})
	require.NoError(t, err)
	setter := synth.SetterInvocation(recv, java.MethodModel{Name: "setLength", ReturnType: java.TypeModel{Name: "java.lang.StringBuilder"}, Parameters: []java.ParameterModel{{Type: java.TypeModel{Name: "java.lang.CharSequence"}}}})

	got := []string{format.Java(call), format.Java(value), format.Java(again), format.Java(index), format.Java(setter)}
	want := []string{
		"s.wait(n);",
		"char charAt = s.charAt(n);",
		"char charAt1 = s.charAt(false);",
		`int indexOf = s.indexOf('\0');`,
		"s.setLength(null);",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("statements (-want +got):\n%s", diff)
	}
}

func TestInvocationArgumentResolvesSimpleTypeNames(t *testing.T) {
	src := `import lib.Item;

class A {
    void f(Item item) {
    }
}
`
	f := parseFile(t, src)
	caret := offset(t, src, "item) {|")
	item := java.Symbol{Name: "item", Type: java.TypeModel{Name: "lib.Item"}, Kind: java.SymbolParameter}
	put := java.MethodModel{
		Name:       "put",
		ReturnType: java.TypeModel{Name: "void"},
		Parameters: []java.ParameterModel{{Name: "value", Type: java.TypeModel{Name: "Item"}}},
	}
	recv := java.Symbol{Name: "box", Type: java.TypeModel{Name: "lib.Box"}}

	tests := []struct {
		name    string
		resolve func(string) (java.TypeModel, bool)
		want    string
	}{
		{"resolved at the caret", func(text string) (java.TypeModel, bool) { return ResolveType(text, f, caret) }, "box.put(item);"},
		{"left unresolved", nil, "box.put(null);"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synth := &InvocationSynthesizer{
				Types:   java.NewTypeSystem(f.Index),
				Locals:  []java.Symbol{item},
				Names:   NewNameRegistry(),
				Resolve: tt.resolve,
			}
			stmt, err := synth.Invocation(recv, put)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, format.Java(stmt)); diff != "" {
				t.Errorf("statement (-want +got):\n%s", diff)
			}
		})
	}
}
