package java

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const scopeSource = `package demo;

import java.util.List;

class Shop extends Base {
    private int count;
    static String label;

    void sell(final String item, List<String> tags) {
        int total = 0;
        var name = "n";
        for (String tag : tags) {
            // loop
        }
        try (Reader in = open()) {
            // resource
        } catch (java.io.IOException e) {
            // catch
        }
        Runnable r = () -> {
            // lambda
        };
        // after
        long late = 1L;
    }
}
`

func symbolNames(symbols []Symbol) []string {
	var names []string
	for _, s := range symbols {
		names = append(names, s.Name)
	}
	return names
}

func at(t *testing.T, marker string) int {
	t.Helper()
	i := strings.Index(scopeSource, marker)
	require.GreaterOrEqual(t, i, 0, "marker %q", marker)
	return i
}

func TestVisibleSymbols(t *testing.T) {
	root := parseCU(t, scopeSource)
	index := ClassList{
		{Name: "demo.Shop", SuperClass: "demo.Base"},
		{Name: "demo.Base", Fields: []FieldModel{
			{Name: "inherited", Type: TypeModel{Name: "int"}, Visibility: VisibilityProtected},
			{Name: "hidden", Type: TypeModel{Name: "int"}, Visibility: VisibilityPrivate},
			{Name: "count", Type: TypeModel{Name: "long"}, Visibility: VisibilityPublic},
		}},
	}

	tests := []struct {
		marker string
		want   []string
	}{
		{"// loop", []string{"count", "inherited", "item", "label", "name", "tag", "tags", "total"}},
		{"// resource", []string{"count", "in", "inherited", "item", "label", "name", "tags", "total"}},
		{"// catch", []string{"count", "e", "inherited", "item", "label", "name", "tags", "total"}},
		{"// lambda", []string{"count", "inherited", "item", "label", "name", "tags", "total"}},
		{"// after", []string{"count", "inherited", "item", "label", "name", "r", "tags", "total"}},
	}

	for _, tt := range tests {
		t.Run(tt.marker, func(t *testing.T) {
			got := symbolNames(VisibleSymbols(root, at(t, tt.marker), index))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("symbols (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVisibleSymbolTypes(t *testing.T) {
	root := parseCU(t, scopeSource)
	symbols := map[string]Symbol{}
	for _, s := range VisibleSymbols(root, at(t, "// after"), nil) {
		symbols[s.Name] = s
	}

	tests := []struct {
		name string
		typ  string
		kind SymbolKind
	}{
		{"count", "int", SymbolField},
		{"label", "java.lang.String", SymbolField},
		{"item", "java.lang.String", SymbolParameter},
		{"tags", "java.util.List<java.lang.String>", SymbolParameter},
		{"total", "int", SymbolLocal},
		{"name", "java.lang.String", SymbolLocal},
		{"r", "java.lang.Runnable", SymbolLocal},
	}
	for _, tt := range tests {
		s, ok := symbols[tt.name]
		if !ok {
			t.Errorf("%s not visible", tt.name)
			continue
		}
		if s.Type.String() != tt.typ || s.Kind != tt.kind {
			t.Errorf("%s = %s %s, want %s %s", tt.name, s.Kind, s.Type, tt.kind, tt.typ)
		}
	}
	if !symbols["label"].Static || symbols["count"].Static {
		t.Error("static flags are wrong")
	}
}

func TestVisibleSymbolsShadowing(t *testing.T) {
	src := `class A {
    String x;
    void f(int x) {
        // here
    }
}`
	root := parseCU(t, src)
	symbols := VisibleSymbols(root, strings.Index(src, "// here"), nil)
	require.Len(t, symbols, 1)
	if symbols[0].Kind != SymbolParameter || symbols[0].Type.Name != "int" {
		t.Errorf("x = %+v", symbols[0])
	}
}

func TestVisibleSymbolsStaticContext(t *testing.T) {
	src := `class A {
    int x;
    static int y;

    static void f(String s) {
        // static method
    }

    void g() {
        // instance method
    }

    static {
        // static initializer
    }

    static class Nested {
        int z;
        void h() {
            // static nested
        }
    }

    class Inner {
        void i() {
            // inner
        }
    }

    enum E {
        ONE;
        void j() {
            // enum
        }
    }
}
`
	root := parseCU(t, src)

	tests := []struct {
		marker string
		want   []string
	}{
		{"// static method", []string{"s", "y"}},
		{"// instance method", []string{"x", "y"}},
		{"// static initializer", []string{"y"}},
		{"// static nested", []string{"y", "z"}},
		{"// inner", []string{"x", "y"}},
		{"// enum", []string{"ONE", "y"}},
	}
	for _, tt := range tests {
		t.Run(tt.marker, func(t *testing.T) {
			i := strings.Index(src, tt.marker)
			require.GreaterOrEqual(t, i, 0)
			got := symbolNames(VisibleSymbols(root, i, nil))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("symbols (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSymbolAt(t *testing.T) {
	src := `class A {
    int field;
    void f(String text) {
        String s = text;
        s.length();
        List<String> list = null;
    }
}`
	root := parseCU(t, src)

	tests := []struct {
		name   string
		offset int
		want   string
		typ    string
	}{
		{"declaration", strings.Index(src, "s = text"), "s", "java.lang.String"},
		{"reference in initializer", strings.Index(src, "text;"), "text", "java.lang.String"},
		{"receiver", strings.Index(src, "s.length"), "s", "java.lang.String"},
		{"parameter declaration", strings.Index(src, "text)"), "text", "java.lang.String"},
		{"field declaration", strings.Index(src, "field;"), "field", "int"},
		{"method name", strings.Index(src, "length"), "", ""},
		{"type name", strings.Index(src, "List<"), "", ""},
		{"keyword", strings.Index(src, "null"), "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := SymbolAt(root, tt.offset, nil)
			if tt.want == "" {
				if ok {
					t.Errorf("unexpected symbol %+v", s)
				}
				return
			}
			require.True(t, ok, "no symbol")
			if s.Name != tt.want || s.Type.String() != tt.typ {
				t.Errorf("SymbolAt = %s %s, want %s %s", s.Type, s.Name, tt.typ, tt.want)
			}
		})
	}
}

func TestVarInferenceFromCall(t *testing.T) {
	src := `package p;
class A {
    void f() {
        var u = java.net.URI.create("x");
        var b = u.toString();
        // here
    }
}`
	root := parseCU(t, src)
	index := ClassList{
		{Name: "java.net.URI", Methods: []MethodModel{{Name: "create", IsStatic: true, ReturnType: TypeModel{Name: "java.net.URI"}}, {Name: "toString", ReturnType: TypeModel{Name: "java.lang.String"}}}},
	}
	symbols := map[string]Symbol{}
	for _, s := range VisibleSymbols(root, strings.Index(src, "// here"), index) {
		symbols[s.Name] = s
	}
	if got := symbols["u"].Type.Name; got != "java.net.URI" {
		t.Errorf("u = %q", got)
	}
	if got := symbols["b"].Type.Name; got != "java.lang.String" {
		t.Errorf("b = %q", got)
	}
}
