package format

import (
	"strings"
	"testing"

	"github.com/dhamidi/jgen/java/parser"
)

func parseMember(t *testing.T, src string) *parser.Node {
	t.Helper()
	cu := parser.ParseCompilationUnit(strings.NewReader("class A {\n" + src + "\n}")).Finish()
	if cu == nil {
		t.Fatalf("no tree for %q", src)
	}
	class := cu.FirstChildOfKind(parser.KindClassDecl)
	body := class.FirstChildOfKind(parser.KindBlock)
	if body == nil || len(body.Children) == 0 {
		t.Fatalf("no member in %q:\n%s", src, cu)
	}
	return body.Children[0].ClearSpans()
}

func TestPrintMembers(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"field", "private static final int X = 1, Y;", "private static final int X = 1, Y;"},
		{"generic field", "java.util.Map<String, ? extends Number> m;", "java.util.Map<String, ? extends Number> m;"},
		{"array field", "protected byte[][] data = new byte[2][3];", "protected byte[][] data = new byte[2][3];"},
		{"annotated field", "@Deprecated transient String s = \"x\" + 1;", "@Deprecated transient String s = \"x\" + 1;"},
		{"abstract method", "abstract void close();", "abstract void close();"},
		{"empty body", "public void run() {}", "public void run() {\n}"},
		{
			"generic method",
			"public <T extends Comparable<T>> T max(final T a, T... rest) throws java.io.IOException, RuntimeException {}",
			"public <T extends Comparable<T>> T max(final T a, T... rest) throws java.io.IOException, RuntimeException {\n}",
		},
		{"constructor", "A(int a) { this.a = a; }", "A(int a) {\n    this.a = a;\n}"},
		{
			"statements",
			"int f(int a) { int b = a * 2; if (b > 3) { return b; } else return 0; }",
			"int f(int a) {\n    int b = a * 2;\n    if (b > 3) {\n        return b;\n    } else\n        return 0;\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Java(parseMember(t, tt.src)); got != tt.want {
				t.Errorf("Java() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestPrintExpressions(t *testing.T) {
	tests := []string{
		`s.substring(0, 1).trim()`,
		`new java.util.ArrayList<>()`,
		`new HashMap<String, Integer>(16)`,
		`x -> x + 1`,
		`(a, b) -> a.compareTo(b)`,
		`(int) d`,
		`a ? b : c`,
		`new int[] {1, 2}`,
		`String::valueOf`,
		`-n`,
		`i++`,
		`values[i]`,
		`this.count`,
		`String.class`,
		`(a + b) * c`,
		`o instanceof String`,
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			node := parser.ParseExpression(strings.NewReader(src)).Finish()
			if node == nil {
				t.Fatal("no tree")
			}
			if got := Java(node.ClearSpans()); got != strings.ReplaceAll(src, "[] {", "[]{") {
				t.Errorf("Java() = %q\n%s", got, node)
			}
		})
	}
}

func TestPrintIndentation(t *testing.T) {
	node := parser.ParseStatement(strings.NewReader(`Runnable r = () -> { go(); };`)).Finish()
	if node == nil {
		t.Fatal("no tree")
	}
	got := NewJavaPrinter("\t\t", "\t").Print(node.ClearSpans())
	want := "Runnable r = () -> {\n\t\t\tgo();\n\t\t};"
	if got != want {
		t.Errorf("Print() = %q, want %q", got, want)
	}
}

func TestPrintImport(t *testing.T) {
	for _, src := range []string{"import java.util.List;", "import static java.util.Collections.*;"} {
		cu := parser.ParseCompilationUnit(strings.NewReader(src)).Finish()
		imp := cu.FirstChildOfKind(parser.KindImportDecl)
		if imp == nil {
			t.Fatalf("no import in %q", src)
		}
		if got := Java(imp.ClearSpans()); got != src {
			t.Errorf("Java() = %q, want %q", got, src)
		}
	}
}
