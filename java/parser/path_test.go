package parser

import (
	"strings"
	"testing"
)

const pathSource = `class Outer {
    int count;
    static { init(); }
    void run() {
        String s = "x";
        Runnable r = new Runnable() {
            public void run() {}
        };
    }
}`

func offsetOf(t *testing.T, src, marker string) int {
	t.Helper()
	i := strings.Index(src, marker)
	if i < 0 {
		t.Fatalf("marker %q not found", marker)
	}
	return i
}

func TestPathAtDescends(t *testing.T) {
	root := parseUnit(t, pathSource)
	path := PathAt(root, offsetOf(t, pathSource, `"x"`))

	if path[0] != root {
		t.Fatal("path must start at the root")
	}
	var kinds []string
	for _, n := range path {
		kinds = append(kinds, n.Kind.String())
	}
	got := strings.Join(kinds, " > ")
	want := "CompilationUnit > ClassDecl > Block > MethodDecl > Block > LocalVarDecl > Literal"
	if got != want {
		t.Errorf("path = %s\nwant   %s", got, want)
	}
}

func TestPathAtOutsideRoot(t *testing.T) {
	root := parseUnit(t, "class A {}")
	path := PathAt(root, 500)
	if len(path) != 1 || path[0] != root {
		t.Errorf("expected only the root, got %d nodes", len(path))
	}
}

func TestPathBlockClassification(t *testing.T) {
	root := parseUnit(t, pathSource)

	tests := []struct {
		name      string
		marker    string
		statement bool
	}{
		{"class body", "int count", false},
		{"static initializer body", "init()", true},
		{"method body", `String s`, true},
		{"anonymous class body", "public void run() {}", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := PathAt(root, offsetOf(t, pathSource, tt.marker))
			i := path.Nearest(func(p Path, i int) bool { return p[i].Kind == KindBlock })
			if i < 0 {
				t.Fatal("no block on path")
			}
			if got := path.IsStatementBlock(i); got != tt.statement {
				t.Errorf("IsStatementBlock = %v, want %v", got, tt.statement)
			}
			if got := path.IsTypeBody(i); got == tt.statement && tt.name != "static initializer body" {
				t.Errorf("IsTypeBody = %v, want %v", got, !tt.statement)
			}
		})
	}
}

func TestPathNearestKind(t *testing.T) {
	root := parseUnit(t, pathSource)
	path := PathAt(root, offsetOf(t, pathSource, `"x"`))

	if m := path.NearestKind(KindMethodDecl); m == nil || m.Name() != "run" {
		t.Errorf("NearestKind(MethodDecl) = %v", m)
	}
	if c := path.NearestKind(KindInterfaceDecl); c != nil {
		t.Errorf("NearestKind(InterfaceDecl) = %v, want nil", c.Kind)
	}
	if got := path.Leaf().Kind; got != KindLiteral {
		t.Errorf("Leaf = %s", got)
	}
}

func TestPathTo(t *testing.T) {
	root := parseUnit(t, pathSource)
	class := root.FirstChildOfKind(KindClassDecl)
	field := class.FirstChildOfKind(KindBlock).FirstChildOfKind(KindFieldDecl)

	path := PathTo(root, field)
	if len(path) != 4 || path.Leaf() != field || path.Parent(3) != class.FirstChildOfKind(KindBlock) {
		t.Errorf("unexpected path of length %d", len(path))
	}
	if PathTo(root, &Node{}) != nil {
		t.Error("PathTo of a foreign node must be nil")
	}
}
