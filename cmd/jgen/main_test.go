package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/jgen/codegen"
)

func TestParseAt(t *testing.T) {
	src := []byte("class A {\n    int a;\n}\n")
	tests := []struct {
		at   string
		want int
		ok   bool
	}{
		{"0", 0, true},
		{"14", 14, true},
		{"1:1", 0, true},
		{"2:5", 14, true},
		{"2:11", 20, true},
		{"3:2", 22, true},
		{"", 0, false},
		{"99", 0, false},
		{"2:40", 0, false},
		{"9:1", 0, false},
		{"0:1", 0, false},
		{"1:0", 0, false},
		{"-1", 0, false},
		{"a:b", 0, false},
	}
	for _, tt := range tests {
		got, err := parseAt(src, tt.at)
		if !tt.ok {
			if err == nil {
				t.Errorf("parseAt(%q) = %d, want an error", tt.at, got)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("parseAt(%q) = %d, %v, want %d", tt.at, got, err, tt.want)
		}
	}
}

func TestParseParameters(t *testing.T) {
	got, err := parseParameters([]string{"int", "final String name", "Map<String, Integer> counts", "int", "URI"})
	require.NoError(t, err)
	want := []codegen.ParameterSpec{
		{Type: "int", Name: "i"},
		{Final: true, Type: "String", Name: "name"},
		{Type: "Map<String, Integer>", Name: "counts"},
		{Type: "int", Name: "i1"},
		{Type: "URI", Name: "uri"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parameters (-want +got):\n%s", diff)
	}

	_, err = parseParameters([]string{"final "})
	require.ErrorIs(t, err, codegen.ErrInvalidSpecification)
}

func TestParseTypeParameter(t *testing.T) {
	tests := map[string]codegen.TypeParameterSpec{
		"T":                       {Name: "T"},
		"T extends Comparable<T>": {Name: "T", Bound: "Comparable<T>"},
		" K extends A & B ":       {Name: "K", Bound: "A & B"},
	}
	for text, want := range tests {
		if got := parseTypeParameter(text); got != want {
			t.Errorf("parseTypeParameter(%q) = %+v, want %+v", text, got, want)
		}
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("JAVA_SRC", "")
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func javaFile(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "A.java")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestFieldsCommand(t *testing.T) {
	path := javaFile(t, "class A {\n    int a;\n}\n")
	out, err := execute(t, "", "fields", path, "--at", "2:11", "--access", "private", "--final", "--type", "String", "--name", "label", "--value", `"x"`)
	require.NoError(t, err)
	require.Equal(t, "class A {\n    int a;\n    private final String label = \"x\";\n}\n", out)

	_, err = execute(t, "", "fields", path, "--at", "2:11", "--type", "List<", "--name", "bad")
	require.ErrorIs(t, err, codegen.ErrInvalidSpecification)
}

func TestMethodCommandWritesFile(t *testing.T) {
	path := javaFile(t, "interface Shape {\n}\n")
	_, err := execute(t, "", "method", path, "--at", "1:17", "-w", "--type", "double", "--name", "area", "--param", "int")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "interface Shape {\n    double area(int i);\n}\n", string(data))
}

func TestMethodCommandSpecFile(t *testing.T) {
	path := javaFile(t, "class A {\n}\n")
	spec := filepath.Join(filepath.Dir(path), "method.yaml")
	require.NoError(t, os.WriteFile(spec, []byte(`
access: public
static: true
return_type: "<T> T"
name: first
`), 0o644))
	_, err := execute(t, "", "method", path, "--at", "1:10", "--spec", spec)
	require.ErrorIs(t, err, codegen.ErrInvalidSpecification)

	require.NoError(t, os.WriteFile(spec, []byte(`
access: public
static: true
return_type: T
name: first
type_parameters:
  - name: T
parameters:
  - type: java.util.List<T>
    name: items
`), 0o644))
	out, err := execute(t, "", "method", path, "--at", "1:10", "--spec", spec)
	require.NoError(t, err)
	require.Equal(t, "class A {\n    public static <T> T first(java.util.List<T> items) {\n    }\n}\n", out)
}

func TestImportCommand(t *testing.T) {
	path := javaFile(t, "package p;\n\nclass A {\n}\n")
	out, err := execute(t, "", "import", path, "java.util.List", "--diff")
	require.NoError(t, err)
	require.Contains(t, out, "+import java.util.List;\n")

	out, err = execute(t, "", "import", path, "java.lang.String")
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestInvokeCommandAsks(t *testing.T) {
	path := javaFile(t, "class A {\n    void f(Task task) {\n    }\n}\n")
	dir := filepath.Dir(path)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Task.java"), []byte("interface Task { void run(); }\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".jgen.yaml"), []byte("source_roots: [.]\n"), 0o644))

	out, err := execute(t, "1\n", "invoke", path, "--at", "2:24")
	require.NoError(t, err)
	require.Equal(t, "class A {\n    void f(Task task) {\n        task.run();\n    }\n}\n", out)

	out, err = execute(t, "", "invoke", path, "--at", "2:24")
	require.NoError(t, err)
	require.Empty(t, out)

	_, err = execute(t, "", "invoke", path, "--at", "2:24", "--symbol", "nothing")
	require.Error(t, err)
}

func TestSymbolsCommand(t *testing.T) {
	path := javaFile(t, "class A {\n    int a;\n    void f(String s) {\n        long n = 1L;\n    }\n}\n")
	out, err := execute(t, "", "symbols", path, "--at", "5:1")
	require.NoError(t, err)
	want := "field\tint\ta\nlocal\tlong\tn\nparameter\tjava.lang.String\ts\n"
	require.Equal(t, want, out)
}

func TestParseCommandComments(t *testing.T) {
	path := javaFile(t, "// header\nclass A {}\n")

	out, err := execute(t, "", "parse", path, "--comments")
	require.NoError(t, err)
	var doc struct {
		Tree struct {
			Kind string `json:"kind"`
		} `json:"tree"`
		Comments []struct {
			Text string `json:"text"`
		} `json:"comments"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Equal(t, "CompilationUnit", doc.Tree.Kind)
	require.Len(t, doc.Comments, 1)
	require.Equal(t, "// header", doc.Comments[0].Text)

	out, err = execute(t, "", "parse", path, "--format", "tree")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "CompilationUnit [2:1-"), out)
	require.NotContains(t, out, "// header")
}
