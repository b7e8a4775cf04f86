package edit

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/jgen/java/parser"
)

func parse(t *testing.T, src string) Document {
	t.Helper()
	doc, err := ParseDocument("A.java", []byte(src))
	require.NoError(t, err)
	return doc
}

func statement(t *testing.T, src string) *parser.Node {
	t.Helper()
	node := parser.ParseStatement(strings.NewReader(src)).Finish()
	require.NotNil(t, node, src)
	return node.ClearSpans()
}

func methodBody(t *testing.T, doc Document) *parser.Node {
	t.Helper()
	class := doc.Root.FirstChildOfKind(parser.KindClassDecl)
	require.NotNil(t, class)
	method := class.FirstChildOfKind(parser.KindBlock).FirstChildOfKind(parser.KindMethodDecl)
	require.NotNil(t, method)
	return method.FirstChildOfKind(parser.KindBlock)
}

func without(node *parser.Node, drop *parser.Node) *parser.Node {
	updated := node.Clone()
	updated.Children = nil
	for _, c := range node.Children {
		if c != drop {
			updated.Children = append(updated.Children, c)
		}
	}
	return updated
}

func TestRunInsertsStatements(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		index int
		want  string
	}{
		{
			"empty block",
			"class A {\n    void f() {\n    }\n}\n",
			0,
			"class A {\n    void f() {\n        g();\n        h(1);\n    }\n}\n",
		},
		{
			"after sibling",
			"class A {\n    void f() {\n      a();\n    }\n}\n",
			1,
			"class A {\n    void f() {\n      a();\n      g();\n      h(1);\n    }\n}\n",
		},
		{
			"before sibling",
			"class A {\n    void f() {\n        a();\n    }\n}\n",
			0,
			"class A {\n    void f() {\n        g();\n        h(1);\n        a();\n    }\n}\n",
		},
		{
			"after trailing comment",
			"class A {\n    void f() {\n        foo(); // note\n    }\n}\n",
			1,
			"class A {\n    void f() {\n        foo(); // note\n        g();\n        h(1);\n    }\n}\n",
		},
		{
			"after trailing blanks",
			"class A {\n    void f() {\n        foo();  \n        bar();\n    }\n}\n",
			1,
			"class A {\n    void f() {\n        foo();  \n        g();\n        h(1);\n        bar();\n    }\n}\n",
		},
		{
			"one line block",
			"class A {\n    void f() {}\n}\n",
			0,
			"class A {\n    void f() {\n        g();\n        h(1);\n    }\n}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, tt.src)
			body := methodBody(t, doc)
			updated := body.Clone()
			updated.InsertChild(tt.index, statement(t, "g();"))
			updated.InsertChild(tt.index+1, statement(t, "h(1);"))

			result, err := Run(context.Background(), doc, func(wc *WorkingCopy) error {
				return wc.Rewrite(body, updated)
			})
			require.NoError(t, err)
			require.NotNil(t, result)
			if diff := cmp.Diff(tt.want, string(result.After)); diff != "" {
				t.Errorf("After (-want +got):\n%s", diff)
			}
			require.Equal(t, tt.src, string(result.Before))
			require.NotNil(t, result.Root)
		})
	}
}

func TestRunUsesIndentUnit(t *testing.T) {
	doc := parse(t, "class A {\n\tvoid f() {\n\t}\n}\n")
	body := methodBody(t, doc)
	updated := body.Clone()
	updated.InsertChild(0, statement(t, "if (x) { g(); }"))
	result, err := Run(context.Background(), doc, func(wc *WorkingCopy) error {
		wc.Indent = "\t"
		return wc.Rewrite(body, updated)
	})
	require.NoError(t, err)
	want := "class A {\n\tvoid f() {\n\t\tif (x) {\n\t\t\tg();\n\t\t}\n\t}\n}\n"
	if diff := cmp.Diff(want, string(result.After)); diff != "" {
		t.Errorf("After (-want +got):\n%s", diff)
	}
}

func TestRunDeletesLines(t *testing.T) {
	doc := parse(t, "class A {\n    void f() {\n        a();\n        b(); c();\n    }\n}\n")
	body := methodBody(t, doc)
	stmts := body.Children
	require.Len(t, stmts, 3)

	result, err := Run(context.Background(), doc, func(wc *WorkingCopy) error {
		return wc.Rewrite(body, without(without(body, stmts[0]), stmts[2]))
	})
	require.NoError(t, err)
	want := "class A {\n    void f() {\n        b(); \n    }\n}\n"
	if diff := cmp.Diff(want, string(result.After)); diff != "" {
		t.Errorf("After (-want +got):\n%s", diff)
	}
}

func TestRunAbortsTransactions(t *testing.T) {
	src := "class A {\n    int a;\n    void f() {\n        a();\n        b();\n    }\n}\n"
	sentinel := errors.New("stop")

	tests := []struct {
		name   string
		mutate func(doc Document) func(*WorkingCopy) error
		want   error
	}{
		{
			"mutator error",
			func(Document) func(*WorkingCopy) error {
				return func(*WorkingCopy) error { return sentinel }
			},
			sentinel,
		},
		{
			"synthesized node",
			func(Document) func(*WorkingCopy) error {
				return func(wc *WorkingCopy) error {
					return wc.Rewrite(&parser.Node{Kind: parser.KindBlock}, &parser.Node{Kind: parser.KindBlock})
				}
			},
			ErrTransaction,
		},
		{
			"reordered children",
			func(doc Document) func(*WorkingCopy) error {
				return func(wc *WorkingCopy) error {
					body := methodBody(t, doc)
					updated := body.Clone()
					updated.Children = []*parser.Node{body.Children[1], body.Children[0]}
					return wc.Rewrite(body, updated)
				}
			},
			ErrTransaction,
		},
		{
			"overlapping edits",
			func(doc Document) func(*WorkingCopy) error {
				return func(wc *WorkingCopy) error {
					body := methodBody(t, doc)
					updated := body.Clone()
					updated.InsertChild(1, statement(t, "g();"))
					if err := wc.Rewrite(body, updated); err != nil {
						return err
					}
					class := doc.Root.FirstChildOfKind(parser.KindClassDecl)
					return wc.Rewrite(doc.Root, without(doc.Root, class))
				}
			},
			ErrTransaction,
		},
		{
			"result with syntax errors",
			func(doc Document) func(*WorkingCopy) error {
				return func(wc *WorkingCopy) error {
					class := doc.Root.FirstChildOfKind(parser.KindClassDecl)
					members := class.FirstChildOfKind(parser.KindBlock)
					updated := members.Clone()
					updated.InsertChild(0, statement(t, "return;"))
					return wc.Rewrite(members, updated)
				}
			},
			ErrTransaction,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, src)
			result, err := Run(context.Background(), doc, tt.mutate(doc))
			require.ErrorIs(t, err, tt.want)
			require.Nil(t, result)
		})
	}
}

func TestRunWithoutRewrites(t *testing.T) {
	doc := parse(t, "class A {}\n")
	result, err := Run(context.Background(), doc, func(*WorkingCopy) error { return nil })
	require.NoError(t, err)
	require.Nil(t, result)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	_, err = Run(ctx, doc, func(*WorkingCopy) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, called)
}

func TestRewriteKeepsLastUpdate(t *testing.T) {
	doc := parse(t, "class A {\n    void f() {\n    }\n}\n")
	body := methodBody(t, doc)
	first := body.Clone()
	first.InsertChild(0, statement(t, "a();"))
	second := body.Clone()
	second.InsertChild(0, statement(t, "b();"))

	result, err := Run(context.Background(), doc, func(wc *WorkingCopy) error {
		if err := wc.Rewrite(body, first); err != nil {
			return err
		}
		return wc.Rewrite(body, second)
	})
	require.NoError(t, err)
	require.Len(t, result.Edits, 1)
	require.Contains(t, string(result.After), "b();")
	require.NotContains(t, string(result.After), "a();")
}

func TestApply(t *testing.T) {
	tests := []struct {
		src   string
		edits []Edit
		want  string
	}{
		{"abc", nil, "abc"},
		{"abc", []Edit{{Offset: 0, Text: ">"}}, ">abc"},
		{"abc", []Edit{{Offset: 1, Length: 1, Text: "B"}}, "aBc"},
		{"abc", []Edit{{Offset: 0, Length: 1}, {Offset: 3, Text: "d"}}, "bcd"},
	}
	for _, tt := range tests {
		if got := string(Apply([]byte(tt.src), tt.edits)); got != tt.want {
			t.Errorf("Apply(%q, %v) = %q, want %q", tt.src, tt.edits, got, tt.want)
		}
	}
}

func TestResultDiff(t *testing.T) {
	doc := parse(t, "class A {\n    void f() {\n    }\n}\n")
	body := methodBody(t, doc)
	updated := body.Clone()
	updated.InsertChild(0, statement(t, "g();"))
	result, err := Run(context.Background(), doc, func(wc *WorkingCopy) error {
		return wc.Rewrite(body, updated)
	})
	require.NoError(t, err)

	diff, err := result.Diff()
	require.NoError(t, err)
	require.Contains(t, diff, "--- a/A.java")
	require.Contains(t, diff, "+++ b/A.java")
	require.Contains(t, diff, "+        g();\n")

	next := result.Document()
	require.Equal(t, result.After, next.Source)
	require.Equal(t, "A.java", next.Path)
}
