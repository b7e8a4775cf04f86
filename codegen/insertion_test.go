package codegen

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/jgen/java/parser"
)

// legacyInsertionIndex is the three-case rule the command originally
// used, kept as an oracle for the general rule away from sibling starts.
func legacyInsertionIndex(starts []int, caret int) int {
	switch size := len(starts); size {
	case 0:
		return 0
	case 1:
		if caret < starts[0] {
			return 0
		}
		return 1
	case 2:
		if caret < starts[0] {
			return 0
		} else if starts[1] < caret {
			return size
		}
		return 1
	default:
		for i := 1; i < size; i++ {
			prev, cur := starts[i-1], starts[i]
			if i < size-1 {
				if caret < prev {
					return i - 1
				} else if prev < caret && caret < cur {
					return i
				}
			} else {
				if caret < cur {
					return size - 1
				}
				return size
			}
		}
	}
	return -1
}

func TestComputeInsertionIndex(t *testing.T) {
	starts := []int{10, 20, 30}
	tests := []struct {
		caret int
		want  int
	}{
		{0, 0},
		{9, 0},
		{10, 1},
		{15, 1},
		{20, 2},
		{29, 2},
		{30, 3},
		{100, 3},
	}
	for _, tt := range tests {
		if got := ComputeInsertionIndex(starts, tt.caret); got != tt.want {
			t.Errorf("ComputeInsertionIndex(%v, %d) = %d, want %d", starts, tt.caret, got, tt.want)
		}
	}
	if got := ComputeInsertionIndex(nil, 5); got != 0 {
		t.Errorf("no siblings: %d", got)
	}
}

// On a sibling start the legacy rule skips ahead for three or more
// siblings, which is why starts are left out here.
func TestInsertionIndexMatchesLegacyRule(t *testing.T) {
	for n := 0; n <= 5; n++ {
		var starts []int
		for i := 0; i < n; i++ {
			starts = append(starts, 10*(i+1))
		}
		for caret := 0; caret <= 10*(n+1); caret++ {
			if caret%10 == 0 && caret > 0 && caret <= 10*n {
				continue
			}
			got := ComputeInsertionIndex(starts, caret)
			want := legacyInsertionIndex(starts, caret)
			if got != want {
				t.Errorf("n=%d caret=%d: got %d, legacy %d", n, caret, got, want)
			}
		}
	}
}

func TestInsertionIndexIsMonotonic(t *testing.T) {
	starts := []int{3, 8, 8, 20}
	last := 0
	for caret := 0; caret < 30; caret++ {
		got := ComputeInsertionIndex(starts, caret)
		if got < last || got > len(starts) {
			t.Fatalf("caret %d: index %d after %d", caret, got, last)
		}
		last = got
	}
}

func TestSiblingStarts(t *testing.T) {
	src := "class A {\n    int a;\n    int b;\n}"
	f := parseFile(t, src)
	target, err := ResolveEnclosingScope(f.Root, strings.Index(src, "int b"), ScopeClass)
	if err != nil {
		t.Fatal(err)
	}
	body := target.Container.Clone()
	body.InsertChild(1, &parser.Node{Kind: parser.KindFieldDecl})
	got := SiblingStarts(body.Children)
	want := []int{strings.Index(src, "int a"), strings.Index(src, "int a"), strings.Index(src, "int b")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("starts (-want +got):\n%s", diff)
	}
}
