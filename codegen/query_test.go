package codegen

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestDeclaredNames(t *testing.T) {
	src := `import java.util.List;

class A {
    void f(List<String> tags) {
        int q = 1;
        for (String tag : tags) {
            int inner = tag.length();
        }
        try {
            q++;
        } catch (RuntimeException e) {
        }
        Runnable r = () -> {
            long hidden = 0L;
        };
        java.util.function.Function<String, String> g = s -> s;
        Object o = new Object() {
            int field;
        };
        int length = q;
    }
}
`
	f := parseFile(t, src)
	target, err := ResolveEnclosingScope(f.Root, offset(t, src, "int q = 1;|"), ScopeBlock)
	require.NoError(t, err)
	want := []string{"q", "tag", "inner", "e", "r", "hidden", "g", "s", "o", "length"}
	if diff := cmp.Diff(want, DeclaredNames(target.Container)); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
}
