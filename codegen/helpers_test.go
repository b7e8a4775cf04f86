package codegen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dhamidi/jgen/edit"
	"github.com/dhamidi/jgen/java"
)

// stubIndex loads the JDK look-alikes under testdata.
func stubIndex(t *testing.T) java.ClassList {
	t.Helper()
	paths, err := filepath.Glob(filepath.Join("testdata", "*.java"))
	require.NoError(t, err)
	var index java.ClassList
	for _, path := range paths {
		src, err := os.ReadFile(path)
		require.NoError(t, err)
		classes, err := java.ClassModelsFromSource(src)
		require.NoError(t, err)
		require.NotEmpty(t, classes, path)
		index = append(index, classes...)
	}
	return index
}

func parseFile(t *testing.T, src string) *File {
	t.Helper()
	doc, err := edit.ParseDocument("A.java", []byte(src))
	require.NoError(t, err)
	return &File{Document: doc, Index: stubIndex(t)}
}

// offset returns the position of marker in src. A "|" in marker marks the
// caret inside it.
func offset(t *testing.T, src, marker string) int {
	t.Helper()
	caret := strings.IndexByte(marker, '|')
	if caret < 0 {
		caret = 0
	} else {
		marker = marker[:caret] + marker[caret+1:]
	}
	i := strings.Index(src, marker)
	require.GreaterOrEqual(t, i, 0, "marker %q", marker)
	return i + caret
}
