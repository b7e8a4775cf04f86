package codebase

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func classNames(c *Codebase) []string {
	var names []string
	for _, cls := range c.AllClasses() {
		names = append(names, cls.Name)
	}
	return names
}

func TestScanAll(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "shop", "Shop.java"), "package shop;\nclass Shop { static class Item {} }\n")
	writeFile(t, filepath.Join(root, "src", "shop", "Cart.java"), "package shop;\nclass Cart { Item item; }\n")
	writeFile(t, filepath.Join(root, ".git", "Ignored.java"), "class Ignored {}\n")
	writeFile(t, filepath.Join(root, "README.md"), "# shop\n")

	c := New(root)
	require.NoError(t, c.ScanAll())

	if diff := cmp.Diff([]string{"shop.Cart", "shop.Shop", "shop.Shop.Item"}, classNames(c)); diff != "" {
		t.Errorf("classes (-want +got):\n%s", diff)
	}
	cart := c.FindClass("shop.Cart")
	require.NotNil(t, cart)
	require.Len(t, cart.Fields, 1)
	require.Equal(t, "shop.Shop.Item", cart.Fields[0].Type.Name)
	require.Len(t, c.Paths(), 2)
}

func TestUpdateAndRemove(t *testing.T) {
	c := New()
	require.NoError(t, c.UpdateFile("/w/a/A.java", []byte("package a;\nclass A {}\n")))
	require.NoError(t, c.UpdateFile("/w/b/B.java", []byte("package b;\nclass B {}\n")))
	require.NotNil(t, c.FindClass("a.A"))

	require.NoError(t, c.UpdateFile("/w/a/A.java", []byte("package a;\nclass Renamed {}\n")))
	require.Nil(t, c.FindClass("a.A"))
	require.NotNil(t, c.FindClass("a.Renamed"))

	c.RemoveDir("/w/a")
	require.Nil(t, c.FindClass("a.Renamed"))
	require.NotNil(t, c.FindClass("b.B"))

	c.RemoveFile("/w/b/B.java")
	require.Empty(t, c.AllClasses())
}

func TestSnapshot(t *testing.T) {
	c := New()
	require.NoError(t, c.UpdateFile("A.java", []byte("class A { B b; }\n")))
	require.NoError(t, c.UpdateFile("B.java", []byte("class B {}\n")))

	f, err := c.Snapshot("A.java")
	require.NoError(t, err)
	require.Equal(t, "A.java", f.Path)
	require.NotNil(t, f.Root)
	require.NotNil(t, f.Index.FindClass("B"))

	// a snapshot keeps the index it was taken with
	c.RemoveFile("B.java")
	require.NotNil(t, f.Index.FindClass("B"))
	require.Nil(t, c.FindClass("B"))

	_, err = c.Snapshot("missing.java")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestScanArchive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "src.zip")
	out, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(out)
	entries := map[string]string{
		"java.base/java/lang/String.java": "package java.lang;\npublic final class String { public int length() { return 0; } }\n",
		"java.base/java/util/List.java":   "package java.util;\npublic interface List<E> { int size(); }\n",
		"java.base/README":                "not java",
	}
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())

	c := New()
	require.NoError(t, c.ScanArchive(path))
	if diff := cmp.Diff([]string{"java.lang.String", "java.util.List"}, classNames(c)); diff != "" {
		t.Errorf("classes (-want +got):\n%s", diff)
	}
	require.NotNil(t, c.GetFile(path+"!/java.base/java/lang/String.java"))

	require.Error(t, c.ScanArchive(filepath.Join(dir, "notes.txt")))
}
