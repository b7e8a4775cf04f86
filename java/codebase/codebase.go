// Package codebase keeps the parsed Java sources of a workspace and the
// class models derived from them, and serves generation commands over LSP.
package codebase

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/jgen/codegen"
	"github.com/dhamidi/jgen/edit"
	"github.com/dhamidi/jgen/java"
)

var log = commonlog.GetLogger("jgen.codebase")

// Codebase is safe for concurrent use. Readers get snapshots, so a scan
// running in the background never changes a tree a generation is using.
type Codebase struct {
	mu      sync.RWMutex
	roots   []string
	files   map[string]*FileInfo
	classes classIndex
}

type FileInfo struct {
	Path     string
	Document edit.Document
	Classes  []*java.ClassModel
	ParseErr error
}

// classIndex is an immutable name to model map. A new one is built after
// every change.
type classIndex map[string]*java.ClassModel

func (ix classIndex) FindClass(name string) *java.ClassModel {
	return ix[name]
}

func New(roots ...string) *Codebase {
	return &Codebase{
		roots:   roots,
		files:   make(map[string]*FileInfo),
		classes: classIndex{},
	}
}

func (c *Codebase) Roots() []string {
	return c.roots
}

// ScanAll parses every .java file below the roots. Directories whose name
// starts with a dot are skipped.
func (c *Codebase) ScanAll() error {
	var paths []string
	for _, root := range c.roots {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == ".java" {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			log.Warningf("scan %s: %s", path, err)
			continue
		}
		c.updateFileLocked(path, content)
	}
	c.rebuildClassesLocked()
	log.Infof("scanned %d files in %s, %d classes", len(paths), strings.Join(c.roots, ", "), len(c.classes))
	return nil
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.UpdateFile(path, content)
}

// UpdateFile replaces the content known for path, typically with the
// unsaved buffer of an editor.
func (c *Codebase) UpdateFile(path string, content []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.updateFileLocked(path, content)
	c.rebuildClassesLocked()
	return err
}

func (c *Codebase) updateFileLocked(path string, content []byte) error {
	doc, err := edit.ParseDocument(path, content)
	info := &FileInfo{Path: path, Document: doc, ParseErr: err}
	if err == nil {
		info.Classes = java.ClassModelsFromTree(doc.Root, c.classes)
	}
	c.files[path] = info
	return err
}

func (c *Codebase) rebuildClassesLocked() {
	var all []*java.ClassModel
	for _, f := range c.files {
		all = append(all, f.Classes...)
	}
	java.ResolveInnerClassReferences(all)
	index := make(classIndex, len(all))
	for _, cls := range all {
		index[cls.Name] = cls
	}
	c.classes = index
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.files[path]; !ok {
		return
	}
	delete(c.files, path)
	c.rebuildClassesLocked()
}

// RemoveDir forgets every file below dir.
func (c *Codebase) RemoveDir(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := filepath.Clean(dir) + string(filepath.Separator)
	removed := 0
	for path := range c.files {
		if strings.HasPrefix(path, prefix) {
			delete(c.files, path)
			removed++
		}
	}
	if removed > 0 {
		c.rebuildClassesLocked()
	}
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Paths lists the known files in lexical order.
func (c *Codebase) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func (c *Codebase) AllClasses() []*java.ClassModel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	all := make([]*java.ClassModel, 0, len(c.classes))
	for _, cls := range c.classes {
		all = append(all, cls)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

func (c *Codebase) FindClass(name string) *java.ClassModel {
	return c.Index().FindClass(name)
}

// Index returns the class index as it is now.
func (c *Codebase) Index() java.ClassIndex {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.classes
}

// Snapshot returns path and the class index at one point in time, ready
// for a generation command.
func (c *Codebase) Snapshot(path string) (*codegen.File, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info := c.files[path]
	if info == nil {
		return nil, fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}
	if info.ParseErr != nil {
		return nil, info.ParseErr
	}
	return &codegen.File{Document: info.Document, Index: c.classes}, nil
}

// ScanArchive indexes the .java entries of a source archive such as the
// JDK's src.zip, including archives nested one level deep. A plain .java
// path is scanned as a file.
func (c *Codebase) ScanArchive(path string) error {
	switch filepath.Ext(path) {
	case ".java":
		return c.ScanFile(path)
	case ".zip", ".jar":
	default:
		return fmt.Errorf("%s: not a source archive", path)
	}
	r, err := zip.OpenReader(path)
	if err != nil {
		return err
	}
	defer r.Close()

	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.scanZipLocked(&r.Reader, path)
	c.rebuildClassesLocked()
	log.Infof("scanned %d sources from %s", n, path)
	return nil
}

func (c *Codebase) scanZipLocked(r *zip.Reader, name string) int {
	n := 0
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		switch filepath.Ext(f.Name) {
		case ".java":
			content, err := readEntry(f)
			if err != nil {
				log.Warningf("%s!/%s: %s", name, f.Name, err)
				continue
			}
			c.updateFileLocked(name+"!/"+f.Name, content)
			n++
		case ".zip", ".jar":
			if strings.Contains(name, "!/") {
				continue
			}
			data, err := readEntry(f)
			if err != nil {
				log.Warningf("%s!/%s: %s", name, f.Name, err)
				continue
			}
			nested, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
			if err != nil {
				log.Warningf("%s!/%s: %s", name, f.Name, err)
				continue
			}
			n += c.scanZipLocked(nested, name+"!/"+f.Name)
		}
	}
	return n
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
