package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/jgen/codegen"
	"github.com/dhamidi/jgen/config"
	"github.com/dhamidi/jgen/edit"
	"github.com/dhamidi/jgen/java/codebase"
)

var log = commonlog.GetLogger("jgen")

type globalOptions struct {
	verbose    int
	configPath string
}

// setup resolves the config for dir and configures logging from it.
func (g *globalOptions) setup(dir string) (*config.Config, error) {
	cfg, err := config.Resolve(g.configPath, dir)
	if err != nil {
		return nil, err
	}
	commonlog.Configure(cfg.Verbosity()+g.verbose, nil)
	if cfg.Path != "" {
		log.Debugf("using config %s", cfg.Path)
	}
	return cfg, nil
}

// workspace indexes the configured sources together with file and returns
// a snapshot of file.
func (g *globalOptions) workspace(file string) (*config.Config, *codegen.File, error) {
	path, err := filepath.Abs(file)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := g.setup(filepath.Dir(path))
	if err != nil {
		return nil, nil, err
	}
	cb := codebase.New(cfg.SourceRoots...)
	if err := cb.ScanAll(); err != nil {
		return nil, nil, err
	}
	for _, archive := range cfg.SourceArchives {
		if err := cb.ScanArchive(archive); err != nil {
			log.Warningf("skipping %s: %s", archive, err)
		}
	}
	if err := cb.ScanFile(path); err != nil {
		return nil, nil, err
	}
	f, err := cb.Snapshot(path)
	if err != nil {
		return nil, nil, err
	}
	return cfg, f, nil
}

// parseAt reads a caret given as a 0-based byte offset or as LINE:COL.
// LINE and COL count from one and COL counts bytes.
func parseAt(src []byte, at string) (int, error) {
	if at == "" {
		return 0, fmt.Errorf("--at is required")
	}
	lineText, colText, ok := strings.Cut(at, ":")
	if !ok {
		offset, err := strconv.Atoi(at)
		if err != nil || offset < 0 || offset > len(src) {
			return 0, fmt.Errorf("--at %q: not an offset into %d bytes", at, len(src))
		}
		return offset, nil
	}
	line, err1 := strconv.Atoi(lineText)
	col, err2 := strconv.Atoi(colText)
	if err1 != nil || err2 != nil || line < 1 || col < 1 {
		return 0, fmt.Errorf("--at %q: want LINE:COL", at)
	}
	offset := 0
	for l := 1; l < line; l++ {
		i := bytes.IndexByte(src[offset:], '\n')
		if i < 0 {
			return 0, fmt.Errorf("--at %q: file has %d lines", at, l)
		}
		offset += i + 1
	}
	end := len(src)
	if i := bytes.IndexByte(src[offset:], '\n'); i >= 0 {
		end = offset + i
	}
	if offset+col-1 > end {
		return 0, fmt.Errorf("--at %q: line %d has %d columns", at, line, end-offset+1)
	}
	return offset + col - 1, nil
}

type outputOptions struct {
	write bool
	diff  bool
}

func (o *outputOptions) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&o.write, "write", "w", false, "write the result to the file")
	cmd.Flags().BoolVar(&o.diff, "diff", false, "print a unified diff instead of the new content")
}

// emit prints or writes result. A nil result means the command had
// nothing to do.
func (o *outputOptions) emit(cmd *cobra.Command, result *edit.Result) error {
	if result == nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "nothing to generate")
		return nil
	}
	if o.write {
		info, err := os.Stat(result.Path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(result.Path, result.After, info.Mode().Perm()); err != nil {
			return err
		}
		log.Infof("wrote %s (transaction %s)", result.Path, result.ID)
	}
	switch {
	case o.diff:
		diff, err := result.Diff()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), diff)
	case !o.write:
		cmd.OutOrStdout().Write(result.After)
	}
	return nil
}
