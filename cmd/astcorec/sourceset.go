package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lattice-lang/astcore/internal/config"
)

// collectSourceTree walks dir and returns every recognized source file
// (per config.SourceFileExtensions) as a map from slash-normalized path
// relative to dir to file content. A lone source file is accepted in
// place of a directory.
func collectSourceTree(dir string) (map[string]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot stat %s: %w", dir, err)
	}

	sources := make(map[string]string)
	if !info.IsDir() {
		if !config.HasSourceExt(dir) {
			return nil, fmt.Errorf("%s is neither a directory nor a recognized source file", dir)
		}
		data, err := os.ReadFile(dir)
		if err != nil {
			return nil, err
		}
		sources[filepath.Base(dir)] = string(data)
		return sources, nil
	}

	err = filepath.Walk(dir, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() || !config.HasSourceExt(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", path, err)
		}
		sources[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sources, nil
}

// tokenStreamPath derives the path to the external tokenizer's output for
// a source file: the same relative path under tokensDir, with its source
// extension replaced by ".toks.json".
func tokenStreamPath(tokensDir, relSourcePath string) string {
	ext := filepath.Ext(relSourcePath)
	base := strings.TrimSuffix(relSourcePath, ext)
	return filepath.Join(tokensDir, filepath.FromSlash(base)+".toks.json")
}
