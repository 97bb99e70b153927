// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package inputs finds the AST repr dumps named on a command line.
package inputs

import (
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/spf13/afero"
)

var (
	// dumps found in directories have names like desugared-ast-repr.txt or main.ast-repr.txt.
	rxDumpFile = regexp.MustCompile(`(?i)ast-repr.*\.txt$`)
)

// IsDumpName reports whether a file name looks like an AST repr dump.
func IsDumpName(name string) bool {
	return rxDumpFile.MatchString(name)
}

// Collect expands the paths into a list of dump files. A file is always
// included. A directory is searched recursively for files whose names
// match IsDumpName. The result is sorted and has no repeats.
func Collect(fsys afero.Fs, paths []string, debug bool) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		fi, err := fsys.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if !fi.IsDir() {
			add(path)
			continue
		}
		err = afero.Walk(fsys, path, func(path string, fi fs.FileInfo, err error) error {
			if err != nil {
				return err
			} else if fi.IsDir() {
				return nil
			}
			if !IsDumpName(fi.Name()) {
				if debug {
					log.Printf("inputs: %q: does not match *ast-repr*.txt\n", path)
				}
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}
