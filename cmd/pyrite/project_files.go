package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// collectSourceFiles expands the command line arguments into a sorted,
// deduplicated list of source files. Directory arguments are walked
// recursively; plain file arguments are taken as-is regardless of extension.
func collectSourceFiles(args []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	add := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		walked, err := listPyFiles(arg)
		if err != nil {
			return nil, err
		}
		for _, path := range walked {
			add(path)
		}
	}
	sort.Strings(files)
	return files, nil
}

func listPyFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			// Skip hidden directories and common generated folders
			if len(name) > 1 && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if name == "__pycache__" || name == "build" || name == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".py" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
