package main

import (
	"fmt"
	"os"
	"path/filepath"

	"extgen/internal/project"
)

// loadSources discovers the manifest next to the first argument and expands
// the arguments with its source patterns. No manifest means the defaults.
func loadSources(args []string) (*project.Manifest, []string, error) {
	start := "."
	if len(args) > 0 {
		start = args[0]
		if st, err := os.Stat(start); err == nil && !st.IsDir() {
			start = filepath.Dir(start)
		}
	}
	m, _, err := project.Discover(start)
	if err != nil {
		return nil, nil, err
	}
	if len(args) == 0 {
		args = []string{m.Root}
	}
	files, err := project.ExpandArgs(args, m.Config.Sources.Include, m.Config.Sources.Exclude)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no source files match %v", m.Config.Sources.Include)
	}
	return m, files, nil
}
