package gen

import (
	"fmt"
	"os"
	"path/filepath"
)

// OutputExt returns the file extension for units of a template target.
func OutputExt(target string) string {
	switch target {
	case "typescript":
		return ".ts"
	default:
		return ".cs"
	}
}

// WriteUnits writes every unit to dir as <Name><ext> and returns the paths in unit order.
func WriteUnits(dir string, units []GeneratedUnit, ext string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	paths := make([]string, 0, len(units))
	for _, u := range units {
		path := filepath.Join(dir, u.Name+ext)
		if err := os.WriteFile(path, []byte(u.Text), 0o644); err != nil { // #nosec G306 -- generated sources are meant to be shared
			return paths, fmt.Errorf("write unit %s: %w", u.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
