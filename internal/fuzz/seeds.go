package fuzztests

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 1 << 16  // 64 KiB
)

var builtinSeeds = []string{
	"",
	"namespace A;\nattribute ExtendAttribute;\n@Extend enum color { Red, Green = 2, }\n",
	"namespace A { class myClass { f: int = 1; struct inner {} } }",
	"import X = A.B;\n@X.Mark(1, \"s\") struct point {}",
	"enum E {",
	"@@@",
	"namespace ;",
	"class \u00e9lan {}",
	"/// doc\n/* block */ enum E : int { A = -1 }",
	"\"unterminated",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
	addDocSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.decl файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".decl" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

// addDocSeeds picks ```decl blocks out of the repository documents.
func addDocSeeds(f *testing.F) {
	for _, name := range []string{"README.md", "SPEC_FULL.md"} {
		// #nosec G304 -- path is a fixed repository location
		data, err := os.ReadFile(filepath.Join("..", "..", name))
		if err != nil {
			continue
		}
		var block [][]byte
		inBlock := false
		for _, line := range bytes.Split(data, []byte{'\n'}) {
			trimmed := strings.TrimSpace(string(line))
			switch {
			case strings.HasPrefix(trimmed, "```decl"):
				inBlock = true
				block = block[:0]
			case strings.HasPrefix(trimmed, "```"):
				if inBlock {
					if snippet := clampSeed(bytes.Join(block, []byte{'\n'})); len(snippet) > 0 {
						f.Add(snippet)
					}
				}
				inBlock = false
			case inBlock:
				block = append(block, line)
			}
		}
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
