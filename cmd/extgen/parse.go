package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"extgen/internal/diagfmt"
	"extgen/internal/driver"
	"extgen/internal/format"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.decl|directory>...",
	Short: "Parse declaration files and print their syntax trees",
	Long: `Parse analyzes declaration files, or every source matched by the manifest
patterns inside a directory, and prints the tree, its JSON form or the
canonical source`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("emit", "tree", "output (tree|json|source)")
	parseCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	parseCmd.Flags().Int("indent", 4, "indent width for --emit source")
	parseCmd.Flags().Bool("tabs", false, "indent with tabs for --emit source")
}

func runParse(cmd *cobra.Command, args []string) error {
	emit, err := cmd.Flags().GetString("emit")
	if err != nil {
		return fmt.Errorf("failed to get emit flag: %w", err)
	}
	switch emit {
	case "tree", "json", "source":
	default:
		return fmt.Errorf("unknown emit value: %s", emit)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	indent, err := cmd.Flags().GetInt("indent")
	if err != nil {
		return fmt.Errorf("failed to get indent flag: %w", err)
	}
	tabs, err := cmd.Flags().GetBool("tabs")
	if err != nil {
		return fmt.Errorf("failed to get tabs flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	m, files, err := loadSources(args)
	if err != nil {
		return err
	}
	result, err := driver.Diagnose(cmd.Context(), files, driver.DiagnoseOptions{
		Stage:          driver.DiagnoseStageSyntax,
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
		BaseDir:        m.Root,
	})
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	if result.Bag.Len() > 0 {
		color, err := useColor(cmd, os.Stderr)
		if err != nil {
			return err
		}
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{Color: color, Context: 2})
	}
	if result.Bag.HasErrors() {
		exitCode = 1
	}

	single := len(result.Files) == 1
	if emit == "json" {
		output := make(map[string]json.RawMessage, len(result.Files))
		for _, r := range result.Files {
			if r.Tree == nil {
				continue
			}
			var buf bytes.Buffer
			if err := diagfmt.FormatASTJSON(&buf, r.Tree); err != nil {
				return err
			}
			if single {
				_, err := os.Stdout.Write(buf.Bytes())
				return err
			}
			output[displayPath(r.Path, m.Root)] = json.RawMessage(buf.Bytes())
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(output)
	}

	for idx, r := range result.Files {
		if r.Tree == nil {
			continue
		}
		if !quiet && !single {
			if _, err := fmt.Fprintf(os.Stdout, "== %s ==\n", displayPath(r.Path, m.Root)); err != nil {
				return err
			}
		}
		switch emit {
		case "tree":
			if err := diagfmt.FormatASTPretty(os.Stdout, r.Tree, result.FileSet); err != nil {
				return err
			}
		case "source":
			out, err := format.FormatTree(r.Tree, format.Options{IndentWidth: indent, UseTabs: tabs})
			if err != nil {
				return fmt.Errorf("%s: %w", r.Path, err)
			}
			if _, err := os.Stdout.Write(out); err != nil {
				return err
			}
		}
		if !quiet && !single && idx < len(result.Files)-1 {
			if _, err := fmt.Fprintln(os.Stdout); err != nil {
				return err
			}
		}
	}
	return nil
}

func displayPath(path, root string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(path)
}
