package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"extgen/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new extgen project",
	Long: `Initialize a new extgen project by creating a manifest (extgen.toml) and a
sample declaration file (main.decl). Without an argument the current
directory is initialized; a missing directory is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var projectNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

const sampleDecl = `namespace App;

attribute ExtendAttribute;

@Extend
enum Color {
    Red,
    Green,
    Blue,
}
`

// runInit writes extgen.toml and main.decl into the target directory. It
// refuses to overwrite an existing manifest and keeps an existing main.decl.
func runInit(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	target := wd
	if len(args) == 1 && args[0] != "." {
		target = args[0]
		if !filepath.IsAbs(target) {
			target = filepath.Join(wd, target)
		}
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	for _, name := range project.ManifestNames {
		if _, err := os.Stat(filepath.Join(target, name)); err == nil {
			return fmt.Errorf("project already initialized: %s exists", filepath.Join(target, name))
		}
	}

	name := strings.TrimSpace(filepath.Base(target))
	if !projectNameRe.MatchString(name) {
		name = "extgen-project"
	}
	manifestPath := filepath.Join(target, project.ManifestNames[0])
	if err := os.WriteFile(manifestPath, fmt.Appendf(nil, project.Template, name), 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	declPath := filepath.Join(target, "main.decl")
	createdDecl := false
	if _, err := os.Stat(declPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(declPath, []byte(sampleDecl), 0o600); err != nil {
			return fmt.Errorf("failed to write main.decl: %w", err)
		}
		createdDecl = true
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if quiet {
		return nil
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized extgen project in %s\n", displayPath(target, wd))
	fmt.Fprintf(out, "  - %s\n", project.ManifestNames[0])
	if createdDecl {
		fmt.Fprintln(out, "  - main.decl")
	} else {
		fmt.Fprintln(out, "  - main.decl (existing)")
	}
	return nil
}
