package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"extgen/internal/diag"
	"extgen/internal/diagfmt"
	"extgen/internal/driver"
	"extgen/internal/lint"
	"extgen/internal/source"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] <file.decl|directory>...",
	Short: "Run diagnostics on declaration files",
	Long: `Run diagnostics to find syntax, semantic and naming issues in declaration
files or in every source matched by the manifest inside a directory`,
	Args: cobra.ArbitraryArgs,
	RunE: runDiagnose,
}

// init registers the diag flags: output format, stages, warning policy,
// concurrency, notes and fix suggestions, and path display.
func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	diagCmd.Flags().String("stages", "all", "diagnostic stages to run (tokenize|syntax|sema|lint|all)")
	diagCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	diagCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	diagCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	diagCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	diagCmd.Flags().Bool("preview", false, "preview fix edits in output")
	diagCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

type diagOutput struct {
	format    string
	withNotes bool
	suggest   bool
	preview   bool
	fullPath  bool
	color     bool
}

// runDiagnose runs the requested stages over the sources, prints the
// diagnostics in the chosen format and sets a non-zero exit status when any
// of them is an error.
func runDiagnose(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	var out diagOutput
	var err error
	out.format, err = cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	stagesStr, err := cmd.Flags().GetString("stages")
	if err != nil {
		return fmt.Errorf("failed to get stages flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	noWarnings, err := cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if noWarnings && warningsAsErrors {
		return fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	out.withNotes, err = cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	out.suggest, err = cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	out.preview, err = cmd.Flags().GetBool("preview")
	if err != nil {
		return fmt.Errorf("failed to get preview flag: %w", err)
	}
	out.fullPath, err = cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	out.color, err = useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}

	stage, err := driver.ParseStage(stagesStr)
	if err != nil {
		return err
	}

	m, files, err := loadSources(args)
	if err != nil {
		return err
	}
	kinds, err := lint.ParseKinds(m.Config.Lint.Kinds)
	if err != nil {
		return err
	}

	result, err := driver.Diagnose(cmd.Context(), files, driver.DiagnoseOptions{
		Stage:            stage,
		MaxDiagnostics:   maxDiagnostics,
		IgnoreWarnings:   noWarnings,
		WarningsAsErrors: warningsAsErrors,
		EnableTimings:    showTimings,
		Jobs:             jobs,
		SkipLint:         !m.Config.Lint.LintEnabled(),
		Lint:             lint.Config{Kinds: kinds},
		BaseDir:          m.Root,
	})
	if err != nil {
		return fmt.Errorf("diagnosis failed: %w", err)
	}

	if err := printDiagnostics(result.Bag, result.FileSet, out); err != nil {
		return err
	}
	if showTimings && result.TimingReport != nil {
		fmt.Fprint(os.Stderr, result.TimingReport.String())
	}
	if result.Bag.HasErrors() {
		exitCode = 1
	}
	return nil
}

func printDiagnostics(bag *diag.Bag, fs *source.FileSet, out diagOutput) error {
	pathMode := diagfmt.PathModeAuto
	if out.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	showFixes := out.suggest || out.preview

	switch out.format {
	case "pretty":
		diagfmt.Pretty(os.Stdout, bag, fs, diagfmt.PrettyOpts{
			Color:       out.color,
			Context:     2,
			PathMode:    pathMode,
			ShowNotes:   out.withNotes,
			ShowFixes:   showFixes,
			ShowPreview: out.preview,
		})
		return nil
	case "short":
		return diagfmt.Short(os.Stdout, bag, fs, pathMode)
	case "json":
		err := diagfmt.JSON(os.Stdout, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     out.withNotes,
			IncludeFixes:     showFixes,
			IncludePreviews:  out.preview,
		})
		if err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", out.format)
	}
}
