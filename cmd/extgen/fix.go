package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"extgen/internal/diag"
	"extgen/internal/driver"
	"extgen/internal/fix"
	"extgen/internal/lint"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.decl|directory>...",
	Short: "Apply available fixes to declaration files",
	Long:  "Run diagnostics, collect the attached fixes and apply them according to the chosen strategy.",
	Args:  cobra.ArbitraryArgs,
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply every fix up to the allowed applicability")
	fixCmd.Flags().Bool("once", false, "apply the first available fix (default)")
	fixCmd.Flags().String("id", "", "apply the fix with a specific identifier")
	fixCmd.Flags().Bool("heuristics", false, "let --all take fixes that are safe with heuristics, such as renames")
	fixCmd.Flags().Bool("preview", false, "print a unified diff instead of writing files")
}

func runFix(cmd *cobra.Command, args []string) error {
	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fmt.Errorf("failed to get all flag: %w", err)
	}
	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return fmt.Errorf("failed to get once flag: %w", err)
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return fmt.Errorf("failed to get id flag: %w", err)
	}
	heuristics, err := cmd.Flags().GetBool("heuristics")
	if err != nil {
		return fmt.Errorf("failed to get heuristics flag: %w", err)
	}
	preview, err := cmd.Flags().GetBool("preview")
	if err != nil {
		return fmt.Errorf("failed to get preview flag: %w", err)
	}

	if targetID != "" && (applyAll || applyOnce) {
		return fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnce {
		return fmt.Errorf("--all and --once are mutually exclusive")
	}

	mode := fix.ApplyModeOnce
	if targetID != "" {
		mode = fix.ApplyModeID
	} else if applyAll {
		mode = fix.ApplyModeAll
	}
	opts := fix.ApplyOptions{
		Mode:     mode,
		TargetID: targetID,
		DryRun:   preview,
	}
	if heuristics {
		opts.MaxApplicability = diag.FixApplicabilitySafeWithHeuristics
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
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
		Stage:          driver.DiagnoseStageAll,
		MaxDiagnostics: maxDiagnostics,
		SkipLint:       !m.Config.Lint.LintEnabled(),
		Lint:           lint.Config{Kinds: kinds},
		BaseDir:        m.Root,
	})
	if err != nil {
		return fmt.Errorf("fix: diagnose failed: %w", err)
	}

	res, applyErr := fix.Apply(result.FileSet, result.Bag.Items(), opts)
	if preview && res != nil && len(res.FileChanges) > 0 {
		diff, err := fix.Preview(res.FileChanges)
		if err != nil {
			return fmt.Errorf("fix: preview failed: %w", err)
		}
		if _, err := io.WriteString(os.Stdout, diff); err != nil {
			return err
		}
	}
	return handleApplyResult(os.Stdout, res, applyErr, preview)
}

func handleApplyResult(out io.Writer, res *fix.ApplyResult, applyErr error, dryRun bool) error {
	if res == nil {
		return applyErr
	}

	if len(res.Applied) > 0 {
		verb := "Applied"
		if dryRun {
			verb = "Would apply"
		}
		if _, err := fmt.Fprintf(out, "%s %d fix(es):\n", verb, len(res.Applied)); err != nil {
			return err
		}
		for _, item := range res.Applied {
			location := item.PrimaryPath
			if location == "" {
				location = "(unknown location)"
			}
			_, err := fmt.Fprintf(out, "  %s [%s] %s: %s (%d edits, %s)\n",
				item.Title, item.ID, item.Code.ID(), location, item.EditCount, item.Applicability.String())
			if err != nil {
				return err
			}
		}
	}

	if len(res.FileChanges) > 0 && !dryRun {
		if _, err := fmt.Fprintln(out, "Updated files:"); err != nil {
			return err
		}
		for _, change := range res.FileChanges {
			if _, err := fmt.Fprintf(out, "  %s (%d edits)\n", change.Path, change.EditCount); err != nil {
				return err
			}
		}
	}

	if len(res.Skipped) > 0 {
		if _, err := fmt.Fprintln(out, "Skipped fixes:"); err != nil {
			return err
		}
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			var err error
			if skip.Title != "" {
				_, err = fmt.Fprintf(out, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				_, err = fmt.Fprintf(out, "  [%s]: %s\n", id, skip.Reason)
			}
			if err != nil {
				return err
			}
		}
	}

	if applyErr != nil {
		if errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0 {
			_, err := fmt.Fprintln(out, "No applicable fixes found.")
			return err
		}
		return applyErr
	}
	if len(res.Applied) == 0 {
		_, err := fmt.Fprintln(out, "No fixes applied.")
		return err
	}
	return nil
}
