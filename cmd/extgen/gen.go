package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"extgen/internal/buildpipeline"
	"extgen/internal/diagfmt"
	"extgen/internal/driver"
	"extgen/internal/templates"
)

var genCmd = &cobra.Command{
	Use:   "gen [flags] [file.decl|directory]...",
	Short: "Generate extension units for marked enums",
	Long: `Gen resolves the project manifest, checks the sources and writes one
<Enum>Extension unit for every enum carrying the marker attribute`,
	Args: cobra.ArbitraryArgs,
	RunE: runGen,
}

func init() {
	genCmd.Flags().String("out", "", "output directory (overrides generator.out_dir)")
	genCmd.Flags().String("target", "", "template target language (overrides generator.target)")
	genCmd.Flags().Bool("strict", false, "fail units that keep unresolved placeholders")
	genCmd.Flags().String("marker", "", "marker attribute name (overrides generator.marker)")
	genCmd.Flags().String("marker-namespace", "", "namespace of the marker attribute")
	genCmd.Flags().String("templates", "", "directory with template overrides")
	genCmd.Flags().Bool("no-lint", false, "skip the naming analyzer")
	genCmd.Flags().Bool("cache", false, "reuse generated units from the on-disk cache")
	genCmd.Flags().String("cache-dir", "", "cache directory (default $XDG_CACHE_HOME/extgen)")
	genCmd.Flags().Bool("clear-cache", false, "drop cached units before generating")
	genCmd.Flags().Bool("dry-run", false, "generate without writing files")
	genCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	genCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
}

func runGen(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	var (
		req buildpipeline.GenerateRequest
		err error
	)
	req.Args = args
	if len(args) > 0 {
		req.Dir = args[0]
		if st, err := os.Stat(req.Dir); err == nil && !st.IsDir() {
			req.Dir = filepath.Dir(req.Dir)
		}
	}
	if req.Overrides.OutDir, err = cmd.Flags().GetString("out"); err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	if req.Overrides.Target, err = cmd.Flags().GetString("target"); err != nil {
		return fmt.Errorf("failed to get target flag: %w", err)
	}
	if req.Overrides.Marker, err = cmd.Flags().GetString("marker"); err != nil {
		return fmt.Errorf("failed to get marker flag: %w", err)
	}
	if req.Overrides.MarkerNamespace, err = cmd.Flags().GetString("marker-namespace"); err != nil {
		return fmt.Errorf("failed to get marker-namespace flag: %w", err)
	}
	if req.Overrides.TemplatesDir, err = cmd.Flags().GetString("templates"); err != nil {
		return fmt.Errorf("failed to get templates flag: %w", err)
	}
	if cmd.Flags().Changed("strict") {
		strict, err := cmd.Flags().GetBool("strict")
		if err != nil {
			return fmt.Errorf("failed to get strict flag: %w", err)
		}
		req.Overrides.Strict = &strict
	}
	if cmd.Flags().Changed("no-lint") {
		noLint, err := cmd.Flags().GetBool("no-lint")
		if err != nil {
			return fmt.Errorf("failed to get no-lint flag: %w", err)
		}
		enabled := !noLint
		req.Overrides.Lint = &enabled
	}
	if req.DryRun, err = cmd.Flags().GetBool("dry-run"); err != nil {
		return fmt.Errorf("failed to get dry-run flag: %w", err)
	}
	if req.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if req.MaxDiagnostics, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}
	cacheDir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	clearCache, err := cmd.Flags().GetBool("clear-cache")
	if err != nil {
		return fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	useTUI, err := onOffAuto("ui", uiValue, os.Stdout)
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	colored, err := useColor(cmd, os.Stderr)
	if err != nil {
		return err
	}

	if useCache || cacheDir != "" || clearCache {
		cache, err := driver.OpenGenCache(cacheDir, "extgen")
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		if clearCache {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
		}
		req.Cache = cache
	}

	var result buildpipeline.GenerateResult
	if !quiet && useTUI {
		result, err = runGenerateWithUI(cmd.Context(), "extgen gen", &req)
	} else {
		if !quiet {
			req.Progress = stageLogger(colored)
		}
		result, err = buildpipeline.Generate(cmd.Context(), &req)
	}

	if g := result.Generate; g != nil && g.DiagnoseResult != nil && g.Bag.Len() > 0 {
		diagfmt.Pretty(os.Stderr, g.Bag, g.FileSet, diagfmt.PrettyOpts{Color: colored, Context: 2})
	}
	if showTimings {
		if err := printStageTimings(os.Stderr, result.Timings); err != nil {
			return err
		}
	}

	if err != nil {
		var perr *buildpipeline.ProjectError
		switch {
		case errors.As(err, &perr):
			red := paint(color.New(color.FgRed, color.Bold), colored)
			fmt.Fprintf(os.Stderr, "%s %v\n", red.Sprintf("error[%s]:", perr.Code.ID()), perr.Err)
			exitCode = 1
			return nil
		case errors.Is(err, templates.ErrTemplateNotFound):
			exitCode = 1
			return nil
		default:
			return err
		}
	}

	if quiet {
		return nil
	}
	g := result.Generate
	summary := fmt.Sprintf("%d enum(s) matched, %d unit(s)", g.Matched, len(g.Units))
	if g.Failed > 0 {
		summary += fmt.Sprintf(", %d failed", g.Failed)
	}
	if g.Skipped > 0 {
		summary += fmt.Sprintf(", %d skipped (source errors)", g.Skipped)
	}
	if g.CacheHit {
		summary += " (cached)"
	}
	if req.DryRun {
		fmt.Fprintf(os.Stdout, "%s, dry run\n", summary)
		for _, u := range g.Units {
			fmt.Fprintf(os.Stdout, "  %s\n", u.Name)
		}
	} else {
		fmt.Fprintf(os.Stdout, "%s written to %s\n", summary, displayPath(result.OutDir, workingDir()))
		for _, path := range result.Written {
			fmt.Fprintf(os.Stdout, "  %s\n", filepath.Base(path))
		}
	}
	if g.Bag.HasErrors() {
		exitCode = 1
	}
	return nil
}

// stageLogger prints pipeline-level stage changes for non-interactive runs.
func stageLogger(colored bool) buildpipeline.ProgressSink {
	dim := paint(color.New(color.Faint), colored)
	red := paint(color.New(color.FgRed), colored)
	return buildpipeline.FuncSink(func(ev buildpipeline.Event) {
		if ev.File != "" {
			return
		}
		switch ev.Status {
		case buildpipeline.StatusWorking:
			fmt.Fprintln(os.Stderr, dim.Sprintf("%s...", ev.Stage))
		case buildpipeline.StatusError:
			fmt.Fprintln(os.Stderr, red.Sprintf("%s failed", ev.Stage))
		}
	})
}

// paint forces c on or off; color.NoColor only knows about stdout.
func paint(c *color.Color, on bool) *color.Color {
	if on {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}
