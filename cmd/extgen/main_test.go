package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"extgen/internal/diag"
	"extgen/internal/fix"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	exitCode = 0
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	require.NoError(t, teardownRun(rootCmd, nil))
	return err
}

func TestInitThenGen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "palette")
	require.NoError(t, execute(t, "init", dir, "--quiet"))
	require.FileExists(t, filepath.Join(dir, "extgen.toml"))
	require.FileExists(t, filepath.Join(dir, "main.decl"))

	err := execute(t, "init", dir, "--quiet")
	require.ErrorContains(t, err, "already initialized")

	require.NoError(t, execute(t, "gen", dir, "--ui", "off", "--quiet"))
	require.Zero(t, exitCode)

	out, err := os.ReadFile(filepath.Join(dir, "generated", "ColorExtension.cs"))
	require.NoError(t, err)
	require.Contains(t, string(out), "public static class ColorExtension")
	require.Contains(t, string(out), "Color.Green,")
}

func TestFixRenamesWithHeuristics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.decl")
	require.NoError(t, os.WriteFile(path, []byte("class foo {}\n"), 0o600))

	require.NoError(t, execute(t, "fix", path, "--all", "--heuristics", "--quiet"))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "class Foo {}\n", string(got))
}

func TestHandleApplyResult(t *testing.T) {
	var buf bytes.Buffer
	res := &fix.ApplyResult{
		Applied: []fix.AppliedFix{{
			ID:            "rename-1",
			Title:         fix.NamingTitle,
			Code:          diag.LintTypeNameCase,
			PrimaryPath:   "a.decl",
			EditCount:     1,
			Applicability: diag.FixApplicabilitySafeWithHeuristics,
		}},
		Skipped:     []fix.SkippedFix{{Reason: "fix has no edits"}},
		FileChanges: []fix.FileChange{{Path: "a.decl", EditCount: 1}},
	}
	require.NoError(t, handleApplyResult(&buf, res, nil, false))
	require.Contains(t, buf.String(), "Applied 1 fix(es):")
	require.Contains(t, buf.String(), "[rename-1] LNT9001: a.decl (1 edits")
	require.Contains(t, buf.String(), "Updated files:\n  a.decl (1 edits)")
	require.Contains(t, buf.String(), "  [(unnamed)]: fix has no edits")

	buf.Reset()
	require.NoError(t, handleApplyResult(&buf, &fix.ApplyResult{}, fix.ErrNoFixes, false))
	require.Equal(t, "No applicable fixes found.\n", buf.String())

	boom := errors.New("boom")
	require.ErrorIs(t, handleApplyResult(&buf, &fix.ApplyResult{}, boom, false), boom)
}

func TestOnOffAuto(t *testing.T) {
	notTTY, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer notTTY.Close()

	for in, want := range map[string]bool{"on": true, " ON ": true, "off": false, "Off": false, "auto": false, "": false} {
		got, err := onOffAuto("ui", in, notTTY)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err = onOffAuto("ui", "maybe", notTTY)
	require.ErrorContains(t, err, "--ui")
}

func TestDisplayPath(t *testing.T) {
	root := filepath.FromSlash("/work/proj")
	require.Equal(t, "src/a.decl", displayPath(filepath.Join(root, "src", "a.decl"), root))
	require.Equal(t, filepath.ToSlash(filepath.FromSlash("/elsewhere/b.decl")), displayPath(filepath.FromSlash("/elsewhere/b.decl"), root))
}
