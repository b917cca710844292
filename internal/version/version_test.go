package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestColoredKeepsText(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	cases := map[string]string{
		"0.1.0-dev":            "0.1.0-dev",
		"1.2.3":                "1.2.3",
		"1.2.3-rc.1+build.123": "1.2.3-rc.1+build.123",
		"dev":                  "dev",
	}
	orig := Version
	defer func() { Version = orig }()
	for in, want := range cases {
		Version = in
		if got := Colored(); got != want {
			t.Errorf("Colored(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInfo(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	origCommit, origDate := GitCommit, BuildDate
	defer func() { GitCommit, BuildDate = origCommit, origDate }()

	GitCommit, BuildDate = "abc123", "2024-01-15"
	info := Info()
	for _, want := range []string{"extgen " + Version, "(abc123)", "built 2024-01-15"} {
		if !strings.Contains(info, want) {
			t.Fatalf("Info() = %q, missing %q", info, want)
		}
	}
}
