package diag

import "testing"

func TestCodeIDRanges(t *testing.T) {
	cases := map[Code]string{
		LexUnknownChar:       "LEX1001",
		SynExpectSemicolon:   "SYN2003",
		SemaDuplicateSymbol:  "SEM3002",
		IOLoadFileError:      "IO4001",
		GenNamespaceNotFound: "GEN5001",
		ProjManifestInvalid:  "PRJ6001",
		LintTypeNameCase:     "LNT9001",
		Code(8500):           "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("code %d: want %s, got %s", code, want, got)
		}
	}
	if LintTypeNameCase.Title() != "Type naming conventions" {
		t.Fatalf("unexpected title %q", LintTypeNameCase.Title())
	}
}
