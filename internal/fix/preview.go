package fix

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Preview renders the changes as unified diffs, one per file, in path order.
func Preview(changes []FileChange) (string, error) {
	var sb strings.Builder
	for _, ch := range changes {
		text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(ch.Before)),
			B:        difflib.SplitLines(string(ch.After)),
			FromFile: "a/" + ch.Path,
			ToFile:   "b/" + ch.Path,
			Context:  3,
		})
		if err != nil {
			return "", err
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}
