package diagfmt

import (
	"fmt"
	"io"

	"extgen/internal/diag"
	"extgen/internal/source"
)

// Short prints one line per diagnostic: <path>:<line>:<col>: <SEV> <CODE>: <Message>.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode) error {
	for _, d := range bag.Items() {
		if _, err := fmt.Fprintf(w, "%s: %s %s: %s\n", location(fs, d.Primary, mode), d.Severity, d.Code.ID(), d.Message); err != nil {
			return err
		}
	}
	return nil
}
