package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"extgen/internal/diag"
	"extgen/internal/lexer"
	"extgen/internal/source"
)

func TestFormatTokens(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.decl", []byte("/// doc\nenum A {}"))
	bag := diag.NewBag(0)
	tokens := lexer.New(fs.Get(id), lexer.Options{Reporter: diag.BagReporter{Bag: bag}}).All()

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, tokens, fs); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != len(tokens) {
		t.Fatalf("expected %d lines, got:\n%s", len(tokens), buf.String())
	}
	if !strings.Contains(lines[0], "at 2:1-2:5") || !strings.Contains(lines[0], "(leading: doc_line, newline)") {
		t.Fatalf("first line = %q", lines[0])
	}

	buf.Reset()
	if err := FormatTokensJSON(&buf, tokens); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != len(tokens) || out[len(out)-1].Kind != "EOF" {
		t.Fatalf("unexpected tokens: %+v", out)
	}
	lead := out[0].Leading
	if len(lead) != 2 || lead[0].Text != "/// doc" || lead[1].Text != "" {
		t.Fatalf("leading = %+v", lead)
	}
}
