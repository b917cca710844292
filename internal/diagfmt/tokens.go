package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"extgen/internal/source"
	"extgen/internal/token"
)

// TokenOutput is the JSON shape of one token. Comments keep their text so
// doc comments can be inspected; whitespace trivia is listed by kind.
type TokenOutput struct {
	Kind    string       `json:"kind"`
	Text    string       `json:"text,omitempty"`
	Span    source.Span  `json:"span"`
	Leading []TriviaItem `json:"leading,omitempty"`
}

type TriviaItem struct {
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"`
}

func leadingTrivia(tok token.Token) []TriviaItem {
	if len(tok.Leading) == 0 {
		return nil
	}
	out := make([]TriviaItem, len(tok.Leading))
	for i, tr := range tok.Leading {
		out[i] = TriviaItem{Kind: tr.Kind.String()}
		if tr.Kind != token.TriviaSpace && tr.Kind != token.TriviaNewline {
			out[i].Text = tr.Text
		}
	}
	return out
}

// untilEOF cuts tokens after the first EOF.
func untilEOF(tokens []token.Token) []token.Token {
	for i, tok := range tokens {
		if tok.Kind == token.EOF {
			return tokens[:i+1]
		}
	}
	return tokens
}

// FormatTokensPretty prints one token per line with its range and leading trivia kinds.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range untilEOF(tokens) {
		start, end := fs.Resolve(tok.Span)
		var b strings.Builder
		fmt.Fprintf(&b, "%3d: %-15s", i+1, tok.Kind)
		if tok.Text != "" {
			fmt.Fprintf(&b, " %q", tok.Text)
		}
		fmt.Fprintf(&b, " at %d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
		if trivia := leadingTrivia(tok); len(trivia) > 0 {
			kinds := make([]string, len(trivia))
			for j, tr := range trivia {
				kinds[j] = tr.Kind
			}
			fmt.Fprintf(&b, " (leading: %s)", strings.Join(kinds, ", "))
		}
		b.WriteByte('\n')
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON writes the tokens as an indented JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	tokens = untilEOF(tokens)
	output := make([]TokenOutput, len(tokens))
	for i, tok := range tokens {
		output[i] = TokenOutput{
			Kind:    tok.Kind.String(),
			Text:    tok.Text,
			Span:    tok.Span,
			Leading: leadingTrivia(tok),
		}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
