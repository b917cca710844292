package token

import "extgen/internal/source"

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	TriviaDocLine // /// ...
)

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

var triviaNames = [...]string{
	TriviaSpace:        "space",
	TriviaNewline:      "newline",
	TriviaLineComment:  "line_comment",
	TriviaBlockComment: "block_comment",
	TriviaDocLine:      "doc_line",
}

func (k TriviaKind) String() string {
	if int(k) < len(triviaNames) {
		return triviaNames[k]
	}
	return "trivia"
}
