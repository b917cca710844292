package format

import "bytes"

// Writer buffers printer output. Indentation is emitted lazily on the first
// write of each line, so blank lines never carry trailing whitespace.
type Writer struct {
	opt     Options
	buf     []byte
	depth   int
	midLine bool
}

func NewWriter(opt Options) *Writer {
	return &Writer{opt: opt.withDefaults()}
}

func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	if !w.midLine {
		if w.opt.UseTabs {
			w.buf = append(w.buf, bytes.Repeat([]byte{'\t'}, w.depth)...)
		} else {
			w.buf = append(w.buf, bytes.Repeat([]byte{' '}, w.depth*w.opt.IndentWidth)...)
		}
	}
	w.buf = append(w.buf, s...)
	w.midLine = s[len(s)-1] != '\n'
}

func (w *Writer) endsWith(s string) bool {
	return bytes.HasSuffix(w.buf, []byte(s))
}

// Newline terminates the current line; it never produces an empty one.
func (w *Writer) Newline() {
	if len(w.buf) > 0 && !w.endsWith("\n") {
		w.buf = append(w.buf, '\n')
	}
	w.midLine = false
}

// BlankLine leaves exactly one empty line before the next write.
func (w *Writer) BlankLine() {
	if len(w.buf) == 0 {
		return
	}
	w.Newline()
	if !w.endsWith("\n\n") {
		w.buf = append(w.buf, '\n')
	}
}

func (w *Writer) Indent() { w.depth++ }

func (w *Writer) Dedent() {
	if w.depth > 0 {
		w.depth--
	}
}
