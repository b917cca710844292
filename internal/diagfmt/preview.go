package diagfmt

import (
	"bytes"
	"fmt"
	"strings"

	"extgen/internal/diag"
	"extgen/internal/source"
)

// editPreview holds the whole lines an edit touches, before and after it.
type editPreview struct {
	before []string
	after  []string
}

func previewEdit(fs *source.FileSet, edit diag.TextEdit) (editPreview, error) {
	if fs == nil || !fs.Has(edit.Span.File) {
		return editPreview{}, fmt.Errorf("file %d not found", edit.Span.File)
	}
	content := fs.Get(edit.Span.File).Content
	start, end := int(edit.Span.Start), int(edit.Span.End)
	if start > end || end > len(content) {
		return editPreview{}, fmt.Errorf("edit span %s out of range", edit.Span)
	}

	// расширяем до целых строк, без завершающего \n
	lineStart := bytes.LastIndexByte(content[:start], '\n') + 1
	lineEnd := len(content)
	if i := bytes.IndexByte(content[end:], '\n'); i >= 0 {
		lineEnd = end + i
	}

	var after bytes.Buffer
	after.Write(content[lineStart:start])
	after.WriteString(edit.NewText)
	after.Write(content[end:lineEnd])

	return editPreview{
		before: previewLines(content[lineStart:lineEnd]),
		after:  previewLines(after.Bytes()),
	}, nil
}

func previewLines(b []byte) []string {
	if len(b) == 0 {
		return nil
	}
	return strings.Split(string(b), "\n")
}
