package lexer

import (
	"extgen/internal/diag"
	"extgen/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil, тогда ошибки игнорируем, но продолжаем лексить
	// KeepRawIdents disables NFC normalisation of identifier text.
	KeepRawIdents bool
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil, nil)
	}
}
