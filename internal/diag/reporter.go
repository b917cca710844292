package diag

import "extgen/internal/source"

// Reporter receives diagnostics from the lexer, parser, binder and generator.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix)
}

// BagReporter: адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes, Fixes: fixes,
	})
}

// ReportBuilder collects notes and fixes for one diagnostic; Emit sends it.
// A nil reporter makes the builder a sink.
type ReportBuilder struct {
	to   Reporter
	d    Diagnostic
	sent bool
}

func report(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{to: r, d: New(sev, code, primary, msg)}
}

func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return report(r, SevError, code, primary, msg)
}

func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return report(r, SevWarning, code, primary, msg)
}

func ReportInfo(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return report(r, SevInfo, code, primary, msg)
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	b.d = b.d.WithNote(sp, msg)
	return b
}

// WithFix attaches an always-safe fix built from edits.
func (b *ReportBuilder) WithFix(title string, edits ...TextEdit) *ReportBuilder {
	b.d = b.d.WithFix(title, edits...)
	return b
}

func (b *ReportBuilder) WithFixSuggestion(fix Fix) *ReportBuilder {
	b.d = b.d.WithFixSuggestion(fix)
	return b
}

// Emit is idempotent.
func (b *ReportBuilder) Emit() {
	if b.sent {
		return
	}
	b.sent = true
	if b.to != nil {
		d := b.d
		b.to.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes, d.Fixes)
	}
}
