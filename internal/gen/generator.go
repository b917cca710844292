// Package gen renders extension units for enums carrying the generation marker.
package gen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"extgen/internal/ast"
	"extgen/internal/diag"
	"extgen/internal/query"
	"extgen/internal/symbols"
	"extgen/internal/templates"
	"extgen/internal/trace"
)

// DefaultMarker is the simple name of the attribute type that enables generation.
const DefaultMarker = "ExtendAttribute"

// Options configures a generator run.
type Options struct {
	Marker query.Marker
	// StrictPlaceholders rejects units that still contain {{TOKEN}} after rendering.
	StrictPlaceholders bool
	Jobs               int
	// SkipTree, when set, excludes matches from trees it reports true for.
	// The driver uses it for trees whose own sources carry errors.
	SkipTree func(*ast.Tree) bool
}

// InitContext is handed to Initialize.
type InitContext struct {
	Store  templates.Store
	Tracer trace.Tracer
}

// ExecContext is handed to Execute.
type ExecContext struct {
	Context     context.Context
	Compilation *symbols.Compilation
	Emitter     *Emitter
	Reporter    diag.Reporter
	Tracer      trace.Tracer
	Options     Options
}

// Result summarises an Execute call.
type Result struct {
	// Units lists what this run emitted, in declaration order.
	Units   []GeneratedUnit
	Matched int
	Failed  int
	// Skipped counts eligible enums left out because of SkipTree.
	Skipped int
}

// SourceGenerator is a pass that turns a compilation into generated units.
type SourceGenerator interface {
	Initialize(InitContext) error
	Execute(ExecContext) (Result, error)
}

// EnumExtension emits <Enum>Extension for every marked enum.
type EnumExtension struct {
	outer templates.Template
	value templates.Template
	ready bool
}

var _ SourceGenerator = (*EnumExtension)(nil)

// NewEnumExtension returns an uninitialized generator.
func NewEnumExtension() *EnumExtension { return &EnumExtension{} }

// Initialize loads both templates. A missing template fails the whole pass.
func (g *EnumExtension) Initialize(ic InitContext) error {
	span := trace.Begin(ic.Tracer, trace.ScopePass, "gen.initialize", 0)
	defer span.End("")

	outer, err := templates.Load(ic.Store, templates.EnumExtensionTemplate)
	if err != nil {
		return fmt.Errorf("enum extension generator: %w", err)
	}
	value, err := templates.Load(ic.Store, templates.EnumValueInit)
	if err != nil {
		return fmt.Errorf("enum extension generator: %w", err)
	}
	g.outer, g.value, g.ready = outer, value, true
	return nil
}

// Execute generates a unit per marked enum. A failure on one declaration is
// reported and does not stop the others.
func (g *EnumExtension) Execute(ec ExecContext) (Result, error) {
	if !g.ready {
		return Result{}, ErrNotInitialized
	}
	ctx := ec.Context
	if ctx == nil {
		ctx = context.Background()
	}
	tracer := ec.Tracer
	if tracer == nil {
		tracer = trace.FromContext(ctx)
	}
	emitter := ec.Emitter
	if emitter == nil {
		emitter = NewEmitter()
	}
	marker := ec.Options.Marker
	if marker.Name == "" {
		marker.Name = DefaultMarker
	}

	pass := trace.Begin(tracer, trace.ScopePass, "gen.execute", trace.CurrentSpan(ctx))
	comp := ec.Compilation
	matches, err := query.FindParallel(ctx, comp.Trees, comp.Model, marker, ec.Options.Jobs)
	if err != nil {
		pass.End("cancelled")
		return Result{}, err
	}

	var res Result
	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			pass.End("cancelled")
			return res, err
		}
		if skip := ec.Options.SkipTree; skip != nil && skip(m.Tree) {
			res.Skipped++
			continue
		}
		res.Matched++
		n := m.Node()
		declSpan := trace.Begin(tracer, trace.ScopeDecl, "enum:"+n.Name.Text, pass.ID())

		unit, err := g.Generate(comp.Model, m, ec.Options.StrictPlaceholders)
		if err != nil {
			res.Failed++
			reportFailure(ec.Reporter, n, err)
			declSpan.End("failed")
			continue
		}
		if prev, replaced := emitter.Emit(unit); replaced {
			msg := fmt.Sprintf("unit %s generated from '%s' replaces the one generated from %s", unit.Name, n.Name.Text, prev.OriginPath)
			diag.ReportWarning(ec.Reporter, diag.GenUnitOverwritten, n.Name.Span, msg).
				WithNote(prev.Origin, "earlier unit generated here").
				Emit()
		}
		res.Units = append(res.Units, unit)
		declSpan.End("")
	}
	pass.WithExtra("units", fmt.Sprint(len(res.Units))).End("")
	return res, nil
}

// Generate renders the unit for a single match.
func (g *EnumExtension) Generate(model *symbols.Model, m query.Match, strict bool) (GeneratedUnit, error) {
	n := m.Node()
	ns, err := model.NamespaceOf(m.Tree, m.Enum)
	if err != nil {
		return GeneratedUnit{}, err
	}
	enumName := n.Name.Text

	var init strings.Builder
	for _, value := range symbols.Members(m.Tree, m.Enum) {
		init.WriteString(Render(g.value.Text, Substitutions{
			TokEnumName: enumName,
			TokValue:    value,
		}))
		init.WriteString("\n")
	}
	text := Render(g.outer.Text, Substitutions{
		TokNamespace:      ns,
		TokEnumName:       enumName,
		TokInitialization: init.String(),
	})

	unit := GeneratedUnit{
		Name:       enumName + UnitSuffix,
		Text:       text,
		Enum:       enumName,
		Namespace:  ns,
		Origin:     n.Span,
		OriginPath: m.Tree.Path,
	}
	if strict {
		if left := Unresolved(text); len(left) > 0 {
			return GeneratedUnit{}, &UnresolvedPlaceholderError{Unit: unit.Name, Tokens: left}
		}
	}
	return unit, nil
}

func reportFailure(r diag.Reporter, n *ast.Node, err error) {
	var (
		nsErr  *symbols.NamespaceNotFoundError
		tplErr *UnresolvedPlaceholderError
	)
	switch {
	case errors.As(err, &nsErr):
		msg := fmt.Sprintf("cannot generate %s%s: enum '%s' is not declared in a namespace", n.Name.Text, UnitSuffix, n.Name.Text)
		diag.ReportError(r, diag.GenNamespaceNotFound, n.Name.Span, msg).Emit()
	case errors.As(err, &tplErr):
		msg := fmt.Sprintf("generated %s still contains %s", tplErr.Unit, strings.Join(tplErr.Tokens, ", "))
		diag.ReportError(r, diag.GenUnresolvedPlaceholder, n.Name.Span, msg).Emit()
	default:
		diag.ReportError(r, diag.GenInfo, n.Name.Span, err.Error()).Emit()
	}
}
