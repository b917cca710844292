package fix

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"extgen/internal/ast"
	"extgen/internal/diag"
	"extgen/internal/naming"
	"extgen/internal/source"
)

// NamingTitle is the title of the type-name casing fix.
const NamingTitle = "Change type name to PascalCase"

// NamingProvider names the provider that owns the casing fix.
const NamingProvider = "TypeNameCaseFix"

var namingKey = uuid.NewSHA1(uuid.NameSpaceOID, []byte("extgen/fix/"+NamingProvider)).String()

// NamingEquivalenceKey groups every casing fix so they can be applied as a batch.
func NamingEquivalenceKey() string { return namingKey }

// ErrStaleEdit is returned when the source no longer holds the identifier an edit was computed for.
var ErrStaleEdit = errors.New("identifier changed since the fix was computed")

// Edit renames a single declaration. Only the declaring identifier is
// touched; references elsewhere keep the old spelling.
type Edit struct {
	Target      ast.NodeID
	Original    ast.Ident
	Replacement ast.Ident
}

// ComputeFix derives the rename for a casing diagnostic. It returns false when
// d is not a casing diagnostic of tree or upper-casing would not change the name.
func ComputeFix(tree *ast.Tree, d diag.Diagnostic) (Edit, bool) {
	if tree == nil || d.Code != diag.LintTypeNameCase || d.Primary.File != tree.File {
		return Edit{}, false
	}
	id, ok := declNamedAt(tree, d.Primary)
	if !ok {
		return Edit{}, false
	}
	return editFor(tree, id)
}

func editFor(tree *ast.Tree, id ast.NodeID) (Edit, bool) {
	n := tree.Node(id)
	if n == nil || n.Name.IsEmpty() || !naming.StartsLower(n.Name.Text) {
		return Edit{}, false
	}
	upper := naming.UpperFirst(n.Name.Text)
	if upper == n.Name.Text {
		// ß and friends have no single-rune upper case
		return Edit{}, false
	}
	return Edit{
		Target:      id,
		Original:    n.Name,
		Replacement: ast.Ident{Text: upper, Span: n.Name.Span},
	}, true
}

func declNamedAt(tree *ast.Tree, sp source.Span) (ast.NodeID, bool) {
	found := ast.NoNodeID
	tree.Inspect(tree.Root, func(id ast.NodeID, n *ast.Node) bool {
		if found != ast.NoNodeID {
			return false
		}
		if n.Kind.IsTypeDecl() && n.Name.Span == sp {
			found = id
			return false
		}
		return true
	})
	return found, found != ast.NoNodeID
}

// rawText returns the identifier as written and its upper-cased form. The
// source may hold a decomposed spelling of the normalized name.
func (e Edit) rawText(fs *source.FileSet) (oldRaw, newRaw string, err error) {
	sp := e.Original.Span
	if !fs.Has(sp.File) {
		return "", "", fmt.Errorf("file %d: %w", sp.File, ErrStaleEdit)
	}
	f := fs.Get(sp.File)
	if int(sp.End) > len(f.Content) || sp.End < sp.Start {
		return "", "", fmt.Errorf("%s: %w", sp, ErrStaleEdit)
	}
	oldRaw = string(f.Content[sp.Start:sp.End])
	if !naming.StartsLower(oldRaw) {
		return "", "", fmt.Errorf("%q: %w", oldRaw, ErrStaleEdit)
	}
	return oldRaw, naming.UpperFirst(oldRaw), nil
}

// TextEdit is the source-level form of e, guarded by the current spelling.
func (e Edit) TextEdit(fs *source.FileSet) (diag.TextEdit, error) {
	oldRaw, newRaw, err := e.rawText(fs)
	if err != nil {
		return diag.TextEdit{}, err
	}
	return diag.TextEdit{Span: e.Original.Span, NewText: newRaw, OldText: oldRaw}, nil
}

// Apply registers the edited text as a new version of the file and returns
// the renamed tree. tree and its file version are left as they were.
func (e Edit) Apply(fs *source.FileSet, tree *ast.Tree) (*ast.Tree, error) {
	if tree.File != e.Original.Span.File {
		return nil, fmt.Errorf("tree is file %d, edit targets %d: %w", tree.File, e.Original.Span.File, ErrStaleEdit)
	}
	if n := tree.Node(e.Target); n == nil || n.Name != e.Original {
		return nil, fmt.Errorf("node %d: %w", e.Target, ErrStaleEdit)
	}
	_, newRaw, err := e.rawText(fs)
	if err != nil {
		return nil, err
	}

	sp := e.Original.Span
	old := fs.Get(sp.File).Content
	content := make([]byte, 0, len(old)+len(newRaw)-int(sp.Len()))
	content = append(content, old[:sp.Start]...)
	content = append(content, newRaw...)
	content = append(content, old[sp.End:]...)

	next := fs.Rewrite(sp.File, content)
	name := ast.Ident{
		Text: e.Replacement.Text,
		Span: source.Span{File: next, Start: sp.Start, End: sp.Start + uint32(len(newRaw))},
	}
	return tree.WithName(e.Target, name)
}

// CodeAction is a fix offered to the user for one diagnostic.
type CodeAction struct {
	Title          string
	EquivalenceKey string
	Diagnostic     diag.Diagnostic
	Edit           Edit
}

// Apply runs the action against tree.
func (a CodeAction) Apply(fs *source.FileSet, tree *ast.Tree) (*ast.Tree, error) {
	return a.Edit.Apply(fs, tree)
}

// Actions offers one action per fixable diagnostic of tree.
func Actions(tree *ast.Tree, diags []diag.Diagnostic) []CodeAction {
	out := make([]CodeAction, 0, len(diags))
	for _, d := range diags {
		edit, ok := ComputeFix(tree, d)
		if !ok {
			continue
		}
		out = append(out, CodeAction{
			Title:          NamingTitle,
			EquivalenceKey: namingKey,
			Diagnostic:     d,
			Edit:           edit,
		})
	}
	return out
}

// FixableCodes lists the diagnostic codes this package can fix.
func FixableCodes() []diag.Code {
	return []diag.Code{diag.LintTypeNameCase}
}

// NamingSuggestion is the lazy fix attached to a casing diagnostic for node id.
// Edits are computed from the file set only when the fix is materialized.
func NamingSuggestion(tree *ast.Tree, id ast.NodeID) diag.Fix {
	var at source.Span
	if n := tree.Node(id); n != nil {
		at = n.Name.Span
	}
	thunk := func(ctx diag.FixBuildContext) (diag.Fix, error) {
		edit, ok := editFor(tree, id)
		if !ok {
			return diag.Fix{}, diag.ErrEmptyFix
		}
		te, err := edit.TextEdit(ctx.FileSet)
		if err != nil {
			return diag.Fix{}, err
		}
		return diag.Fix{
			Kind:          diag.FixKindQuickFix,
			Applicability: diag.FixApplicabilitySafeWithHeuristics,
			Edits:         []diag.TextEdit{te},
		}, nil
	}
	return Lazy(NamingTitle, thunk,
		WithID(MakeFixID(diag.LintTypeNameCase, at)),
		WithEquivalenceKey(namingKey),
		WithApplicability(diag.FixApplicabilitySafeWithHeuristics),
		Preferred(),
	)
}
