package gen

import (
	"regexp"
	"sort"
	"strings"
)

// Placeholder tokens understood by the built-in templates.
const (
	TokNamespace      = "NAMESPACE"
	TokEnumName       = "ENUM_NAME"
	TokValue          = "VALUE"
	TokInitialization = "INITIALIZATION"
)

// Substitutions maps a token name, without braces, to its replacement.
type Substitutions map[string]string

// Placeholder returns the token as it appears in template text.
func Placeholder(name string) string { return "{{" + name + "}}" }

// Render replaces every {{TOKEN}} of tpl that has a substitution. The scan is
// a single pass: replacement text is never searched for tokens again.
// Tokens without a substitution are left as they are.
func Render(tpl string, subs Substitutions) string {
	if len(subs) == 0 {
		return tpl
	}
	names := make([]string, 0, len(subs))
	for name := range subs {
		names = append(names, name)
	}
	sort.Strings(names)
	pairs := make([]string, 0, 2*len(names))
	for _, name := range names {
		pairs = append(pairs, Placeholder(name), subs[name])
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

var placeholderRE = regexp.MustCompile(`\{\{[A-Z][A-Z0-9_]*\}\}`)

// Unresolved lists the distinct placeholder tokens left in text, in order of first use.
func Unresolved(text string) []string {
	found := placeholderRE.FindAllString(text, -1)
	if len(found) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(found))
	out := make([]string, 0, len(found))
	for _, tok := range found {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
