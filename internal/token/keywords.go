package token

var keywords = map[string]Kind{
	"namespace": KwNamespace,
	"import":    KwImport,
	"enum":      KwEnum,
	"class":     KwClass,
	"struct":    KwStruct,
	"attribute": KwAttribute,
	"true":      KwTrue,
	"false":     KwFalse,
}

// LookupKeyword returns the keyword kind for ident.
// Keywords are case-sensitive: only the lower-case spelling is recognised.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
