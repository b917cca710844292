package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004

	// Парсерные
	SynInfo                Code = 2000
	SynUnexpectedToken     Code = 2001
	SynExpectIdentifier    Code = 2002
	SynExpectSemicolon     Code = 2003
	SynExpectLBrace        Code = 2004
	SynUnclosedBrace       Code = 2005
	SynUnclosedParen       Code = 2006
	SynExpectLiteral       Code = 2007
	SynUnexpectedTopLevel  Code = 2008
	SynAttributeNotAllowed Code = 2009
	SynFileScopedNamespace Code = 2010
	SynExpectType          Code = 2011
	SynEnumExpectSeparator Code = 2012
	SynTooManyErrors       Code = 2099

	// Семантические
	SemaInfo                Code = 3000
	SemaError               Code = 3001
	SemaDuplicateSymbol     Code = 3002
	SemaDuplicateAlias      Code = 3003
	SemaUnresolvedImport    Code = 3005
	SemaUnresolvedAttribute Code = 3006
	SemaAmbiguousReference  Code = 3007
	SemaNotAnAttribute      Code = 3008

	// IO
	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002

	// Генератор
	GenInfo                  Code = 5000
	GenNamespaceNotFound     Code = 5001
	GenUnresolvedPlaceholder Code = 5002
	GenTemplateNotFound      Code = 5003
	GenUnitOverwritten       Code = 5004

	// Проект
	ProjInfo            Code = 6000
	ProjManifestInvalid Code = 6001
	ProjNoSources       Code = 6002

	// Линтер
	LintInfo         Code = 9000
	LintTypeNameCase Code = 9001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string literal",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Malformed number literal",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynExpectIdentifier:         "Expected identifier",
		SynExpectSemicolon:          "Expected semicolon",
		SynExpectLBrace:             "Expected '{'",
		SynUnclosedBrace:            "Unclosed brace",
		SynUnclosedParen:            "Unclosed parenthesis",
		SynExpectLiteral:            "Expected literal",
		SynUnexpectedTopLevel:       "Unexpected top-level token",
		SynAttributeNotAllowed:      "Attribute not allowed here",
		SynFileScopedNamespace:      "Misplaced file-scoped namespace",
		SynExpectType:               "Expected type name",
		SynEnumExpectSeparator:      "Expected ',' or '}' in enum body",
		SynTooManyErrors:            "Too many syntax errors",
		SemaInfo:                    "Semantic information",
		SemaError:                   "Semantic error",
		SemaDuplicateSymbol:         "Duplicate symbol",
		SemaDuplicateAlias:          "Duplicate import alias",
		SemaUnresolvedImport:        "Unresolved import",
		SemaUnresolvedAttribute:     "Unresolved attribute",
		SemaAmbiguousReference:      "Ambiguous reference",
		SemaNotAnAttribute:          "Type is not an attribute",
		IOLoadFileError:             "Failed to load file",
		IOWriteFileError:            "Failed to write file",
		GenInfo:                     "Generator information",
		GenNamespaceNotFound:        "Namespace not found",
		GenUnresolvedPlaceholder:    "Unresolved template placeholder",
		GenTemplateNotFound:         "Template not found",
		GenUnitOverwritten:          "Generated unit overwritten",
		ProjInfo:                    "Project information",
		ProjManifestInvalid:         "Invalid project manifest",
		ProjNoSources:               "No source files matched",
		LintInfo:                    "Lint information",
		LintTypeNameCase:            "Type naming conventions",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("GEN%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("LNT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
