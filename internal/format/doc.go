// Package format prints a parsed tree back as canonical decl source.
//
// Назначение: `extgen parse --emit source` и проверка round-trip в тестах.
// Не делает: сохранения комментариев и исходных отступов.
// Зависимости: internal/ast, internal/parser (только CheckRoundTrip).
package format
