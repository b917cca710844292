// Package fuzztests houses Go fuzz harnesses for the decl front end
// (source -> lexer -> parser) and the rewrites built on it: the naming fix
// and the canonical printer. Inputs must never panic, hang, or produce a
// tree whose spans fall outside the text.
//
// Назначение: загрузить байты в FileSet и прогнать их через лексер, парсер,
// исправление имени и форматирование.
package fuzztests
