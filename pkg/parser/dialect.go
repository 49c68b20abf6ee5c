package parser

import (
	"path/filepath"
	"strings"
)

// Dialect selects the grammar a generated file is parsed with.
type Dialect int

const (
	// DialectTSX is TypeScript with JSX (.tsx).
	DialectTSX Dialect = iota
	// DialectTypeScript is plain TypeScript (.ts, .mts, .cts).
	DialectTypeScript
	// DialectJSX is JavaScript; the grammar accepts JSX (.js, .jsx, .mjs, .cjs).
	DialectJSX
	// DialectUnknown marks files that are not script sources.
	DialectUnknown
)

// String returns the dialect name.
func (d Dialect) String() string {
	switch d {
	case DialectTSX:
		return "tsx"
	case DialectTypeScript:
		return "typescript"
	case DialectJSX:
		return "jsx"
	default:
		return "unknown"
	}
}

// DialectForFile picks the dialect from a file name's extension.
func DialectForFile(name string) Dialect {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tsx":
		return DialectTSX
	case ".ts", ".mts", ".cts":
		return DialectTypeScript
	case ".js", ".jsx", ".mjs", ".cjs":
		return DialectJSX
	default:
		return DialectUnknown
	}
}

// ParseDialect converts a dialect name. Unrecognized names yield
// DialectUnknown.
func ParseDialect(s string) Dialect {
	switch strings.ToLower(s) {
	case "tsx":
		return DialectTSX
	case "typescript", "ts":
		return DialectTypeScript
	case "jsx", "javascript", "js":
		return DialectJSX
	default:
		return DialectUnknown
	}
}

// Dialects returns every parseable dialect.
func Dialects() []Dialect {
	return []Dialect{DialectTSX, DialectTypeScript, DialectJSX}
}
