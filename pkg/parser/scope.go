package parser

import (
	"fmt"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// Binding is a top-level name introduced by an import or a declaration.
type Binding struct {
	Name     string `json:"name"`
	Imported bool   `json:"imported"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// Scope is the set of names a module binds, plus the modules it imports.
type Scope struct {
	Bindings []Binding `json:"bindings"`
	Sources  []string  `json:"sources"`
}

// Has reports whether name is bound.
func (s *Scope) Has(name string) bool {
	if s == nil {
		return false
	}
	for _, b := range s.Bindings {
		if b.Name == name {
			return true
		}
	}
	return false
}

// Imports reports whether the module imports from source.
func (s *Scope) Imports(source string) bool {
	if s == nil {
		return false
	}
	for _, src := range s.Sources {
		if src == source {
			return true
		}
	}
	return false
}

const importPatterns = `
(import_statement source: (string (string_fragment) @import.source))
(import_clause (identifier) @binding.import)
(import_specifier name: (identifier) @binding.import !alias)
(import_specifier alias: (identifier) @binding.import)
(namespace_import (identifier) @binding.import)
(function_declaration name: (identifier) @binding.local)
(variable_declarator name: (identifier) @binding.local)
`

// Class names are type identifiers in the TypeScript grammars.
var scopeQueries = map[Dialect]string{
	DialectTSX:        importPatterns + "(class_declaration name: (type_identifier) @binding.local)\n",
	DialectTypeScript: importPatterns + "(class_declaration name: (type_identifier) @binding.local)\n",
	DialectJSX:        importPatterns + "(class_declaration name: (identifier) @binding.local)\n",
}

// Scope collects the bindings and import sources of a parsed module.
func (m *Manager) Scope(tree *ts.Tree, src []byte, d Dialect) (*Scope, error) {
	if tree == nil {
		return nil, fmt.Errorf("tree is nil")
	}
	query, err := m.scopeQuery(d)
	if err != nil {
		return nil, err
	}

	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	names := query.CaptureNames()
	scope := &Scope{}
	seen := make(map[string]bool)
	matches := cursor.Matches(query, tree.RootNode(), src)
	for match := matches.Next(); match != nil; match = matches.Next() {
		for _, capture := range match.Captures {
			if int(capture.Index) >= len(names) {
				continue
			}
			text := capture.Node.Utf8Text(src)
			category, field, _ := strings.Cut(names[capture.Index], ".")
			if category == "import" && field == "source" {
				scope.Sources = append(scope.Sources, text)
				continue
			}
			if seen[text] {
				continue
			}
			seen[text] = true
			pos := capture.Node.StartPosition()
			scope.Bindings = append(scope.Bindings, Binding{
				Name:     text,
				Imported: field == "import",
				Line:     int(pos.Row) + 1,
				Column:   int(pos.Column) + 1,
			})
		}
	}
	return scope, nil
}

// scopeQuery compiles the binding query for d once and caches it.
func (m *Manager) scopeQuery(d Dialect) (*ts.Query, error) {
	m.mutex.RLock()
	q, ok := m.queries[d]
	m.mutex.RUnlock()
	if ok {
		return q, nil
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	if q, ok = m.queries[d]; ok {
		return q, nil
	}

	pattern, ok := scopeQueries[d]
	if !ok {
		return nil, fmt.Errorf("no scope query for dialect %s", d)
	}
	grammar, err := Grammar(d)
	if err != nil {
		return nil, err
	}
	q, qerr := ts.NewQuery(ts.NewLanguage(grammar), pattern)
	if qerr != nil {
		return nil, fmt.Errorf("failed to compile scope query for %s: %s", d, qerr.Message)
	}
	m.queries[d] = q
	m.logger.Debug("compiled scope query", "dialect", d.String())
	return q, nil
}
