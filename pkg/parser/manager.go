// Package parser parses generated JavaScript and TypeScript sources with
// tree-sitter. Parsers are pooled per dialect so verification of many
// artifacts can run concurrently.
package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/gnana997/fibersnap/pkg/util"
)

// Manager owns one parser pool per dialect, created lazily.
//
// Callers own the returned trees and must Close them. The manager itself
// must be closed to release its parsers and compiled queries.
//
// Example:
//
//	pm := parser.NewManager(logger)
//	defer pm.Close()
//
//	tree, err := pm.ParseFile("Button.tsx", src)
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
type Manager struct {
	pools    map[Dialect]*parserPool
	queries  map[Dialect]*ts.Query
	poolSize int
	mutex    sync.RWMutex
	logger   *slog.Logger

	parses int
}

// Stats reports parser usage.
type Stats struct {
	ParsersCreated int `json:"parsers_created"`
	ParsesCalled   int `json:"parses_called"`
}

// NewManager returns a manager whose pools hold up to
// util.GetOptimalPoolSize parsers each.
func NewManager(logger *slog.Logger) *Manager {
	return NewManagerWithPoolSize(logger, 0)
}

// NewManagerWithPoolSize is NewManager with an explicit pool size. A size of
// zero or less uses the CPU-based default.
func NewManagerWithPoolSize(logger *slog.Logger, size int) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		pools:    make(map[Dialect]*parserPool),
		queries:  make(map[Dialect]*ts.Query),
		poolSize: util.GetOptimalPoolSizeWithOverride(size),
		logger:   logger,
	}
}

// Parse parses src with the grammar for d. Trees with syntax errors are
// still returned; use Problems to inspect them.
func (m *Manager) Parse(src []byte, d Dialect) (*ts.Tree, error) {
	if d == DialectUnknown {
		return nil, fmt.Errorf("cannot parse unknown dialect")
	}

	m.mutex.Lock()
	m.parses++
	m.mutex.Unlock()

	pool, err := m.pool(d)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool for %s: %w", d, err)
	}

	p, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parser: %w", err)
	}
	tree := p.Parse(src, nil)
	pool.release(p)

	if tree == nil {
		return nil, fmt.Errorf("parser returned nil tree for %s", d)
	}
	return tree, nil
}

// ParseFile parses src with the dialect implied by name.
func (m *Manager) ParseFile(name string, src []byte) (*ts.Tree, error) {
	d := DialectForFile(name)
	if d == DialectUnknown {
		return nil, fmt.Errorf("unsupported file extension: %s", name)
	}
	return m.Parse(src, d)
}

// Stats returns usage counters.
func (m *Manager) Stats() Stats {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	created := 0
	for _, pool := range m.pools {
		created += pool.createdCount()
	}
	return Stats{ParsersCreated: created, ParsesCalled: m.parses}
}

// PoolSize returns the per-dialect parser limit.
func (m *Manager) PoolSize() int { return m.poolSize }

// Close releases all parsers and compiled queries.
func (m *Manager) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.logger.Debug("closing parser manager", "parses_called", m.parses, "pools", len(m.pools))

	for d, pool := range m.pools {
		pool.close()
		delete(m.pools, d)
	}
	for d, q := range m.queries {
		q.Close()
		delete(m.queries, d)
	}
	return nil
}

// pool returns the pool for d, creating it on first use.
func (m *Manager) pool(d Dialect) (*parserPool, error) {
	m.mutex.RLock()
	pool, ok := m.pools[d]
	m.mutex.RUnlock()
	if ok {
		return pool, nil
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	if pool, ok = m.pools[d]; ok {
		return pool, nil
	}

	grammar, err := Grammar(d)
	if err != nil {
		return nil, err
	}
	pool = newParserPool(d, grammar, m.poolSize, m.logger)
	m.pools[d] = pool

	m.logger.Debug("created parser pool", "dialect", d.String(), "max_size", m.poolSize)
	return pool, nil
}

// Grammar returns the tree-sitter language pointer for d.
func Grammar(d Dialect) (unsafe.Pointer, error) {
	switch d {
	case DialectTSX:
		return ts_typescript.LanguageTSX(), nil
	case DialectTypeScript:
		return ts_typescript.LanguageTypescript(), nil
	case DialectJSX:
		return ts_javascript.Language(), nil
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", d)
	}
}
