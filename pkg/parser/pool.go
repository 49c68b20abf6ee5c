package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// parserPool is a channel of parsers sharing one grammar. Parsers are
// created lazily up to maxSize; past that, acquire blocks until one is
// released.
type parserPool struct {
	pool    chan *ts.Parser
	grammar unsafe.Pointer
	dialect Dialect
	maxSize int

	mutex   sync.Mutex
	created int

	logger *slog.Logger
}

func newParserPool(d Dialect, grammar unsafe.Pointer, maxSize int, logger *slog.Logger) *parserPool {
	return &parserPool{
		pool:    make(chan *ts.Parser, maxSize),
		grammar: grammar,
		dialect: d,
		maxSize: maxSize,
		logger:  logger,
	}
}

func (p *parserPool) acquire() (*ts.Parser, error) {
	select {
	case parser := <-p.pool:
		return parser, nil
	default:
		return p.grow()
	}
}

// grow creates a parser while under maxSize, otherwise waits for a release.
func (p *parserPool) grow() (*ts.Parser, error) {
	p.mutex.Lock()
	if p.created >= p.maxSize {
		p.mutex.Unlock()
		return <-p.pool, nil
	}
	defer p.mutex.Unlock()

	parser := ts.NewParser()
	if parser == nil {
		return nil, fmt.Errorf("failed to create parser")
	}
	if err := parser.SetLanguage(ts.NewLanguage(p.grammar)); err != nil {
		parser.Close()
		return nil, fmt.Errorf("failed to set language %s: %w", p.dialect, err)
	}
	p.created++
	p.logger.Debug("created parser", "dialect", p.dialect.String(), "pool_size", p.created)
	return parser, nil
}

func (p *parserPool) release(parser *ts.Parser) {
	if parser == nil {
		return
	}
	select {
	case p.pool <- parser:
	default:
		parser.Close()
		p.logger.Warn("parser pool full, closing excess parser", "dialect", p.dialect.String())
	}
}

func (p *parserPool) close() {
	close(p.pool)
	n := 0
	for parser := range p.pool {
		parser.Close()
		n++
	}
	p.logger.Debug("closed parser pool", "dialect", p.dialect.String(), "parsers_closed", n)
}

func (p *parserPool) createdCount() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.created
}
