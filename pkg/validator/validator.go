// Package validator checks generated component sources: they must parse
// cleanly, and every custom component used in their markup must be bound by
// an import or a local declaration.
package validator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gnana997/fibersnap/pkg/codegen"
	"github.com/gnana997/fibersnap/pkg/parser"
)

// Rule names.
const (
	RuleSyntax  = "syntax"
	RuleUnbound = "unbound-component"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Violation is one finding in a checked file.
type Violation struct {
	Rule     string `json:"rule"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// Result is the outcome of checking one file.
type Result struct {
	File       string        `json:"file"`
	Valid      bool          `json:"valid"`
	Violations []Violation   `json:"violations,omitempty"`
	Markup     *Markup       `json:"markup"`
	Scope      *parser.Scope `json:"scope"`
}

// Errors returns the error-severity violations.
func (r *Result) Errors() []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity == SeverityError {
			out = append(out, v)
		}
	}
	return out
}

// Options tunes the checks.
type Options struct {
	// Strict promotes unbound components from warnings to errors.
	Strict bool
}

// Validator checks sources with a shared parser manager.
type Validator struct {
	parser *parser.Manager
	opts   Options
	logger *slog.Logger
}

var _ codegen.Verifier = (*Validator)(nil)

// New returns a validator. pm is not owned by the validator.
func New(pm *parser.Manager, opts Options, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{parser: pm, opts: opts, logger: logger}
}

// Check parses src, named by file, and reports its violations, component
// usages and bindings.
func (v *Validator) Check(file string, src []byte) (*Result, error) {
	start := time.Now()
	d := parser.DialectForFile(file)
	tree, err := v.parser.Parse(src, d)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}
	defer tree.Close()

	res := &Result{File: file}
	for _, p := range parser.Problems(tree, src) {
		res.Violations = append(res.Violations, Violation{
			Rule:     RuleSyntax,
			Message:  problemMessage(p),
			Severity: SeverityError,
			Line:     p.Line,
			Column:   p.Column,
		})
	}

	res.Markup = ExtractMarkup(tree, src)
	res.Scope, err = v.parser.Scope(tree, src, d)
	if err != nil {
		return nil, fmt.Errorf("scope %s: %w", file, err)
	}

	severity := SeverityWarning
	if v.opts.Strict {
		severity = SeverityError
	}
	reported := make(map[string]bool)
	for _, u := range res.Markup.Usages {
		root := u.Root()
		if res.Scope.Has(root) || reported[root] {
			continue
		}
		reported[root] = true
		res.Violations = append(res.Violations, Violation{
			Rule:     RuleUnbound,
			Message:  fmt.Sprintf("<%s> is used but %s is neither imported nor declared", u.Name, root),
			Severity: severity,
			Line:     u.Line,
			Column:   u.Column,
		})
	}

	res.Valid = len(res.Errors()) == 0
	v.logger.Debug("checked file",
		"file", file,
		"valid", res.Valid,
		"violations", len(res.Violations),
		"usages", len(res.Markup.Usages),
		"ms", time.Since(start).Milliseconds())
	return res, nil
}

// Verify implements codegen.Verifier: it fails when Check finds any
// error-severity violation.
func (v *Validator) Verify(ctx context.Context, file string, src []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := v.Check(file, src)
	if err != nil {
		return err
	}
	if errs := res.Errors(); len(errs) > 0 {
		return &Error{File: file, Violations: errs}
	}
	return nil
}

// Error is returned by Verify for an invalid file.
type Error struct {
	File       string
	Violations []Violation
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%d:%d %s", v.Line, v.Column, v.Message))
	}
	return fmt.Sprintf("%s is invalid: %s", e.File, strings.Join(parts, "; "))
}

func problemMessage(p parser.Problem) string {
	if p.Kind == parser.ProblemMissing {
		return fmt.Sprintf("missing %q", p.Text)
	}
	return fmt.Sprintf("unexpected %q", p.Text)
}
