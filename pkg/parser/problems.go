package parser

import (
	ts "github.com/tree-sitter/go-tree-sitter"
)

// ProblemKind distinguishes unparseable input from tokens the parser had to
// invent.
type ProblemKind string

const (
	ProblemError   ProblemKind = "error"
	ProblemMissing ProblemKind = "missing"
)

// Problem is one syntax error in a parse tree. Positions are 1-based.
type Problem struct {
	Kind   ProblemKind `json:"kind"`
	Line   int         `json:"line"`
	Column int         `json:"column"`
	// Text is the offending source for errors and the expected token for
	// missing nodes.
	Text string `json:"text"`
}

// maxProblemText bounds the excerpt kept for ERROR nodes.
const maxProblemText = 40

// Problems lists the ERROR and MISSING nodes of tree in document order.
// Subtrees without errors are skipped.
func Problems(tree *ts.Tree, src []byte) []Problem {
	if tree == nil {
		return nil
	}
	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}
	var out []Problem
	collectProblems(root, src, &out)
	return out
}

func collectProblems(node *ts.Node, src []byte, out *[]Problem) {
	pos := node.StartPosition()
	switch {
	case node.IsMissing():
		*out = append(*out, Problem{
			Kind:   ProblemMissing,
			Line:   int(pos.Row) + 1,
			Column: int(pos.Column) + 1,
			Text:   node.Kind(),
		})
		return
	case node.IsError():
		text := node.Utf8Text(src)
		if len(text) > maxProblemText {
			text = text[:maxProblemText]
		}
		*out = append(*out, Problem{
			Kind:   ProblemError,
			Line:   int(pos.Row) + 1,
			Column: int(pos.Column) + 1,
			Text:   text,
		})
	}
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		collectProblems(child, src, out)
	}
}
