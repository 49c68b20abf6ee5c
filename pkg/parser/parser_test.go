package parser

import (
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	m := NewManager(logger)
	t.Cleanup(func() { m.Close() })
	return m
}

const buttonTSX = `import React from 'react';
import styles from './Button.module.css';

interface ButtonProps {
  label?: string;
}

const Button = ({ label }: ButtonProps) => {
  return (
    <button className={styles.root}>{label}</button>
  );
};

export default Button;
`

func TestDialectForFile(t *testing.T) {
	tests := []struct {
		name string
		want Dialect
	}{
		{"Button.tsx", DialectTSX},
		{"Button.types.ts", DialectTypeScript},
		{"index.ts", DialectTypeScript},
		{"Button.jsx", DialectJSX},
		{"index.js", DialectJSX},
		{"Button.module.css", DialectUnknown},
		{"README.md", DialectUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DialectForFile(tt.name))
		})
	}
}

func TestParseDialect(t *testing.T) {
	assert.Equal(t, DialectTSX, ParseDialect("TSX"))
	assert.Equal(t, DialectTypeScript, ParseDialect("ts"))
	assert.Equal(t, DialectJSX, ParseDialect("javascript"))
	assert.Equal(t, DialectUnknown, ParseDialect("go"))
	assert.Equal(t, "jsx", DialectJSX.String())
}

func TestParseTSX(t *testing.T) {
	m := newTestManager(t)

	tree, err := m.Parse([]byte(buttonTSX), DialectTSX)
	require.NoError(t, err)
	defer tree.Close()

	root := tree.RootNode()
	assert.Equal(t, "program", root.Kind())
	assert.False(t, root.HasError())
	assert.Contains(t, root.ToSexp(), "jsx_element")
	assert.Empty(t, Problems(tree, []byte(buttonTSX)))
}

func TestParseJSX(t *testing.T) {
	m := newTestManager(t)
	src := []byte("const Card = () => <div className=\"card\"><span>hi</span></div>;\nexport default Card;\n")

	tree, err := m.ParseFile("Card.jsx", src)
	require.NoError(t, err)
	defer tree.Close()
	assert.False(t, tree.RootNode().HasError())
}

func TestParseFile_UnsupportedExtension(t *testing.T) {
	m := newTestManager(t)
	_, err := m.ParseFile("styles.css", []byte(".root{}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file extension")

	_, err = m.Parse([]byte("x"), DialectUnknown)
	require.Error(t, err)
}

func TestProblems_ReportsErrors(t *testing.T) {
	m := newTestManager(t)
	src := []byte("const Broken = () => {\n  return (<div>\n};\n")

	tree, err := m.Parse(src, DialectTSX)
	require.NoError(t, err, "trees with errors are still returned")
	defer tree.Close()

	problems := Problems(tree, src)
	require.NotEmpty(t, problems)
	for _, p := range problems {
		assert.GreaterOrEqual(t, p.Line, 1)
		assert.GreaterOrEqual(t, p.Column, 1)
		assert.Contains(t, []ProblemKind{ProblemError, ProblemMissing}, p.Kind)
	}
}

func TestProblems_NilTree(t *testing.T) {
	assert.Nil(t, Problems(nil, nil))
}

func TestScope(t *testing.T) {
	m := newTestManager(t)
	src := []byte(`import React, { useState } from 'react';
import { Box as MuiBox } from '@mui/material';
import * as Icons from './icons';
import Child from './Child';

function helper() {}
class Legacy extends React.Component {}
const Button = () => <MuiBox><Child /></MuiBox>;
`)

	tree, err := m.Parse(src, DialectTSX)
	require.NoError(t, err)
	defer tree.Close()

	scope, err := m.Scope(tree, src, DialectTSX)
	require.NoError(t, err)

	for _, name := range []string{"React", "useState", "MuiBox", "Icons", "Child", "helper", "Legacy", "Button"} {
		assert.True(t, scope.Has(name), "expected %s to be bound", name)
	}
	assert.False(t, scope.Has("Box"), "aliased import binds the alias only")
	assert.ElementsMatch(t, []string{"react", "@mui/material", "./icons", "./Child"}, scope.Sources)
	assert.True(t, scope.Imports("./Child"))

	for _, b := range scope.Bindings {
		if b.Name == "Child" {
			assert.True(t, b.Imported)
			assert.Equal(t, 4, b.Line)
		}
		if b.Name == "Button" {
			assert.False(t, b.Imported)
		}
	}
}

func TestScope_JavaScriptClass(t *testing.T) {
	m := newTestManager(t)
	src := []byte("import React from 'react';\nclass Panel extends React.Component {}\nexport default Panel;\n")

	tree, err := m.ParseFile("Panel.jsx", src)
	require.NoError(t, err)
	defer tree.Close()

	scope, err := m.Scope(tree, src, DialectJSX)
	require.NoError(t, err)
	assert.True(t, scope.Has("Panel"))
	assert.True(t, scope.Has("React"))
}

func TestConcurrentParsing(t *testing.T) {
	m := NewManagerWithPoolSize(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})), 4)
	defer m.Close()

	const workers = 50
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d := Dialects()[i%len(Dialects())]
			tree, err := m.Parse([]byte("const x = 1;"), d)
			if err != nil {
				errs <- err
				return
			}
			tree.Close()
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	stats := m.Stats()
	assert.Equal(t, workers, stats.ParsesCalled)
	assert.LessOrEqual(t, stats.ParsersCreated, 4*len(Dialects()))
	assert.GreaterOrEqual(t, stats.ParsersCreated, len(Dialects()))
	assert.Equal(t, 4, m.PoolSize())
}
