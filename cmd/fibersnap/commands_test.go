package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnana997/fibersnap/pkg/generator"
	"github.com/gnana997/fibersnap/pkg/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func fixture(name string) string {
	return filepath.Join("..", "..", "pkg", "snapshot", "testdata", name)
}

// run executes the CLI with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func copyFixture(t *testing.T, dir, name, as string) string {
	t.Helper()
	data, err := os.ReadFile(fixture(name))
	require.NoError(t, err)
	path := filepath.Join(dir, as)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// --- version ---

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "fibersnap "+Version)
	assert.Contains(t, out, "os/arch:")
}

// --- generate ---

func TestGenerateCmd_Stdout(t *testing.T) {
	out, err := run(t, "generate", fixture("profile.snapshot.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "// ---- ProfileCard.tsx ----")
	assert.Contains(t, out, "// ---- ProfileCard.module.css ----")
	assert.Contains(t, out, "Ada Lovelace")
}

func TestGenerateCmd_WritesPackage(t *testing.T) {
	outDir := t.TempDir()
	out, err := run(t, "generate", fixture("profile.snapshot.json"), "--out", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "ProfileCard (function, css-module)")
	assert.Contains(t, out, "wrote")

	_, err = os.Stat(filepath.Join(outDir, "ProfileCard", "ProfileCard.tsx"))
	require.NoError(t, err)

	_, err = run(t, "generate", fixture("profile.snapshot.json"), "--out", outDir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, generator.ErrExists))
	assert.Contains(t, err.Error(), "--overwrite")

	_, err = run(t, "generate", fixture("profile.snapshot.json"), "--out", outDir, "--overwrite")
	assert.NoError(t, err)
}

func TestGenerateCmd_JSON(t *testing.T) {
	out, err := run(t, "generate", fixture("profile.snapshot.json"),
		"--json", "--typescript=false", "--style", "inline", "--name", "UserCard")
	require.NoError(t, err)

	var res struct {
		Component string `json:"component"`
		Strategy  string `json:"strategy"`
		Artifacts []struct {
			Name string `json:"name"`
		} `json:"artifacts"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "UserCard", res.Component)
	assert.Equal(t, "inline", res.Strategy)
	require.NotEmpty(t, res.Artifacts)
	assert.Equal(t, "UserCard.jsx", res.Artifacts[0].Name)
}

func TestGenerateCmd_ConfigPrecedence(t *testing.T) {
	outDir := t.TempDir()
	cfg := writeConfig(t, "output_dir: "+outDir+"\ntypescript: false\ninclude_tests: true\n")

	_, err := run(t, "--config", cfg, "generate", fixture("profile.snapshot.json"))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "ProfileCard", "ProfileCard.jsx"))
	assert.FileExists(t, filepath.Join(outDir, "ProfileCard", "ProfileCard.test.jsx"))

	// The flag wins over the config file.
	_, err = run(t, "--config", cfg, "generate", fixture("profile.snapshot.json"), "--typescript", "--overwrite")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "ProfileCard", "ProfileCard.tsx"))
}

func TestGenerateCmd_Errors(t *testing.T) {
	_, err := run(t, "generate", fixture("static.snapshot.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, snapshot.ErrNoTreeNode))
	assert.Contains(t, userMessage(err), "recapture")

	_, err = run(t, "generate", fixture("profile.snapshot.json"), "--style", "sass")
	assert.ErrorContains(t, err, "unknown style strategy")

	_, err = run(t, "generate")
	assert.Error(t, err)
}

// --- inspect ---

func TestInspectCmd(t *testing.T) {
	out, err := run(t, "inspect", fixture("profile.snapshot.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "ProfileCard  [function]")
	assert.Contains(t, out, "path: ProfileCard")
	assert.Contains(t, out, "source: src/ProfileCard.tsx:12")
	assert.Contains(t, out, "selected: <h2>")
	assert.Contains(t, out, "Styles  [css-module]")
	assert.Contains(t, out, "/ada@2x.png")
	assert.Contains(t, out, "onFollow")
}

func TestInspectCmd_JSON(t *testing.T) {
	out, err := run(t, "inspect", fixture("profile.snapshot.json"), "--json", "--target", "element")
	require.NoError(t, err)

	var in map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &in))
	assert.Equal(t, "host", in["kind"])
	assert.Equal(t, "h2", in["component"])
}

// --- batch ---

func TestBatchCmd(t *testing.T) {
	dir := t.TempDir()
	copyFixture(t, dir, "profile.snapshot.json", "a.snapshot.json")
	copyFixture(t, dir, "profile.snapshot.json", "b.snapshot.json")
	copyFixture(t, dir, "static.snapshot.json", "c.snapshot.json")

	out, err := run(t, "batch", dir, "--workers", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 snapshots failed")
	assert.Equal(t, 2, strings.Count(out, "ok   "))
	assert.Equal(t, 1, strings.Count(out, "FAIL "))
	assert.Contains(t, out, "2 succeeded, 1 failed")

	out, err = run(t, "batch", dir, "--exclude", "c.*", "--json")
	require.NoError(t, err)
	var report generator.BatchReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2, report.Succeeded)
}

func TestBatchCmd_Empty(t *testing.T) {
	_, err := run(t, "batch", t.TempDir())
	assert.ErrorContains(t, err, "no snapshots found")
}

// --- watch / capture / config ---

func TestWatchCmd_NeedsOutput(t *testing.T) {
	_, err := run(t, "watch", t.TempDir())
	assert.ErrorContains(t, err, "output directory")
}

func TestCaptureCmd_RejectsURL(t *testing.T) {
	_, err := run(t, "capture", "ftp://example.test")
	assert.Error(t, err)
}

func TestRootCmd_ConfigNotFound(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "version")
	assert.ErrorContains(t, err, "not found")
}
