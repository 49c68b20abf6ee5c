package capture

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/fibersnap/pkg/fiber"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"http://localhost:3000", false},
		{"https://example.com/profile?tab=1", false},
		{"file:///tmp/index.html", false},
		{"ftp://example.com", true},
		{"localhost:3000", true},
		{"http://", true},
		{"://bad", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "localhost-3000-profile--card.snapshot.json", FileName("http://localhost:3000/profile", ".card"))
	assert.Equal(t, "example-com.snapshot.json", FileName("https://example.com/", "body"))
	assert.Equal(t, "example-com--main-nav-a-first-child.snapshot.json",
		FileName("https://example.com", "#main > nav a:first-child"))
	assert.Equal(t, "page.snapshot.json", FileName("", ""))
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	assert.Equal(t, DefaultTimeout, o.Timeout)
	assert.Equal(t, DefaultMaxNodes, o.MaxNodes)
	assert.Equal(t, DefaultMaxElements, o.MaxElements)
	assert.Equal(t, DefaultMaxValues, o.MaxValues)
	assert.Equal(t, DefaultMaxDepth, o.MaxDepth)

	o = Options{MaxNodes: 10}.withDefaults()
	assert.Equal(t, 10, o.MaxNodes)

	s := o.script("#root")
	assert.Equal(t, "#root", s.Selector)
	assert.Equal(t, fiber.InternalKeyPrefixes, s.Prefixes)
	assert.Contains(t, s.Important, "display")
}

func TestSnapshotScriptEmbedded(t *testing.T) {
	assert.True(t, strings.HasPrefix(snapshotScript, "function (opts)"), "script must be a bare function expression")
	for _, key := range []string{"$type", "$ref", "$items", "memoizedProps", "_debugSource", "selected"} {
		assert.Contains(t, snapshotScript, key)
	}
}

func TestDecodeResult(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "snapshot", "testdata", "profile.snapshot.json"))
	require.NoError(t, err)

	res, err := decodeResult(string(data))
	require.NoError(t, err)
	assert.Equal(t, data, res.Data)
	n, err := res.Snapshot.SelectedNode()
	require.NoError(t, err)
	assert.Equal(t, "h2", fiber.NameOf(n))

	static, err := os.ReadFile(filepath.Join("..", "snapshot", "testdata", "static.snapshot.json"))
	require.NoError(t, err)
	_, err = decodeResult(string(static))
	assert.ErrorIs(t, err, ErrNoRuntime)

	_, err = decodeResult("  ")
	assert.Error(t, err)
	_, err = decodeResult(`{"version":1,"selected":-1}`)
	assert.Error(t, err)
}

func TestCaptureRejectsBadInput(t *testing.T) {
	c := New(Options{}, nil)
	_, err := c.Capture(context.Background(), "ftp://example.com", "")
	assert.Error(t, err)

	require.NoError(t, c.Close())
	_, err = c.Capture(context.Background(), "http://localhost:1", "")
	assert.ErrorContains(t, err, "closed")
}
