// Package capture drives a headless Chrome through go-rod to record
// snapshots of live pages. The in-page half is an embedded script that
// serializes the selected element and the render tree around it; the Go half
// launches or connects to the browser, navigates, and validates the result
// with the snapshot decoder.
package capture

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/gnana997/fibersnap/pkg/fiber"
	"github.com/gnana997/fibersnap/pkg/snapshot"
	"github.com/gnana997/fibersnap/pkg/style"
)

// snapshotScript is a function expression evaluated with the selected
// element as this. It returns the snapshot document as a JSON string.
//
//go:embed scripts/snapshot.js
var snapshotScript string

// ErrNoRuntime is returned when the selected element carries no render tree
// node, usually because the page does not use the runtime.
var ErrNoRuntime = errors.New("page has no component runtime on the selected element")

// Defaults applied by Options.withDefaults.
const (
	DefaultSelector    = "body"
	DefaultTimeout     = 30 * time.Second
	DefaultMaxNodes    = 2000
	DefaultMaxElements = 500
	DefaultMaxValues   = 50000
	DefaultMaxDepth    = 200
)

// Options configures a Capturer.
type Options struct {
	// ControlURL is the DevTools endpoint of a running Chrome (a ws:// URL,
	// an http:// address or a bare port). Empty launches a local Chrome.
	ControlURL string
	// Bin overrides the Chrome binary used when launching.
	Bin string
	// Headful shows the launched browser window.
	Headful bool
	// Stealth opens pages with automation fingerprints removed.
	Stealth bool

	Timeout time.Duration
	// Settle is an extra wait after load for client rendering to finish.
	Settle time.Duration

	MaxNodes    int
	MaxElements int
	MaxValues   int
	MaxDepth    int
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxNodes <= 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	if o.MaxElements <= 0 {
		o.MaxElements = DefaultMaxElements
	}
	if o.MaxValues <= 0 {
		o.MaxValues = DefaultMaxValues
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}

// scriptOptions is the argument passed to the embedded script.
type scriptOptions struct {
	Version         int      `json:"version"`
	Selector        string   `json:"selector"`
	Prefixes        []string `json:"prefixes"`
	ContainerPrefix string   `json:"containerPrefix"`
	Important       []string `json:"important"`
	MaxNodes        int      `json:"maxNodes"`
	MaxElements     int      `json:"maxElements"`
	MaxValues       int      `json:"maxValues"`
	MaxDepth        int      `json:"maxDepth"`
}

func (o Options) script(selector string) scriptOptions {
	return scriptOptions{
		Version:         snapshot.CurrentVersion,
		Selector:        selector,
		Prefixes:        fiber.InternalKeyPrefixes,
		ContainerPrefix: fiber.ContainerKeyPrefix,
		Important:       style.ImportantProperties,
		MaxNodes:        o.MaxNodes,
		MaxElements:     o.MaxElements,
		MaxValues:       o.MaxValues,
		MaxDepth:        o.MaxDepth,
	}
}

// Result is one capture.
type Result struct {
	// Data is the snapshot document as written to disk.
	Data     []byte
	Snapshot *snapshot.Snapshot
}

// Capturer records snapshots. The browser is started on first use and
// reused until Close.
//
// Usage:
//
//	c := capture.New(capture.Options{Stealth: true}, logger)
//	defer c.Close()
//	res, err := c.Capture(ctx, "http://localhost:3000", "#profile")
type Capturer struct {
	opts   Options
	logger *slog.Logger

	mu      sync.Mutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	closed  bool
}

// New returns a Capturer. No browser is started until Capture is called.
func New(opts Options, logger *slog.Logger) *Capturer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Capturer{opts: opts.withDefaults(), logger: logger}
}

// Capture opens pageURL, waits for selector and records a snapshot with the
// first matching element selected.
func (c *Capturer) Capture(ctx context.Context, pageURL, selector string) (*Result, error) {
	if err := ValidateURL(pageURL); err != nil {
		return nil, err
	}
	if selector == "" {
		selector = DefaultSelector
	}

	b, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	page, err := c.openPage(b)
	if err != nil {
		return nil, err
	}
	defer page.Close()
	page = page.Context(ctx)

	if err := page.Navigate(pageURL); err != nil {
		return nil, fmt.Errorf("capture: navigate %s: %w", pageURL, err)
	}
	if err := page.WaitLoad(); err != nil {
		c.logger.Warn("capture: wait load failed", "url", pageURL, "error", err)
	}
	if c.opts.Settle > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.opts.Settle):
		}
	}

	el, err := page.Element(selector)
	if err != nil {
		return nil, fmt.Errorf("capture: element %q: %w", selector, err)
	}
	res, err := el.Eval(snapshotScript, c.opts.script(selector))
	if err != nil {
		return nil, fmt.Errorf("capture: evaluate snapshot script: %w", err)
	}

	out, err := decodeResult(res.Value.Str())
	if err != nil {
		return nil, err
	}
	c.logger.Info("captured snapshot",
		"url", pageURL,
		"selector", selector,
		"elements", len(out.Snapshot.Elements()),
		"nodes", len(out.Snapshot.Nodes()),
		"ms", time.Since(start).Milliseconds())
	return out, nil
}

// decodeResult validates the script output.
func decodeResult(data string) (*Result, error) {
	if strings.TrimSpace(data) == "" {
		return nil, fmt.Errorf("capture: snapshot script returned nothing")
	}
	snap, err := snapshot.Decode([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	if _, err := snap.SelectedNode(); err != nil {
		if errors.Is(err, snapshot.ErrNoTreeNode) {
			return nil, ErrNoRuntime
		}
		return nil, fmt.Errorf("capture: %w", err)
	}
	return &Result{Data: []byte(data), Snapshot: snap}, nil
}

func (c *Capturer) openPage(b *rod.Browser) (*rod.Page, error) {
	var (
		page *rod.Page
		err  error
	)
	if c.opts.Stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		return nil, fmt.Errorf("capture: create page: %w", err)
	}
	return page, nil
}

// connect returns the shared browser, starting it if needed.
func (c *Capturer) connect(ctx context.Context) (*rod.Browser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, fmt.Errorf("capture: capturer is closed")
	}
	if c.browser != nil {
		return c.browser, nil
	}

	var wsURL string
	if c.opts.ControlURL != "" {
		u, err := launcher.ResolveURL(c.opts.ControlURL)
		if err != nil {
			return nil, fmt.Errorf("capture: resolve %s: %w", c.opts.ControlURL, err)
		}
		wsURL = u
		c.logger.Info("capture: connecting to browser", "url", wsURL)
	} else {
		l := launcher.New().Headless(!c.opts.Headful)
		if c.opts.Bin != "" {
			l = l.Bin(c.opts.Bin)
		}
		l = l.Set("disable-blink-features", "AutomationControlled")
		u, err := l.Context(ctx).Launch()
		if err != nil {
			return nil, fmt.Errorf("capture: launch browser: %w", err)
		}
		wsURL = u
		c.lnch = l
		c.logger.Info("capture: launched browser", "url", wsURL, "headful", c.opts.Headful)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		c.cleanup()
		return nil, fmt.Errorf("capture: connect: %w", err)
	}
	c.browser = b
	return b, nil
}

// Close shuts down the browser if this Capturer launched it, or disconnects
// from a remote one.
func (c *Capturer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return c.cleanup()
}

func (c *Capturer) cleanup() error {
	var err error
	if c.browser != nil {
		err = c.browser.Close()
		c.browser = nil
	}
	if c.lnch != nil {
		c.lnch.Cleanup()
		c.lnch = nil
	}
	return err
}

// ValidateURL accepts absolute http, https and file URLs.
func ValidateURL(pageURL string) error {
	u, err := url.Parse(pageURL)
	if err != nil {
		return fmt.Errorf("capture: invalid url %q: %w", pageURL, err)
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return fmt.Errorf("capture: url %q has no host", pageURL)
		}
	case "file":
	default:
		return fmt.Errorf("capture: unsupported url scheme %q", u.Scheme)
	}
	return nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// FileName derives a snapshot file name from a page URL and selector, e.g.
// "localhost-3000-profile--card.snapshot.json".
func FileName(pageURL, selector string) string {
	base := pageURL
	if u, err := url.Parse(pageURL); err == nil && u.Scheme != "" {
		base = u.Host + u.Path
	}
	name := slug(base)
	if s := slug(selector); s != "" && selector != DefaultSelector {
		if name == "" {
			name = s
		} else {
			name += "--" + s
		}
	}
	if name == "" {
		name = "page"
	}
	return name + ".snapshot.json"
}

func slug(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
