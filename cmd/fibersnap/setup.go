package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

const serverName = "fibersnap"

// agent describes how one AI agent registers MCP servers: through its own
// CLI, or through a JSON config file.
type agent struct {
	ID          string
	DisplayName string
	Binary      string            // CLI agents: binary on PATH
	DirMarkers  []string          // file agents: directories that indicate the agent is in use
	ConfigPath  func() string     // file agents: config file location
	ServersKey  string            // "servers" (VS Code) or "mcpServers"
	ExtraFields map[string]string // added to the server entry
}

func (a agent) usesCLI() bool { return a.Binary != "" }

// Replaceable in tests.
var (
	lookPathFunc = exec.LookPath
	statFunc     = os.Stat
	runAgentCLI  = func(w io.Writer, binary string, args ...string) error {
		cmd := exec.Command(binary, args...)
		cmd.Stdout = w
		cmd.Stderr = w
		return cmd.Run()
	}
)

var agents = []agent{
	{ID: "claude_code", DisplayName: "Claude Code", Binary: "claude"},
	{ID: "openai_codex", DisplayName: "OpenAI Codex", Binary: "codex"},
	{
		ID: "vscode_copilot", DisplayName: "VS Code Copilot",
		DirMarkers:  []string{".vscode"},
		ConfigPath:  func() string { return filepath.Join(".vscode", "mcp.json") },
		ServersKey:  "servers",
		ExtraFields: map[string]string{"type": "stdio"},
	},
	{
		ID: "cursor", DisplayName: "Cursor",
		DirMarkers: []string{".cursor"},
		ConfigPath: func() string { return filepath.Join(".cursor", "mcp.json") },
		ServersKey: "mcpServers",
	},
	{
		ID: "claude_desktop", DisplayName: "Claude Desktop",
		ConfigPath: claudeDesktopConfigPath,
		ServersKey: "mcpServers",
	},
}

func claudeDesktopConfigPath() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Claude", "claude_desktop_config.json")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "Claude", "claude_desktop_config.json")
	}
}

// detected is an agent found on this machine.
type detected struct {
	agent
	configPath string
	configured bool
}

// detectAgents returns the agents present on this machine in registry order.
func detectAgents() []detected {
	var found []detected
	for _, ag := range agents {
		if ag.usesCLI() {
			if _, err := lookPathFunc(ag.Binary); err == nil {
				found = append(found, detected{agent: ag, configured: hasServer(".mcp.json", "mcpServers")})
			}
			continue
		}

		present := false
		for _, marker := range ag.DirMarkers {
			if _, err := statFunc(marker); err == nil {
				present = true
				break
			}
		}
		path := ag.ConfigPath()
		if !present && len(ag.DirMarkers) == 0 {
			if _, err := statFunc(filepath.Dir(path)); err == nil {
				present = true
			}
		}
		if present {
			found = append(found, detected{agent: ag, configPath: path, configured: hasServer(path, ag.ServersKey)})
		}
	}
	return found
}

// hasServer reports whether the JSON config at path already lists the
// fibersnap server under serversKey.
func hasServer(path, serversKey string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var config map[string]any
	if err := json.Unmarshal(data, &config); err != nil {
		return false
	}
	servers, ok := config[serversKey].(map[string]any)
	if !ok {
		return false
	}
	_, exists := servers[serverName]
	return exists
}

func serverEntry(extra map[string]string) map[string]any {
	entry := map[string]any{
		"command": serverName,
		"args":    []any{"serve"},
	}
	for k, v := range extra {
		entry[k] = v
	}
	return entry
}

// mergeServerEntry adds the fibersnap entry under serversKey in the JSON
// config existing (which may be empty). It returns nil, nil when the entry
// is already present. Other servers and keys are preserved.
func mergeServerEntry(existing []byte, serversKey string, extra map[string]string) ([]byte, error) {
	config := make(map[string]any)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &config); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}
	servers, ok := config[serversKey].(map[string]any)
	if !ok {
		servers = make(map[string]any)
	}
	if _, exists := servers[serverName]; exists {
		return nil, nil
	}
	servers[serverName] = serverEntry(extra)
	config[serversKey] = servers

	out, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func configureFile(d detected) error {
	if err := os.MkdirAll(filepath.Dir(d.configPath), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	existing, err := os.ReadFile(d.configPath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	merged, err := mergeServerEntry(existing, d.ServersKey, d.ExtraFields)
	if err != nil || merged == nil {
		return err
	}
	return os.WriteFile(d.configPath, merged, 0o644)
}

func configureCLI(w io.Writer, d detected, scope string) error {
	args := []string{"mcp", "add"}
	if scope != "" {
		args = append(args, "--scope", scope)
	}
	args = append(args, serverName, "--", serverName, "serve")
	return runAgentCLI(w, d.Binary, args...)
}

// prompter reads answers line by line from one scanner so consecutive
// prompts share buffered input.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(r io.Reader, w io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(r), out: w}
}

// yesNo asks question and defaults to yes on an empty answer or EOF.
func (p *prompter) yesNo(question string) bool {
	fmt.Fprintf(p.out, "%s ", question)
	if !p.in.Scan() {
		return true
	}
	answer := strings.ToLower(strings.TrimSpace(p.in.Text()))
	return answer == "" || answer == "y" || answer == "yes"
}

// scope asks where a CLI agent should register the server. It returns
// "project", "user" or "" to skip.
func (p *prompter) scope(agentName string) string {
	fmt.Fprintf(p.out, "\n%s: add the %s MCP server?\n", agentName, serverName)
	fmt.Fprintln(p.out, "  [1] Project scope (shared with team)")
	fmt.Fprintln(p.out, "  [2] User scope (personal, global)")
	fmt.Fprintln(p.out, "  [3] Skip")
	fmt.Fprint(p.out, "  > ")
	if !p.in.Scan() {
		return "project"
	}
	switch strings.TrimSpace(p.in.Text()) {
	case "1", "":
		return "project"
	case "2":
		return "user"
	}
	return ""
}

// runSetup detects agents and registers the server with each one that is
// not configured yet. auto skips every prompt.
func runSetup(r io.Reader, w io.Writer, auto bool) {
	found := detectAgents()
	if len(found) == 0 {
		fmt.Fprintln(w, "No supported AI agents detected.")
		return
	}

	fmt.Fprintln(w, "Detected AI agents:")
	for _, d := range found {
		suffix := ""
		if d.configured {
			suffix = " (already configured)"
		}
		fmt.Fprintf(w, "  * %s%s\n", d.DisplayName, suffix)
	}
	fmt.Fprintln(w)

	p := newPrompter(r, w)
	if !auto && !p.yesNo("Configure agents? [Y/n]") {
		return
	}

	for _, d := range found {
		if d.configured {
			fmt.Fprintf(w, "\n%s: already configured, skipping\n", d.DisplayName)
			continue
		}
		if d.usesCLI() {
			scope := "project"
			if !auto {
				if scope = p.scope(d.DisplayName); scope == "" {
					fmt.Fprintln(w, "  skipped")
					continue
				}
			}
			if err := configureCLI(w, d, scope); err != nil {
				fmt.Fprintf(w, "  ! %s: failed: %v\n", d.DisplayName, err)
				continue
			}
			fmt.Fprintf(w, "  + %s configured (scope: %s)\n", d.DisplayName, scope)
			continue
		}

		if !auto && !p.yesNo(fmt.Sprintf("\n%s: add to %s? [Y/n]", d.DisplayName, d.configPath)) {
			fmt.Fprintln(w, "  skipped")
			continue
		}
		if err := configureFile(d); err != nil {
			fmt.Fprintf(w, "  ! %s: failed: %v\n", d.DisplayName, err)
			continue
		}
		fmt.Fprintf(w, "  + %s configured (%s)\n", d.DisplayName, d.configPath)
	}
}

func newSetupCmd() *cobra.Command {
	var auto bool
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register the MCP server with installed AI agents",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			runSetup(cmd.InOrStdin(), cmd.OutOrStdout(), auto)
		},
	}
	cmd.Flags().BoolVar(&auto, "auto", false, "configure every detected agent without prompting")
	return cmd
}
