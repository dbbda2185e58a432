package tools

import (
	"context"
	"fmt"
	"strings"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tool groups
const (
	GroupConvert   = "convert"
	GroupMarkdown  = "markdown"
	GroupRoundtrip = "roundtrip"
)

// Group is a set of tools enabled and disabled together
type Group struct {
	Name        string
	Description string
}

// Groups lists every tool group the server knows
var Groups = []Group{
	{GroupConvert, "BBCode <-> Slate conversion, HTML import"},
	{GroupMarkdown, "BBCode to Markdown rendering"},
	{GroupRoundtrip, "BBCode round-trip checking"},
}

// Manager tracks which tool groups may currently run
type Manager struct {
	mu      sync.RWMutex
	groups  []Group
	enabled mapset.Set[string]
}

// NewManager creates a manager with the named groups enabled
func NewManager(groups []Group, enabled ...string) *Manager {
	return &Manager{
		groups:  groups,
		enabled: mapset.NewSet(enabled...),
	}
}

// Enabled reports whether tools in the group may run
func (m *Manager) Enabled(group string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled.Contains(group)
}

// Enable allows tools in the group to run
func (m *Manager) Enable(group string) error {
	if !m.known(group) {
		return fmt.Errorf("unknown tool group %q", group)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled.Add(group)
	return nil
}

// Disable stops tools in the group from running
func (m *Manager) Disable(group string) error {
	if !m.known(group) {
		return fmt.Errorf("unknown tool group %q", group)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled.Remove(group)
	return nil
}

func (m *Manager) known(group string) bool {
	for _, g := range m.groups {
		if g.Name == group {
			return true
		}
	}
	return false
}

func RegisterToolManagerTool(s *server.MCPServer, m *Manager) {
	tool := mcp.NewTool("tool_manager",
		mcp.WithDescription("Manage MCP tools - list, enable or disable tool groups"),
		mcp.WithString("action", mcp.Required(), mcp.Description("Action to perform: list, enable, disable")),
		mcp.WithString("tool_name", mcp.Description("Tool group to enable/disable")),
	)

	s.AddTool(tool, m.toolManagerHandler)
}

func (m *Manager) toolManagerHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action, err := request.RequireString("action")
	if err != nil {
		return mcp.NewToolResultError("action must be a string"), nil
	}

	switch action {
	case "list":
		var response strings.Builder
		response.WriteString("Available tools:\n")
		for _, g := range m.groups {
			status := "disabled"
			if m.Enabled(g.Name) {
				status = "enabled"
			}
			fmt.Fprintf(&response, "- %s (%s) [%s]\n", g.Name, g.Description, status)
		}
		return mcp.NewToolResultText(response.String()), nil

	case "enable", "disable":
		toolName := request.GetString("tool_name", "")
		if toolName == "" {
			return mcp.NewToolResultError("tool_name is required for enable/disable actions"), nil
		}

		toggle := m.Enable
		if action == "disable" {
			toggle = m.Disable
		}
		if err := toggle(toolName); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Successfully %sd tool: %s", action, toolName)), nil

	default:
		return mcp.NewToolResultError("Invalid action. Use 'list', 'enable', or 'disable'"), nil
	}
}
