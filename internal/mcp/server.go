package mcp

import (
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/turbobar/internal/ops"
)

// KnownTypes lists all valid tool type names.
var KnownTypes = []string{"capture", "collection"}

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"capture_organize": {
		def:     organizeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleOrganize },
	},
	"capture_write": {
		def:     writeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleWrite },
	},
	"capture_list": {
		def:     listToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"capture_fetch": {
		def:     fetchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFetch },
	},
	"collection_schema": {
		def:     schemaToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSchema },
	},
}

// AllToolNames returns all valid tool names, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ValidateDisabledTools returns the entries that are neither a tool name nor
// a tool type.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; ok {
			continue
		}
		if slices.Contains(KnownTypes, name) {
			continue
		}
		unknown = append(unknown, name)
	}
	return unknown
}

// GetTypeForTool extracts the type name from a tool name.
// Tool names follow the pattern "type_action" (e.g., "capture_write" → "capture").
func GetTypeForTool(toolName string) string {
	if idx := strings.Index(toolName, "_"); idx > 0 {
		return toolName[:idx]
	}
	return ""
}

// disabledSet expands type names to their tools and returns the set of
// tools to skip.
func disabledSet(entries []string) map[string]bool {
	disabled := make(map[string]bool, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if slices.Contains(KnownTypes, entry) {
			for name := range toolRegistry {
				if GetTypeForTool(name) == entry {
					disabled[name] = true
				}
			}
			continue
		}
		disabled[entry] = true
	}
	return disabled
}

// NewServer creates a new MCP server with turbobar tools registered.
// Tools named in the config's disabled_tools, directly or by type, are
// excluded from registration.
func NewServer(env *ops.Env, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"turbobar",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(env)

	var entries []string
	if env.Config != nil {
		entries = env.Config.DisabledTools
	}
	disabled := disabledSet(entries)

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(env *ops.Env, version string) error {
	s := NewServer(env, version)
	return server.ServeStdio(s)
}
