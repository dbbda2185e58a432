package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/athapong/bbslate/pkg/roundtrip"
)

// RegisterRoundtripTool registers bbcode_roundtrip
func (ts *Toolset) RegisterRoundtripTool(s *server.MCPServer) {
	tool := mcp.NewTool("bbcode_roundtrip",
		mcp.WithDescription("Converts BBCode to Slate and back, and reports whether anything was lost. Lossy conversions include a line-prefixed diff (- removed, + added)."),
		mcp.WithString("markup",
			mcp.Required(),
			mcp.Description("The BBCode markup to check"),
		),
	)
	s.AddTool(tool, ts.guard(GroupRoundtrip, "bbcode_roundtrip", ts.roundtripHandler))
}

func (ts *Toolset) roundtripHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	markup, err := request.RequireString("markup")
	if err != nil {
		return mcp.NewToolResultError("markup must be a string"), nil
	}

	report, err := roundtrip.Check(ts.transducer, markup)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("round trip failed: %v", err)), nil
	}

	var result strings.Builder
	if report.Lossless {
		result.WriteString("Round trip is lossless.\n\n")
	} else {
		result.WriteString("Round trip is lossy.\n\n")
	}
	result.WriteString("Output:\n")
	result.WriteString(report.Output)
	result.WriteString("\n")
	if report.Diff != "" {
		result.WriteString("\nDiff:\n")
		result.WriteString(report.Diff)
	}

	return mcp.NewToolResultText(result.String()), nil
}
