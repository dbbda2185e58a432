package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/athapong/bbslate/pkg/htmlimport"
	"github.com/athapong/bbslate/pkg/markdown"
	"github.com/athapong/bbslate/pkg/slate"
	"github.com/athapong/bbslate/pkg/transducer"
)

// RegisterConvertTools registers bbcode_to_slate, slate_to_bbcode and
// html_to_bbcode
func (ts *Toolset) RegisterConvertTools(s *server.MCPServer) {
	deserializeTool := mcp.NewTool("bbcode_to_slate",
		mcp.WithDescription("Converts BBCode markup into a Slate JSON value. Tags without a matching rule are kept as literal text."),
		mcp.WithString("markup",
			mcp.Required(),
			mcp.Description("The BBCode markup to convert"),
		),
		mcp.WithString("type",
			mcp.Description("Keep only top-level nodes of this kind: block (default) or inline"),
			mcp.Enum("block", "inline"),
		),
	)
	s.AddTool(deserializeTool, ts.guard(GroupConvert, "bbcode_to_slate", ts.bbcodeToSlateHandler))

	serializeTool := mcp.NewTool("slate_to_bbcode",
		mcp.WithDescription("Converts a Slate JSON value into BBCode markup"),
		mcp.WithString("value",
			mcp.Required(),
			mcp.Description(`The Slate value as JSON, e.g. {"object":"value","document":{"object":"document","nodes":[...]}}`),
		),
		mcp.WithString("separator",
			mcp.Description("String placed between top-level nodes (default: newline)"),
		),
	)
	s.AddTool(serializeTool, ts.guard(GroupConvert, "slate_to_bbcode", ts.slateToBBCodeHandler))

	htmlTool := mcp.NewTool("html_to_bbcode",
		mcp.WithDescription("Converts an HTML fragment into BBCode markup"),
		mcp.WithString("html",
			mcp.Required(),
			mcp.Description("The HTML to convert"),
		),
	)
	s.AddTool(htmlTool, ts.guard(GroupConvert, "html_to_bbcode", ts.htmlToBBCodeHandler))
}

// RegisterMarkdownTool registers bbcode_to_markdown
func (ts *Toolset) RegisterMarkdownTool(s *server.MCPServer) {
	tool := mcp.NewTool("bbcode_to_markdown",
		mcp.WithDescription("Renders BBCode markup as Markdown"),
		mcp.WithString("markup",
			mcp.Required(),
			mcp.Description("The BBCode markup to render"),
		),
	)
	s.AddTool(tool, ts.guard(GroupMarkdown, "bbcode_to_markdown", ts.bbcodeToMarkdownHandler))
}

func (ts *Toolset) bbcodeToSlateHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	markup, err := request.RequireString("markup")
	if err != nil {
		return mcp.NewToolResultError("markup must be a string"), nil
	}
	typ := request.GetString("type", ts.deserializeType)

	value, err := ts.transducer.Deserialize(markup, transducer.WithType(typ))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to deserialize: %v", err)), nil
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode value: %v", err)), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}

func (ts *Toolset) slateToBBCodeHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError("value must be a string"), nil
	}

	var value slate.Value
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid Slate value: %v", err)), nil
	}

	sep := request.GetString("separator", ts.separator)
	out, err := ts.transducer.Serialize(&value, transducer.WithSeparator(sep))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to serialize: %v", err)), nil
	}

	return mcp.NewToolResultText(out), nil
}

func (ts *Toolset) htmlToBBCodeHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	html, err := request.RequireString("html")
	if err != nil {
		return mcp.NewToolResultError("html must be a string"), nil
	}

	value, err := htmlimport.ImportString(html)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to import HTML: %v", err)), nil
	}

	out, err := ts.transducer.Serialize(value, transducer.WithSeparator(ts.separator))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to serialize: %v", err)), nil
	}

	return mcp.NewToolResultText(out), nil
}

func (ts *Toolset) bbcodeToMarkdownHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	markup, err := request.RequireString("markup")
	if err != nil {
		return mcp.NewToolResultError("markup must be a string"), nil
	}

	value, err := ts.transducer.Deserialize(markup)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to deserialize: %v", err)), nil
	}

	return mcp.NewToolResultText(markdown.Render(value)), nil
}
