package prompts

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/athapong/bbslate/pkg/rules"
)

func RegisterAuthoringPrompt(s *server.MCPServer) {
	prompt := mcp.NewPrompt("bbcode_authoring",
		mcp.WithPromptDescription("Write a forum post in BBCode that converts cleanly to Slate"),
		mcp.WithArgument("topic", mcp.ArgumentDescription("What the post should be about")),
	)
	s.AddPrompt(prompt, authoringHandler)
}

func authoringHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	topic := request.Params.Arguments["topic"]
	if topic == "" {
		topic = "a topic of your choice"
	}

	tags := rules.Tags().ToSlice()
	sort.Strings(tags)

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("BBCode post about %s", topic),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Write a forum post about %s using BBCode.
Use only these tags: %s.
Wrap every paragraph in [p]...[/p]. Escape literal brackets as \[ and \] and backslashes as \\.
When done, run the post through bbcode_roundtrip and fix anything the diff reports as lost.`,
						topic, strings.Join(tags, ", ")),
				},
			},
		},
	}, nil
}
