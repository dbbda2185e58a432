package prompts

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthoringHandler(t *testing.T) {
	var request mcp.GetPromptRequest
	request.Params.Arguments = map[string]string{"topic": "sourdough"}

	result, err := authoringHandler(context.Background(), request)
	require.NoError(t, err)

	assert.Equal(t, "BBCode post about sourdough", result.Description)
	require.Len(t, result.Messages, 1)

	text := result.Messages[0].Content.(mcp.TextContent).Text
	assert.Contains(t, text, "about sourdough")
	assert.Contains(t, text, "*, b, center, code, color")
	assert.Contains(t, text, "bbcode_roundtrip")
}

func TestAuthoringHandler_DefaultTopic(t *testing.T) {
	result, err := authoringHandler(context.Background(), mcp.GetPromptRequest{})
	require.NoError(t, err)
	assert.Equal(t, "BBCode post about a topic of your choice", result.Description)
}
