// Package tools exposes the BBCode and Slate conversions as MCP tools.
package tools

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/athapong/bbslate/pkg/metrics"
	"github.com/athapong/bbslate/pkg/transducer"
)

// Toolset holds what the conversion tools share
type Toolset struct {
	transducer      *transducer.Transducer
	manager         *Manager
	logger          logrus.FieldLogger
	deserializeType string
	separator       string
}

// Option configures a Toolset
type Option func(*Toolset)

// WithDeserializeType sets the default for the type argument
func WithDeserializeType(typ string) Option {
	return func(ts *Toolset) {
		ts.deserializeType = typ
	}
}

// WithSeparator sets the default for the separator argument
func WithSeparator(sep string) Option {
	return func(ts *Toolset) {
		ts.separator = sep
	}
}

// NewToolset creates the tools over a transducer. Calls to a group the
// manager has disabled fail.
func NewToolset(t *transducer.Transducer, m *Manager, logger logrus.FieldLogger, opts ...Option) *Toolset {
	ts := &Toolset{
		transducer:      t,
		manager:         m,
		logger:          logger,
		deserializeType: transducer.TypeBlock,
		separator:       "\n",
	}
	for _, opt := range opts {
		opt(ts)
	}
	return ts
}

// guard checks the group is enabled, tags the call with a request ID,
// turns panics into error results and counts the outcome
func (ts *Toolset) guard(group, tool string, handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		logger := ts.logger.WithFields(logrus.Fields{
			"tool":       tool,
			"request_id": uuid.NewString(),
		})

		defer func() {
			if r := recover(); r != nil {
				logger.WithField("panic", r).Error("Tool handler panicked")
				result, err = mcp.NewToolResultError(fmt.Sprintf("internal error: %v", r)), nil
			}

			status := metrics.StatusSuccess
			if err != nil || result == nil || result.IsError {
				status = metrics.StatusError
			}
			metrics.ToolCallsTotal.WithLabelValues(tool, status).Inc()
			logger.WithField("status", status).Debug("Tool call finished")
		}()

		if ts.manager != nil && !ts.manager.Enabled(group) {
			return mcp.NewToolResultError(fmt.Sprintf("tool group %q is disabled", group)), nil
		}

		return handler(ctx, request)
	}
}
