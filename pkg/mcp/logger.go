package mcp

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/tempo/pkg/log"
)

// TracedToolHandler wraps an MCP ToolHandlerFor with automatic tracing and logging.
type TracedToolHandler[In, Out any] func(
	context.Context,
	*mcp.ServerSession,
	*mcp.CallToolParamsFor[In],
) (*mcp.CallToolResultFor[Out], error)

// WithTracing wraps handler in a span named after the tool. Failed calls,
// including error results, are recorded on the span and logged.
func WithTracing[In, Out any](
	tracer trace.Tracer,
	handler TracedToolHandler[In, Out],
) mcp.ToolHandlerFor[In, Out] {
	return func(
		ctx context.Context,
		session *mcp.ServerSession,
		params *mcp.CallToolParamsFor[In],
	) (*mcp.CallToolResultFor[Out], error) {
		name := params.Name

		ctx, span := tracer.Start(ctx, name, trace.WithAttributes(
			attribute.String("mcp.tool", name),
		))
		defer span.End()

		logger := log.WithContext(ctx)

		logger.DebugContext(ctx, "handling tool call",
			slog.String("name", name),
			slog.Any("progress_token", params.GetProgressToken()),
			slog.Any("args", params.Arguments),
		)

		result, err := handler(ctx, session, params)

		switch {
		case err != nil:
			logger.ErrorContext(ctx, "tool call failed",
				slog.String("name", name),
				slog.Any("error", err),
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())

		case result != nil && result.IsError:
			logger.WarnContext(ctx, "tool call returned an error result",
				slog.String("name", name),
			)
			span.SetStatus(codes.Error, "error result")

		default:
			logger.DebugContext(ctx, "tool call completed successfully",
				slog.String("name", name),
			)
		}

		return result, err
	}
}
