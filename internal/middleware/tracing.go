package middleware

import (
	"fmt"
	"strings"

	"socialhub/internal/observability"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Locals keys read by the tracing middleware. AuthRequired sets LocalUserID
// for mutating routes; the public reads set LocalViewerID when a valid token
// was presented.
const (
	LocalUserID   = "userID"
	LocalViewerID = "viewerID"
)

// TracingMiddleware opens a server span per request. The span is renamed to
// the matched route pattern once routing is done and tagged with the API
// resource, its id and the caller.
func TracingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), propagation.HeaderCarrier(c.GetReqHeaders()))
		ctx, span := observability.Tracer.Start(ctx, c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Method()),
				attribute.String("http.path", c.Path()),
			),
		)
		defer span.End()

		traceID := span.SpanContext().TraceID().String()
		c.Locals("traceID", traceID)
		c.Set("X-Trace-ID", traceID)
		c.SetUserContext(ctx)

		err := c.Next()

		route := c.Route().Path
		span.SetName(c.Method() + " " + route)
		span.SetAttributes(RouteAttributes(route, c.Params("id"))...)
		if requestID := c.Locals("requestid"); requestID != nil {
			span.SetAttributes(attribute.String("request.id", fmt.Sprintf("%v", requestID)))
		}
		if id, ok := callerID(c); ok {
			span.SetAttributes(attribute.Int64("socialhub.user_id", int64(id)))
		}

		status := c.Response().StatusCode()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if err != nil {
			span.RecordError(err)
		}
		if err != nil || status >= fiber.StatusInternalServerError {
			span.SetStatus(codes.Error, fmt.Sprintf("status %d", status))
		}
		return err
	}
}

// RouteAttributes names the API resource a route pattern addresses, e.g.
// "/api/posts/:id/like" is resource "posts", action "like".
func RouteAttributes(route, id string) []attribute.KeyValue {
	segments := strings.Split(strings.Trim(strings.TrimPrefix(route, "/api"), "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return nil
	}

	attrs := []attribute.KeyValue{attribute.String("socialhub.resource", segments[0])}
	if id != "" {
		attrs = append(attrs, attribute.String("socialhub.resource_id", id))
	}
	if last := segments[len(segments)-1]; len(segments) > 1 && !strings.HasPrefix(last, ":") {
		attrs = append(attrs, attribute.String("socialhub.action", last))
	}
	return attrs
}

func callerID(c *fiber.Ctx) (uint, bool) {
	for _, key := range []string{LocalUserID, LocalViewerID} {
		if id, ok := c.Locals(key).(uint); ok && id != 0 {
			return id, true
		}
	}
	return 0, false
}
