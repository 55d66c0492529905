/*
Package tracing provides lightweight request tracing for PathVault.

Every HTTP request gets a span. Trace and span IDs are UUIDs, continued
from incoming X-Trace-ID / X-Span-ID headers when a caller supplies them
and echoed back on the response. Finished spans are buffered and logged
by a background collector.

# Usage

	tracer := tracing.New("pathvault", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	// Manual span creation
	span, ctx := tracer.StartSpan(ctx, "vault.archive")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()

Spans beyond the buffer (1000) are dropped with a warning rather than
blocking the request.
*/
package tracing
