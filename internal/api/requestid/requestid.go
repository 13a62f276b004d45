// Package requestid tags each request with an identifier so log records
// and error responses can be correlated.
package requestid

import "context"

type requestIDKeyType struct{}

var requestIDKey requestIDKeyType

// InjectRequestID stores the request id in the context.
func InjectRequestID(ctx context.Context, requestID uint64) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// ExtractRequestID returns the request id stored in the context, or 0
// when the request never passed through the id middleware.
func ExtractRequestID(ctx context.Context) uint64 {
	if v, ok := ctx.Value(requestIDKey).(uint64); ok {
		return v
	}
	return 0
}
