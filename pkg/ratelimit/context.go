package ratelimit

import "context"

// clientIDKey is a private type for the client-id context key.
type clientIDKey struct{}

// SetClientID stores the resolved client identifier in the context.
func SetClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientIDKey{}, id)
}

// ClientIDFromContext retrieves the resolved client identifier.
// Returns empty string if enforcement did not run for this request.
func ClientIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(clientIDKey{}).(string); ok {
		return v
	}
	return ""
}
