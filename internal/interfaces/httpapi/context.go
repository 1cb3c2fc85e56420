package httpapi

import "context"

type contextKey string

const adminIDContextKey contextKey = "admin_id"

func withAdminID(ctx context.Context, adminID string) context.Context {
	return context.WithValue(ctx, adminIDContextKey, adminID)
}

func adminIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(adminIDContextKey).(string)
	return id, ok && id != ""
}
