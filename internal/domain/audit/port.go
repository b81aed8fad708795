package audit

import "context"

// Trail appends audit entries to durable storage, grouped by calendar day.
type Trail interface {
	Append(ctx context.Context, action string, details map[string]any, userID string) (*Entry, error)
}
