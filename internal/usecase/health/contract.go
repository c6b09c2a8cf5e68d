package health

import "context"

// SourcePinger checks listing source availability.
type SourcePinger interface {
	Ping(ctx context.Context) error
}
