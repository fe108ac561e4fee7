package api

import (
	"context"
	"time"
)

// UpstreamTimeout is the default timeout for CMS round trips
const UpstreamTimeout = 10 * time.Second

// WithUpstreamTimeout creates a context bounded by the CMS timeout
func WithUpstreamTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, UpstreamTimeout)
}
