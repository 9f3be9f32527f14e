// Package push wraps the external push-delivery capability. The engine only
// depends on the Client interface; the Firebase backend is initialized at
// most once, lazily, and an unconfigured backend degrades every delivery to
// a reported no-op instead of an error.
package push

import "context"

//go:generate mockgen -source=push.go -destination=push_mock.go -package=push

// Report describes the outcome of one batched delivery. InvalidTokens are
// destinations the backend reported as permanently dead; the dispatcher
// deactivates them. Enabled is false when the backend is not configured,
// so operators can tell "delivery disabled" from "nothing to deliver".
type Report struct {
	Delivered     int
	Failed        int
	InvalidTokens []string
	Enabled       bool
}

type Client interface {
	Deliver(ctx context.Context, tokens []string, title, body string, data map[string]string) (*Report, error)
}
