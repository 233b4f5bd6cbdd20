package gateway

import "fmt"

// GatewayError wraps any network/4xx/5xx failure from an external provider.
// It carries the provider name and the original message; adapters never
// retry on their own.
type GatewayError struct {
	Provider Provider
	Message  string
	Err      error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *GatewayError) Unwrap() error { return e.Err }

func NewGatewayError(p Provider, message string, err error) *GatewayError {
	return &GatewayError{Provider: p, Message: message, Err: err}
}

// WebhookVerificationError means the callback signature did not check out.
// The payload must not be processed and the gateway gets a rejection status
// so its own retry/backoff kicks in.
type WebhookVerificationError struct {
	Provider Provider
	Reason   string
}

func (e *WebhookVerificationError) Error() string {
	return fmt.Sprintf("%s webhook verification failed: %s", e.Provider, e.Reason)
}

// UnsupportedProviderError rejects an unknown provider key before any
// external call is made.
type UnsupportedProviderError struct {
	Provider Provider
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported payment provider %q", string(e.Provider))
}
