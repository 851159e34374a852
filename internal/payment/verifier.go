// Package payment verifies payment references against the Remita and
// Interswitch PayDirect gateways. The mock verifier stands in when no live
// API credentials are configured.
package payment

import "context"

// Result is the outcome of a gateway lookup for one reference.
type Result struct {
	Verified bool
	Amount   float64
}

// Verifier checks a payment reference with a gateway. A (Result{}, nil)
// return means the gateway answered and the reference is not a settled
// payment. Gateway unreachability or a malformed answer is returned as
// models.ErrVerificationUnavailable wrapped with detail.
type Verifier interface {
	Verify(ctx context.Context, reference string) (Result, error)
}

// Verifiers bundles the two gateway channels used on an entry.
type Verifiers struct {
	Remita    Verifier
	PayDirect Verifier
}
