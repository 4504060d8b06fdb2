package stripe

import "github.com/stripe/stripe-go/v75"

// NormalizeIntentStatus buckets a gateway intent status for ledger
// bookkeeping. The verify endpoint reports the raw status; payment rows
// store the bucket.
func NormalizeIntentStatus(s stripe.PaymentIntentStatus) string {
	switch s {
	case stripe.PaymentIntentStatusSucceeded:
		return "succeeded"
	case stripe.PaymentIntentStatusCanceled:
		return "canceled"
	case stripe.PaymentIntentStatusProcessing:
		return "processing"
	default:
		// requires_payment_method, requires_confirmation, requires_action,
		// requires_capture: all still in flight from our point of view.
		return "pending"
	}
}

// IntentSucceeded is the single terminal-success check used by both the
// verify endpoint and the webhook reconciler.
func IntentSucceeded(s stripe.PaymentIntentStatus) bool {
	return s == stripe.PaymentIntentStatusSucceeded
}
