package enum

import "encoding/json"

// CheckoutState tracks a cart through a single checkout attempt.
type CheckoutState int

const (
	CheckoutIdle CheckoutState = iota
	CheckoutValidating
	CheckoutSubmitting
	CheckoutSucceeded
	CheckoutFailed
)

func (s CheckoutState) String() string {
	switch s {
	case CheckoutIdle:
		return "idle"
	case CheckoutValidating:
		return "validating"
	case CheckoutSubmitting:
		return "submitting"
	case CheckoutSucceeded:
		return "succeeded"
	case CheckoutFailed:
		return "failed"
	}
	return "unknown"
}

func (s CheckoutState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
