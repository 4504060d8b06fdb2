package entitlement

// Mode decides how a successful payment affects entitlement.
type Mode string

const (
	// PerUse requires a fresh payment for every non-free divination.
	PerUse Mode = "per_use"
	// Unlimited unlocks the app permanently after one successful payment.
	Unlimited Mode = "unlimited"
)

// FreeUsesLimit is the number of divinations granted before payment is required.
const FreeUsesLimit = 10

// State is the persisted entitlement record for one device.
type State struct {
	FreeUsesRemaining int  `json:"freeUsesRemaining"`
	TotalUses         int  `json:"totalUses"`
	HasPaid           bool `json:"hasPaid"`
}

// DefaultState is the record created on first launch.
func DefaultState() State {
	return State{FreeUsesRemaining: FreeUsesLimit}
}

// Valid reports whether a stored record is usable. Anything out of range
// falls back to DefaultState instead of erroring.
func (s State) Valid() bool {
	return s.FreeUsesRemaining >= 0 && s.FreeUsesRemaining <= FreeUsesLimit && s.TotalUses >= 0
}
