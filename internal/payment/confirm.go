package payment

import "context"

// Outcome of a wallet confirmation. The orchestrator's state machine owns
// the transition; the confirmer only reports what the user did.
type Outcome int

const (
	OutcomeConfirmed Outcome = iota
	OutcomeCancelled
	OutcomeFailed
)

type ConfirmResult struct {
	Outcome Outcome
	Reason  string
}

// Confirmer presents the wallet sheet and blocks until the user resolves it.
// Implementations must honor ctx cancellation.
type Confirmer interface {
	Confirm(ctx context.Context, method Method, intent *Intent) (ConfirmResult, error)
}

// SimulatedConfirmer approves every payment without charging anything. It is
// only wired up in sandbox builds; the orchestrator refuses the simulated
// path in production.
type SimulatedConfirmer struct{}

func (SimulatedConfirmer) Confirm(ctx context.Context, _ Method, _ *Intent) (ConfirmResult, error) {
	if err := ctx.Err(); err != nil {
		return ConfirmResult{Outcome: OutcomeCancelled}, nil
	}
	return ConfirmResult{Outcome: OutcomeConfirmed}, nil
}
