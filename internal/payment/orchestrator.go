package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"divination-app/config"
	"divination-app/internal/domain/entitlement"

	"github.com/rs/zerolog/log"
)

// State of the in-flight payment attempt.
type State int

const (
	StateIdle State = iota
	StateMethodSelected
	StateIntentRequested
	StateIntentReady
	StateIntentFailed
	StateConfirming
	StateVerified
	StateVerificationFailed
	StateFulfilled
	StateFailed
	StateCancelled
)

func (s State) Terminal() bool {
	return s == StateFulfilled || s == StateFailed || s == StateCancelled
}

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMethodSelected:
		return "method_selected"
	case StateIntentRequested:
		return "intent_requested"
	case StateIntentReady:
		return "intent_ready"
	case StateIntentFailed:
		return "intent_failed"
	case StateConfirming:
		return "confirming"
	case StateVerified:
		return "verified"
	case StateVerificationFailed:
		return "verification_failed"
	case StateFulfilled:
		return "fulfilled"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Result is the terminal outcome of one attempt: StateFulfilled,
// StateCancelled, or StateFailed with a reason.
type Result struct {
	State         State
	TransactionID string
	Reason        string
}

var (
	ErrPaymentInFlight   = errors.New("a payment attempt is already in progress")
	ErrMethodUnavailable = errors.New("payment method not available on this platform")
)

// Orchestrator drives one payment attempt to a terminal outcome. Entitlement
// is mutated only after verification confirms success (or, in sandbox, after
// a simulated confirmation), and at most once per attempt.
type Orchestrator struct {
	api          IntentAPI
	confirmer    Confirmer
	entitlements *entitlement.Store
	env          config.Environment
	platform     Platform

	processing atomic.Bool

	mu    sync.Mutex
	state State
}

func NewOrchestrator(api IntentAPI, confirmer Confirmer, entitlements *entitlement.Store, env config.Environment, platform Platform) *Orchestrator {
	return &Orchestrator{
		api:          api,
		confirmer:    confirmer,
		entitlements: entitlements,
		env:          env,
		platform:     platform,
		state:        StateIdle,
	}
}

// State returns the current attempt state for the UI.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	// Once an attempt reaches a terminal state, nothing may move it again;
	// this is what keeps a late-arriving response from re-driving the flow.
	if o.state.Terminal() && !s.Terminal() {
		return
	}
	o.state = s
}

// Pay runs one attempt. Cancelling ctx at any pre-fulfilled point yields a
// Cancelled result and discards in-flight responses without touching
// entitlement. A second call while one is in flight fails immediately.
func (o *Orchestrator) Pay(ctx context.Context, method Method, req Request) (Result, error) {
	if !o.processing.CompareAndSwap(false, true) {
		return Result{}, ErrPaymentInFlight
	}
	defer o.processing.Store(false)

	// A fresh attempt starts over; the terminal guard only applies within
	// one attempt.
	o.mu.Lock()
	o.state = StateIdle
	o.mu.Unlock()
	if !methodAvailable(o.platform, method) {
		return Result{}, fmt.Errorf("%w: %s on %s", ErrMethodUnavailable, method, o.platform)
	}
	o.setState(StateMethodSelected)

	normalized, err := req.Normalize()
	if err != nil {
		return Result{}, err
	}

	o.setState(StateIntentRequested)
	intent, err := o.api.CreateIntent(ctx, normalized)
	if err != nil {
		if ctx.Err() != nil {
			return o.terminal(Result{State: StateCancelled}), nil
		}
		o.setState(StateIntentFailed)
		if o.env == config.Sandbox {
			return o.simulatedAttempt(ctx, method, normalized)
		}
		// Production: no silent fallback, the failure is surfaced as
		// retryable. A retry generates a fresh order id.
		return o.terminal(Result{State: StateFailed, Reason: fmt.Sprintf("failed to create payment intent: %v", err)}), nil
	}
	o.setState(StateIntentReady)

	o.setState(StateConfirming)
	confirmed, err := o.confirmer.Confirm(ctx, method, intent)
	if err != nil {
		return o.terminal(Result{State: StateFailed, Reason: fmt.Sprintf("wallet confirmation failed: %v", err)}), nil
	}
	switch confirmed.Outcome {
	case OutcomeCancelled:
		return o.terminal(Result{State: StateCancelled}), nil
	case OutcomeFailed:
		return o.terminal(Result{State: StateFailed, Reason: confirmed.Reason}), nil
	}
	if ctx.Err() != nil {
		return o.terminal(Result{State: StateCancelled}), nil
	}

	verified, err := o.api.VerifyPayment(ctx, intent.PaymentIntentID)
	if err != nil {
		if ctx.Err() != nil {
			return o.terminal(Result{State: StateCancelled}), nil
		}
		o.setState(StateVerificationFailed)
		return o.terminal(Result{State: StateFailed, Reason: fmt.Sprintf("payment verification failed: %v", err)}), nil
	}
	if !verified.Success {
		o.setState(StateVerificationFailed)
		return o.terminal(Result{State: StateFailed, Reason: fmt.Sprintf("payment not completed (status %s)", verified.Status)}), nil
	}
	// A cancellation that raced the verification response discards it.
	if ctx.Err() != nil {
		return o.terminal(Result{State: StateCancelled}), nil
	}
	o.setState(StateVerified)

	if err := o.entitlements.MarkPaid(); err != nil {
		return o.terminal(Result{State: StateFailed, Reason: fmt.Sprintf("failed to record entitlement: %v", err)}), nil
	}

	log.Info().Str("order_id", normalized.OrderID).Str("transaction_id", verified.TransactionID).Msg("payment fulfilled")
	return o.terminal(Result{State: StateFulfilled, TransactionID: verified.TransactionID}), nil
}

// simulatedAttempt is the sandbox-only path taken when the intent endpoint
// is unreachable during local testing. It never runs in production.
func (o *Orchestrator) simulatedAttempt(ctx context.Context, method Method, req Request) (Result, error) {
	log.Warn().Str("order_id", req.OrderID).Msg("intent creation failed, using simulated sandbox confirmation")

	o.setState(StateConfirming)
	confirmed, err := o.confirmer.Confirm(ctx, method, nil)
	if err != nil {
		return o.terminal(Result{State: StateFailed, Reason: err.Error()}), nil
	}
	switch confirmed.Outcome {
	case OutcomeCancelled:
		return o.terminal(Result{State: StateCancelled}), nil
	case OutcomeFailed:
		return o.terminal(Result{State: StateFailed, Reason: confirmed.Reason}), nil
	}
	if ctx.Err() != nil {
		return o.terminal(Result{State: StateCancelled}), nil
	}

	if err := o.entitlements.MarkPaid(); err != nil {
		return o.terminal(Result{State: StateFailed, Reason: fmt.Sprintf("failed to record entitlement: %v", err)}), nil
	}
	return o.terminal(Result{State: StateFulfilled, TransactionID: fmt.Sprintf("mock_%s_%s", method, req.OrderID)}), nil
}

func (o *Orchestrator) terminal(r Result) Result {
	o.setState(r.State)
	return r
}
