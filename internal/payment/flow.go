package payment

import (
	"context"
	"errors"
	"fmt"

	"divination-app/internal/divination"
	"divination-app/internal/domain/entitlement"
	"divination-app/internal/history"
)

// Diviner is the consumer action deferred behind the entitlement gate.
type Diviner interface {
	Divine(ctx context.Context, req divination.Request) (*divination.Response, error)
}

var (
	ErrPaymentCancelled = errors.New("payment cancelled")
	ErrEntitlement      = errors.New("could not consume a free use")
)

// Flow gates each divination on entitlement: free uses are consumed first,
// an unlimited-mode paid user passes straight through, and everyone else
// goes through one payment attempt before the divination call.
type Flow struct {
	Entitlements *entitlement.Store
	Orchestrator *Orchestrator
	Diviner      Diviner
	History      *history.List
}

func (f *Flow) Request(ctx context.Context, method Method, payReq Request, divReq divination.Request) (*divination.Response, error) {
	switch {
	case f.Entitlements.CanUseFree():
		if !f.Entitlements.ConsumeFreeUse() {
			return nil, ErrEntitlement
		}
	case !f.Entitlements.NeedsPayment():
		// Unlimited mode with the paid flag set: nothing to consume.
	default:
		res, err := f.Orchestrator.Pay(ctx, method, payReq)
		if err != nil {
			return nil, err
		}
		switch res.State {
		case StateFulfilled:
		case StateCancelled:
			return nil, ErrPaymentCancelled
		default:
			return nil, fmt.Errorf("payment failed: %s", res.Reason)
		}
	}

	resp, err := f.Diviner.Divine(ctx, divReq)
	if err != nil {
		return nil, err
	}

	if f.History != nil {
		if err := f.History.Add(history.Item{
			N1:           divReq.N1,
			N2:           divReq.N2,
			N3:           divReq.N3,
			HexagramName: resp.HexagramName,
			ChangingLine: resp.ChangingLine,
		}); err != nil {
			// History is cosmetic; a failed write never fails the reading.
			return resp, nil
		}
	}
	return resp, nil
}
