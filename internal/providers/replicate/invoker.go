package replicate

import (
	"context"
	"fmt"
	"time"

	"vton-server/internal/vton"
)

// Invoker adapts the predictions client to the vton.Invoker contract and
// classifies every failure as an upstream error so the service layer can map
// it uniformly. The per-call deadline bounds the whole create-and-wait cycle.
type Invoker struct {
	client  *Client
	timeout time.Duration
}

// NewInvoker wraps a client with an overall prediction deadline. A
// non-positive timeout disables the extra deadline and leaves cancellation
// to the caller's context.
func NewInvoker(client *Client, timeout time.Duration) *Invoker {
	return &Invoker{client: client, timeout: timeout}
}

// Run fulfils the vton.Invoker interface.
func (i *Invoker) Run(ctx context.Context, in vton.InvokeInputs) (string, error) {
	if i == nil || i.client == nil {
		return "", fmt.Errorf("%w: invoker not configured", vton.ErrUpstream)
	}
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	outputURL, err := i.client.Predict(ctx, PredictionInput{
		HumanImg:      in.PersonDataURI,
		GarmImg:       in.GarmentDataURI,
		GarmentDes:    in.GarmentDescription,
		Category:      string(in.Category),
		IsChecked:     true,
		IsCheckedCrop: false,
		DenoiseSteps:  in.DenoiseSteps,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", vton.ErrUpstream, err)
	}
	return outputURL, nil
}

var _ vton.Invoker = (*Invoker)(nil)
