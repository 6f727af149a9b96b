package evaluation

import "fxeval/internal/inference"

// Fixed constants of the potential-outcome approximation: typical base
// return, risk haircut, notional position size.
const (
	baseReturn     = 0.01
	riskAdjustment = 0.8
	notionalSize   = 10000
)

// EstimatePotential derives a rough hypothetical profit/loss from the
// extracted actions' confidence. This is a placeholder approximation pending
// price-based replay, not a market simulation: only the first (highest
// confidence) action participates, and an empty action list yields 0.
func EstimatePotential(actions []inference.Action) float64 {
	if len(actions) == 0 {
		return 0.0
	}
	confidence := actions[0].Confidence
	return baseReturn * confidence * riskAdjustment * notionalSize
}
