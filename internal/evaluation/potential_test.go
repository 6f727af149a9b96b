package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fxeval/internal/inference"
)

func TestEstimatePotential(t *testing.T) {
	t.Run("no actions", func(t *testing.T) {
		assert.Zero(t, EstimatePotential(nil))
		assert.Zero(t, EstimatePotential([]inference.Action{}))
	})

	t.Run("uses first action only", func(t *testing.T) {
		actions := []inference.Action{
			{Action: inference.ActionBuy, Pair: "USDJPY", Confidence: 0.5},
			{Action: inference.ActionSell, Pair: "EURUSD", Confidence: 0.9},
		}
		// 0.01 * 0.5 * 0.8 * 10000
		assert.InDelta(t, 40.0, EstimatePotential(actions), 1e-9)
	})

	t.Run("scales with confidence", func(t *testing.T) {
		one := EstimatePotential([]inference.Action{{Confidence: 1.0}})
		half := EstimatePotential([]inference.Action{{Confidence: 0.5}})
		assert.InDelta(t, 80.0, one, 1e-9)
		assert.InDelta(t, one/2, half, 1e-9)
	})
}
