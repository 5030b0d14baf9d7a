package strategy_test

import (
	"testing"

	"github.com/katalvlaran/ollawv/strategy"
)

func TestNullStrategy_IsNoOp(t *testing.T) {
	var s strategy.Strategy = strategy.NullStrategy{}

	// Must not panic on any input, including zero values.
	s.NotifyExchange(0, 0)
	s.NotifyExchange(3, 7)
	s.ResetGenerator(nil, 0)
	s.ResetGenerator([]int32{0, 1, 0}, 2)
}
