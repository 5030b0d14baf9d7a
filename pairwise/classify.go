package pairwise

import "math"

// Classify runs one-vs-one voting across models for the sample currently at
// queryPos in k's shared problem. Each model casts one vote for whichever of
// its two labels the decision function favors; evidence (the decision
// function's absolute margin) accumulates against both of the pair's
// labels, win or lose, and breaks ties between labels with equal votes.
//
// models' Samples already hold positions in the shared merged SV prefix (see
// Train's final merge pass), so each is used directly - the caller is
// responsible for passing a queryPos valid in that same position space (the
// shared cache's current order during training, or a freshly reconstructed
// matrix's row order when classifying against a persisted model).
func Classify(k Kernel, models []Model, numClasses int32, queryPos int32) int32 {
	votes := make([]int32, numClasses)
	evidence := make([]float64, numClasses)

	for _, m := range models {
		var decision float64
		for i, svPos := range m.Samples {
			decision += m.Alphas[i] * k.EvalKernelPair(svPos, queryPos)
		}
		decision += m.Bias

		winner, loser := m.LabelQ, m.LabelP
		if decision < 0 {
			winner, loser = m.LabelP, m.LabelQ
		}
		votes[winner]++
		mag := math.Abs(decision)
		evidence[winner] += mag
		evidence[loser] += mag
	}

	best := int32(0)
	for label := int32(1); label < numClasses; label++ {
		if votes[label] > votes[best] || (votes[label] == votes[best] && evidence[label] > evidence[best]) {
			best = label
		}
	}
	return best
}
