package strategy

// Strategy reacts to sample relocation inside svmcache.Cache's active
// problem. OLLAWV's worst-violator rule picks the next candidate itself, so
// the default implementation has nothing to do beyond bookkeeping - but the
// cache calls into this interface on every swap so that a future selection
// rule (e.g. a generator biased toward unexplored candidates) can track
// identity without the cache knowing about it.
type Strategy interface {
	// NotifyExchange is called after samples u and v have traded physical
	// positions (and all their associated state) inside the active problem.
	NotifyExchange(u, v int32)

	// ResetGenerator reinitializes any internal state the strategy keeps for
	// a fresh binary subproblem over the given label array, with labels in
	// [0, maxID).
	ResetGenerator(labels []int32, maxID int32)
}

// NullStrategy is a Strategy that does nothing. OLLAWV's candidate order is
// driven entirely by svmcache.Cache.FindWorstViolator, so this is the only
// implementation the core trainer needs.
type NullStrategy struct{}

// NotifyExchange implements Strategy.
func (NullStrategy) NotifyExchange(int32, int32) {}

// ResetGenerator implements Strategy.
func (NullStrategy) ResetGenerator([]int32, int32) {}
