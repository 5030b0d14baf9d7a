package svmcache

import "math"

// InvalidEntry marks a mapping slot with no resident cache line, and a cache
// entry holding no sample.
const InvalidEntry int32 = -1

// minCacheDepth is the floor on columns-per-row below which a cache row
// would be too short to amortize the cost of a miss.
const minCacheDepth int32 = 256

// kernelEvaluator is the subset of *kernel.Evaluator the cache drives. Named
// locally so this package does not import kernel in its exported surface.
type kernelEvaluator interface {
	BinaryLabel(i int32) float64
	EvalKernel(id int32, from, to int32, out []float64)
	EvalKernelPair(u, v int32) float64
	UpdateBias(delta float64)
	ResetBias()
	SwapSamples(u, v int32)
	Bias() float64
}

// Strategy reacts to sample swaps; see package strategy for the production
// (no-op) implementation OLLAWV uses.
type Strategy interface {
	NotifyExchange(u, v int32)
}

// SwapListener is notified after every Swap, in addition to the cache's own
// bookkeeping and the Strategy. Used by package cv to keep fold-membership
// arrays in lock-step with the physical sample order.
type SwapListener interface {
	Notify(u, v int32)
}

// cacheEntry is one line in the fixed-size LRU ring. sample is the resident
// sample id, or InvalidEntry if the line has never been used.
type cacheEntry struct {
	prev, next int32
	sample     int32
}

// WorstViolator is the result of FindWorstViolator.
type WorstViolator struct {
	Index int32
	Value float64
}

// Cache is the central kernel cache and binary-model state shared by the
// OLLAWV trainer across one binary subproblem.
type Cache struct {
	kernel   kernelEvaluator
	strategy Strategy
	listener []SwapListener

	n           int32
	currentSize int32
	svCount     int32

	alpha  []float64
	output []float64

	fwd []int32 // fwd[originalID]  -> current position
	bwd []int32 // bwd[position]    -> originalID

	cacheSlots int32 // total float64 slots budgeted for the row store
	depth      int32 // cached columns per row
	lines      int32 // number of cache lines
	buf        []float64
	mapping    []int32 // mapping[sample] -> entry id, or InvalidEntry
	entries    []cacheEntry
	lruEntry   int32

	scratch []float64

	log func(msg string, fields ...any)
}

// New builds a Cache over n samples with a byte budget for the row store.
// listeners are notified, in order, after the cache's and strategy's own
// bookkeeping on every Swap. log may be nil.
func New(kernel kernelEvaluator, strategy Strategy, n int32, cacheBytes int, log func(string, ...any), listeners ...SwapListener) *Cache {
	if log == nil {
		log = func(string, ...any) {}
	}

	c := &Cache{
		kernel:     kernel,
		strategy:   strategy,
		listener:   listeners,
		n:          n,
		cacheSlots: cacheSlotsFor(cacheBytes, n),
		alpha:      make([]float64, n),
		output:     make([]float64, n),
		fwd:        make([]int32, n),
		bwd:        make([]int32, n),
		scratch:    make([]float64, n),
		log:        log,
	}
	for i := int32(0); i < n; i++ {
		c.fwd[i] = i
		c.bwd[i] = i
	}
	c.Reset()
	return c
}

// cacheSlotsFor translates a byte budget into a float64-slot budget per
// spec.md §4.3.1: at least 2·n slots (two full rows), never more than the
// full dense N x N kernel matrix.
func cacheSlotsFor(cacheBytes int, n int32) int32 {
	slots := int32(cacheBytes / 8)
	if floor := 2 * n; slots < floor {
		slots = floor
	}
	if ceil := n * n; slots > ceil {
		slots = ceil
	}
	return slots
}

// dims derives (depth, lines) from a slot budget and problem size: rows are
// at least minCacheDepth columns wide (and never wider than n), with as many
// lines as the remaining budget allows.
func dims(cacheSlots, n int32) (depth, lines int32) {
	depth = cacheSlots / n
	if depth < minCacheDepth {
		depth = minCacheDepth
	}
	if depth > n {
		depth = n
	}
	lines = cacheSlots / depth
	if lines > n {
		lines = n
	}
	if lines < 1 {
		lines = 1
	}
	return depth, lines
}

// Reset clears α, o, and b, restores sv_count to 1 (the virtual seed at
// index 0), and rebuilds the LRU row store at its original dimensions -
// undoing any growth a prior binary training triggered. It does not touch
// the forward/backward permutation, which tracks the physical arrangement
// of samples across trainings.
func (c *Cache) Reset() {
	for i := range c.alpha {
		c.alpha[i] = 0
		c.output[i] = 0
	}
	c.kernel.ResetBias()
	c.svCount = 1

	c.depth, c.lines = dims(c.cacheSlots, c.n)
	c.buf = make([]float64, int64(c.lines)*int64(c.depth))
	c.mapping = make([]int32, c.n)
	for i := range c.mapping {
		c.mapping[i] = InvalidEntry
	}
	c.entries = make([]cacheEntry, c.lines)
	for i := int32(0); i < c.lines; i++ {
		c.entries[i] = cacheEntry{
			prev:   (i + 1) % c.lines,
			next:   (i - 1 + c.lines) % c.lines,
			sample: InvalidEntry,
		}
	}
	c.lruEntry = c.lines - 1
}

// SetCurrentSize fixes the size of the in-problem segment [0, size) for the
// current binary subproblem; indices beyond it are held out entirely.
func (c *Cache) SetCurrentSize(size int32) { c.currentSize = size }

// CurrentSize returns the current in-problem segment size.
func (c *Cache) CurrentSize() int32 { return c.currentSize }

// SVCount returns the number of samples currently in [0, sv_count).
func (c *Cache) SVCount() int32 { return c.svCount }

// N returns the full problem size (including held-out samples).
func (c *Cache) N() int32 { return c.n }

// Alpha returns the dual coefficient of sample i.
func (c *Cache) Alpha(i int32) float64 { return c.alpha[i] }

// Alphas returns the live dual coefficient slice; callers must not retain it
// across a Reset.
func (c *Cache) Alphas() []float64 { return c.alpha }

// Output returns the decision output o[i].
func (c *Cache) Output(i int32) float64 { return c.output[i] }

// Bias returns the current bias term.
func (c *Cache) Bias() float64 { return c.kernel.Bias() }

// ForwardOrder returns fwd, where fwd[originalID] is originalID's current
// physical position. Callers must not mutate the returned slice.
func (c *Cache) ForwardOrder() []int32 { return c.fwd }

// BackwardOrder returns bwd, where bwd[position] is the original sample id
// currently occupying that position. Callers must not mutate the returned
// slice.
func (c *Cache) BackwardOrder() []int32 { return c.bwd }

// BinaryLabel returns the ±1 binary label of sample i for the current
// binary subproblem.
func (c *Cache) BinaryLabel(i int32) float64 { return c.kernel.BinaryLabel(i) }

// FindWorstViolator scans the candidate segment [sv_count, current_size) and
// returns the sample minimizing o[i]*label(i), with ties broken toward the
// lower index. If the segment is empty, Value is +Inf so that callers using
// it as a margin threshold naturally treat it as "no violator found".
func (c *Cache) FindWorstViolator() WorstViolator {
	best := WorstViolator{Index: c.svCount, Value: math.Inf(1)}
	for i := c.svCount; i < c.currentSize; i++ {
		v := c.output[i] * c.kernel.BinaryLabel(i)
		if v < best.Value {
			best = WorstViolator{Index: i, Value: v}
		}
	}
	return best
}

// SGDStep applies one OLLAWV update for worst violator w: alpha[w] += dAlpha,
// the bias advances by dBias, and every candidate's decision output absorbs
// the resulting change in the margin via the (possibly cached) kernel row
// for w.
func (c *Cache) SGDStep(w int32, dAlpha, dBias float64) {
	if c.currentSize > c.svCount {
		row := c.scratch[c.svCount:c.currentSize]
		c.fillRow(w, c.svCount, c.currentSize, row)
		for i, k := range row {
			idx := c.svCount + int32(i)
			c.output[idx] += k*dAlpha + dBias
		}
	}
	c.alpha[w] += dAlpha
	c.kernel.UpdateBias(dBias)
}

// PromoteSV moves sample w (currently a candidate) to the end of the
// support-vector prefix, growing the cache first if the prefix has outgrown
// the cached row depth. Returns w's new index.
func (c *Cache) PromoteSV(w int32) int32 {
	if w >= c.svCount {
		if c.svCount >= c.depth {
			c.growCache()
		}
		c.Swap(w, c.svCount)
		w = c.svCount
		c.svCount++
	}
	return w
}

// Swap exchanges samples u and v's entire physical identity: kernel row
// storage, labels (via kernel.SwapSamples), α, o, cache-line residency, and
// the forward/backward permutation. The configured Strategy and every
// registered SwapListener are notified last, once all cache-internal state
// is already consistent.
func (c *Cache) Swap(u, v int32) {
	if u == v {
		return
	}
	c.kernel.SwapSamples(u, v)
	c.alpha[u], c.alpha[v] = c.alpha[v], c.alpha[u]
	c.output[u], c.output[v] = c.output[v], c.output[u]

	eu, ev := c.mapping[u], c.mapping[v]
	c.mapping[u], c.mapping[v] = ev, eu
	if eu != InvalidEntry {
		c.entries[eu].sample = v
	}
	if ev != InvalidEntry {
		c.entries[ev].sample = u
	}

	c.fwd[c.bwd[u]] = v
	c.fwd[c.bwd[v]] = u
	c.bwd[u], c.bwd[v] = c.bwd[v], c.bwd[u]

	c.strategy.NotifyExchange(u, v)
	for _, l := range c.listener {
		l.Notify(u, v)
	}
}

// AddSwapListener registers an additional listener to be notified on every
// subsequent Swap.
func (c *Cache) AddSwapListener(l SwapListener) { c.listener = append(c.listener, l) }

// EvalKernelUV returns K(u, v), preferring an already-cached row over a
// fresh kernel evaluation. It never installs a new cache line - only a
// full-row request via SGDStep does that.
func (c *Cache) EvalKernelUV(u, v int32) float64 {
	if e := c.mapping[v]; e != InvalidEntry && c.depth > u {
		return c.buf[int64(e)*int64(c.depth)+int64(u)]
	}
	if e := c.mapping[u]; e != InvalidEntry && c.depth > v {
		return c.buf[int64(e)*int64(c.depth)+int64(v)]
	}
	return c.kernel.EvalKernelPair(u, v)
}

// CachedRow reports whether sample s currently has a resident cache line
// and, if so, returns its cached prefix (columns [0, depth)). Exposed for
// testing cache coherence; callers must not mutate the returned slice.
func (c *Cache) CachedRow(s int32) ([]float64, bool) {
	e := c.mapping[s]
	if e == InvalidEntry {
		return nil, false
	}
	return c.buf[int64(e)*int64(c.depth) : int64(e+1)*int64(c.depth)], true
}

// Depth returns the number of columns currently cached per row.
func (c *Cache) Depth() int32 { return c.depth }

// Lines returns the current number of cache lines.
func (c *Cache) Lines() int32 { return c.lines }

// LRULength returns the number of distinct entries reachable by walking the
// LRU ring once, starting at the current LRU pointer. It always equals the
// configured line count; exposed so tests can assert the ring never
// degenerates into a shorter or broken cycle.
func (c *Cache) LRULength() int {
	if c.lines == 0 {
		return 0
	}
	count := 1
	for e := c.entries[c.lruEntry].next; e != c.lruEntry; e = c.entries[e].next {
		count++
	}
	return count
}

// fillRow writes K(s, r) into dst[r-from] for r in [from, to), serving
// columns below the cached depth from the LRU row store (installing or
// touching a cache line) and computing any columns at or beyond depth
// directly, uncached.
func (c *Cache) fillRow(s int32, from, to int32, dst []float64) {
	limit := to
	if c.depth < limit {
		limit = c.depth
	}
	if from < limit {
		row := c.rowFor(s)
		copy(dst[:limit-from], row[from:limit])
	}
	if to > c.depth {
		start := from
		if start < c.depth {
			start = c.depth
		}
		c.kernel.EvalKernel(s, start, to, dst[start-from:])
	}
}

// rowFor returns the cached row for sample s (columns [0, depth)), installing
// it on a miss and touching it as most-recently-used on a hit.
func (c *Cache) rowFor(s int32) []float64 {
	e := c.mapping[s]
	if e == InvalidEntry {
		e = c.installEntry(s)
	} else {
		c.touch(e)
	}
	return c.buf[int64(e)*int64(c.depth) : int64(e+1)*int64(c.depth)]
}

// installEntry evicts the current LRU line, computes sample s's row over
// [0, depth) into it, and records the new residency.
func (c *Cache) installEntry(s int32) int32 {
	e := c.lruEntry
	if old := c.entries[e].sample; old != InvalidEntry {
		c.mapping[old] = InvalidEntry
	}
	c.entries[e].sample = s
	c.mapping[s] = e
	c.lruEntry = c.entries[e].next

	row := c.buf[int64(e)*int64(c.depth) : int64(e+1)*int64(c.depth)]
	c.kernel.EvalKernel(s, 0, c.depth, row)
	return e
}

// touch marks entry e as most-recently-used, splicing it out of its current
// ring position (unless it already is the LRU pointer, in which case the
// pointer simply advances) and into the slot immediately before lruEntry.
func (c *Cache) touch(e int32) {
	if e == c.lruEntry {
		c.lruEntry = c.entries[e].next
		return
	}
	p, n := c.entries[e].prev, c.entries[e].next
	c.entries[p].next = n
	c.entries[n].prev = p

	lruPrev := c.entries[c.lruEntry].prev
	c.entries[e].next = c.lruEntry
	c.entries[e].prev = lruPrev
	c.entries[c.lruEntry].prev = e
	c.entries[lruPrev].next = e
}

// growCache enlarges cached rows to 1.5x their current depth (capped at n
// columns), recomputing how many lines the slot budget affords at that
// width, and carries over the most-recently-used surviving lines; anything
// that no longer fits is dropped.
func (c *Cache) growCache() {
	newDepth := int32(math.Ceil(1.5 * float64(c.depth)))
	if newDepth > c.n {
		newDepth = c.n
	}
	if newDepth <= c.depth {
		return // already at the widest useful row; nothing to grow into
	}
	newLines := c.cacheSlots / newDepth
	if newLines > c.n {
		newLines = c.n
	}
	if newLines < 1 {
		newLines = 1
	}

	newBuf := make([]float64, int64(newLines)*int64(newDepth))
	newEntries := make([]cacheEntry, newLines)
	newMapping := make([]int32, c.n)
	for i := range newMapping {
		newMapping[i] = InvalidEntry
	}

	keep := newLines
	if keep > c.lines {
		keep = c.lines
	}
	copyDepth := c.depth
	if newDepth < copyDepth {
		copyDepth = newDepth
	}

	e := c.entries[c.lruEntry].prev // most-recently-used line
	var i int32
	for i = 0; i < keep; i++ {
		sampleID := c.entries[e].sample
		newEntries[i].sample = sampleID
		if sampleID != InvalidEntry {
			src := c.buf[int64(e)*int64(c.depth) : int64(e)*int64(c.depth)+int64(copyDepth)]
			dst := newBuf[int64(i)*int64(newDepth) : int64(i+1)*int64(newDepth)]
			copy(dst, src)
			if newDepth > copyDepth {
				// the widened prefix has no cached history yet; compute it
				// fresh so the row stays coherent at the new depth.
				c.kernel.EvalKernel(sampleID, copyDepth, newDepth, dst[copyDepth:])
			}
			newMapping[sampleID] = i
		}
		e = c.entries[e].prev
	}
	for i = keep; i < newLines; i++ {
		newEntries[i].sample = InvalidEntry
	}
	for i = 0; i < newLines; i++ {
		newEntries[i].next = (i - 1 + newLines) % newLines
		newEntries[i].prev = (i + 1) % newLines
	}

	c.buf = newBuf
	c.entries = newEntries
	c.mapping = newMapping
	c.depth = newDepth
	c.lines = newLines
	c.lruEntry = newLines - 1
	c.log("svmcache: grew cache", "depth", newDepth, "lines", newLines)
}
