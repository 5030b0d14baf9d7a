package modelselect

import "math"

// Range is an inclusive (low, high) search interval on the natural (not
// log) scale.
type Range struct {
	Low, High float64
}

// Candidate is one (C, gamma) hyperparameter pair.
type Candidate struct {
	C, Gamma float64
}

// EvalFunc scores a candidate (C, gamma); higher is better (e.g. a
// cross-validation accuracy).
type EvalFunc func(c, gamma float64) float64

// gridPoint is a candidate identified by its integer index into the
// log-spaced (C, gamma) grid, rather than by value - so the pattern search's
// cache and distance calculations are exact, not float-comparison-fragile.
type gridPoint struct{ cIdx, gIdx int32 }

// grid holds the log-spaced coordinate axes pattern search walks: resC
// points spanning log10(cRange), resG points spanning log10(gammaRange).
type grid struct {
	lcLow, lgLow   float64
	lcStep, lgStep float64
	resC, resG     int32
}

func newGrid(cRange, gammaRange Range, resC, resG int32) grid {
	g := grid{
		lcLow: math.Log10(cRange.Low),
		lgLow: math.Log10(gammaRange.Low),
		resC:  resC,
		resG:  resG,
	}
	if resC > 1 {
		g.lcStep = (math.Log10(cRange.High) - g.lcLow) / float64(resC-1)
	}
	if resG > 1 {
		g.lgStep = (math.Log10(gammaRange.High) - g.lgLow) / float64(resG-1)
	}
	return g
}

func (g grid) clamp(p gridPoint) gridPoint {
	if p.cIdx < 0 {
		p.cIdx = 0
	} else if p.cIdx >= g.resC {
		p.cIdx = g.resC - 1
	}
	if p.gIdx < 0 {
		p.gIdx = 0
	} else if p.gIdx >= g.resG {
		p.gIdx = g.resG - 1
	}
	return p
}

func (g grid) candidate(p gridPoint) Candidate {
	return Candidate{
		C:     math.Pow(10, g.lcLow+float64(p.cIdx)*g.lcStep),
		Gamma: math.Pow(10, g.lgLow+float64(p.gIdx)*g.lgStep),
	}
}

func (g grid) center() gridPoint {
	return gridPoint{cIdx: (g.resC - 1) / 2, gIdx: (g.resG - 1) / 2}
}

// initialScale picks the largest power of two strictly less than the
// coarser grid dimension, so the first 5-point cross spans most of the
// grid before the halving sequence narrows it toward 0.
func initialScale(resC, resG int32) int32 {
	maxRes := resC
	if resG > maxRes {
		maxRes = resG
	}
	scale := int32(1)
	for scale*2 < maxRes {
		scale *= 2
	}
	return scale
}

// Search runs spec §4.9's coarse-to-fine pattern search over a log10(C) x
// log10(gamma) grid of resC x resG points: a fixed 5-point cross {(0,0),
// (±1,0), (0,±1)} scaled by an integer step that halves to 0 whenever no
// neighbor improves on the current best, and restarts from the grid's
// farthest unexplored point until no such point remains at least
// sqrt(min(resC,resG))/2 away (in grid-index L1 distance) from everything
// already evaluated. Every evaluated (cIdx, gIdx) is cached, so the total
// number of calls to eval never exceeds resC*resG.
func Search(eval EvalFunc, cRange, gammaRange Range, resolution int) (Candidate, float64) {
	resC, resG := int32(resolution), int32(resolution)
	if resC < 1 {
		resC = 1
	}
	if resG < 1 {
		resG = 1
	}
	g := newGrid(cRange, gammaRange, resC, resG)

	evaluated := make(map[gridPoint]float64)
	score := func(p gridPoint) (gridPoint, float64) {
		p = g.clamp(p)
		if v, ok := evaluated[p]; ok {
			return p, v
		}
		c := g.candidate(p)
		v := eval(c.C, c.Gamma)
		evaluated[p] = v
		return p, v
	}

	cur, curScore := score(g.center())
	best, bestScore := cur, curScore

	restartThreshold := math.Sqrt(float64(min32(resC, resG))) / 2

	for {
		scale := initialScale(resC, resG)
		for scale > 0 {
			neighbors := [4]gridPoint{
				{cur.cIdx + scale, cur.gIdx},
				{cur.cIdx - scale, cur.gIdx},
				{cur.cIdx, cur.gIdx + scale},
				{cur.cIdx, cur.gIdx - scale},
			}

			improved := false
			for _, n := range neighbors {
				p, s := score(n)
				if s > bestScore {
					bestScore = s
					best = p
					improved = true
				}
			}

			if improved {
				cur = best
				continue
			}
			scale /= 2
		}

		restart, dist := farthestUnevaluated(evaluated, resC, resG)
		if dist < restartThreshold {
			break
		}
		p, s := score(restart)
		if s > bestScore {
			bestScore = s
			best = p
		}
		cur = p
	}

	c := g.candidate(best)
	return Candidate{C: c.C, Gamma: c.Gamma}, bestScore
}

// farthestUnevaluated scans every grid cell not yet in evaluated and returns
// the one maximizing L1 distance (in grid-index space) to the nearest
// already-evaluated cell, alongside that distance - a cheap proxy for "most
// unexplored region" that also guarantees progress (a restart always lands
// somewhere new).
func farthestUnevaluated(evaluated map[gridPoint]float64, resC, resG int32) (gridPoint, float64) {
	var best gridPoint
	bestDist := -1.0
	for cIdx := int32(0); cIdx < resC; cIdx++ {
		for gIdx := int32(0); gIdx < resG; gIdx++ {
			cand := gridPoint{cIdx, gIdx}
			if _, ok := evaluated[cand]; ok {
				continue
			}
			nearest := math.MaxFloat64
			for p := range evaluated {
				d := math.Abs(float64(cand.cIdx-p.cIdx)) + math.Abs(float64(cand.gIdx-p.gIdx))
				if d < nearest {
					nearest = d
				}
			}
			if nearest > bestDist {
				bestDist = nearest
				best = cand
			}
		}
	}
	return best, bestDist
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
