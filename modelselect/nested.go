package modelselect

import (
	"github.com/katalvlaran/ollawv/cv"
	"github.com/katalvlaran/ollawv/pairwise"
)

// Config bundles everything a full nested cross-validation run needs:
// the search space pattern search explores, fold counts for both CV levels,
// and the OLLAWV hyperparameters held fixed across every candidate.
type Config struct {
	CRange, GammaRange      Range
	OuterFolds, InnerFolds  int32
	Resolution              int // grid resolution shared by C and gamma, per spec.md §4.9/§7
	Epochs, Margin, UseBias float64
}

// OuterFoldResult records one outer fold's chosen hyperparameters and the
// accuracy they achieved on that fold's held-out segment.
type OuterFoldResult struct {
	Fold       int32
	Chosen     Candidate
	InnerScore float64
	Accuracy   float64
}

// Result is the outcome of a full nested cross-validation run.
type Result struct {
	Folds        []OuterFoldResult
	MeanAccuracy float64
}

// Run drives nested cross-validation over the first n positions of
// cache/k's shared problem: for each outer fold, a pattern search over
// (C, gamma) is scored by inner-fold accuracy restricted to that outer
// fold's training segment; the winning hyperparameters are retrained on the
// full outer-training segment and scored against the held-out outer test
// segment.
func Run(cache cv.Cache, k pairwise.Kernel, n, numClasses int32, cfg Config, log func(string, ...any)) Result {
	if log == nil {
		log = func(string, ...any) {}
	}

	outer := cv.NewFoldScope(cache, k, n, cfg.OuterFolds, numClasses, cv.FairFolds{})

	var result Result
	var totalCorrect, totalCount int32

	for f := int32(0); f < cfg.OuterFolds; f++ {
		trainSize := outer.HoldOut(cache, n, f)

		inner := cv.NewFoldScope(cache, k, trainSize, cfg.InnerFolds, numClasses, cv.FairFolds{})
		eval := func(c, gamma float64) float64 {
			k.SetParams(c, gamma)
			return cv.Evaluate(cache, k, inner, trainSize, cfg.InnerFolds, numClasses,
				pairwise.Params{C: c, Epochs: cfg.Epochs, Margin: cfg.Margin, UseBias: cfg.UseBias}, log)
		}
		chosen, innerScore := Search(eval, cfg.CRange, cfg.GammaRange, cfg.Resolution)

		k.SetParams(chosen.C, chosen.Gamma)
		trained := pairwise.Train(cache, k, trainSize, numClasses, pairwise.Params{
			C: chosen.C, Epochs: cfg.Epochs, Margin: cfg.Margin, UseBias: cfg.UseBias,
		}, log)

		var correct, count int32
		for pos := trainSize; pos < n; pos++ {
			want := k.Label(pos)
			got := pairwise.Classify(k, trained.Models, numClasses, pos)
			if got == want {
				correct++
			}
			count++
		}

		acc := 0.0
		if count > 0 {
			acc = float64(correct) / float64(count)
		}
		totalCorrect += correct
		totalCount += count

		log("modelselect: outer fold complete", "fold", f, "c", chosen.C, "gamma", chosen.Gamma,
			"inner_score", innerScore, "accuracy", acc)

		result.Folds = append(result.Folds, OuterFoldResult{
			Fold: f, Chosen: chosen, InnerScore: innerScore, Accuracy: acc,
		})
	}

	if totalCount > 0 {
		result.MeanAccuracy = float64(totalCorrect) / float64(totalCount)
	}
	return result
}
