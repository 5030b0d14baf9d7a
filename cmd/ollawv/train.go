package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/ollawv/dataset"
	"github.com/katalvlaran/ollawv/kernel"
	"github.com/katalvlaran/ollawv/modelio"
	"github.com/katalvlaran/ollawv/modelselect"
	"github.com/katalvlaran/ollawv/pairwise"
	"github.com/katalvlaran/ollawv/strategy"
	"github.com/katalvlaran/ollawv/svmcache"
)

func newTrainCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a pairwise OLLAWV model via nested cross-validation and pattern search",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			if cfg.Input == "" {
				return fmt.Errorf("train: --input is required")
			}

			f, err := dataset.Open(cfg.Input)
			if err != nil {
				return err
			}
			defer f.Close()

			records, err := dataset.Parse(f)
			if err != nil {
				return err
			}

			problem, err := dataset.Build(records)
			if err != nil {
				return err
			}

			n := int32(problem.Matrix.Len())
			numClasses := int32(len(problem.LabelNames))

			k := kernel.New(problem.Matrix, problem.Labels, cfg.CLow, cfg.GammaLow, cfg.Epochs, cfg.Margin, cfg.UseBias())
			cache := svmcache.New(k, strategy.NullStrategy{}, n, cfg.CacheSize*1024*1024, slog.Default().Info)

			mscfg := modelselect.Config{
				CRange:      modelselect.Range{Low: cfg.CLow, High: cfg.CHigh},
				GammaRange:  modelselect.Range{Low: cfg.GammaLow, High: cfg.GammaHigh},
				OuterFolds:  int32(cfg.OuterFolds),
				InnerFolds:  int32(cfg.InnerFolds),
				Resolution:  cfg.Resolution,
				Epochs:      cfg.Epochs,
				Margin:      cfg.Margin,
				UseBias:     cfg.UseBias(),
			}

			result := modelselect.Run(cache, k, n, numClasses, mscfg, slog.Default().Info)
			slog.Info("nested cross-validation complete", "mean_accuracy", result.MeanAccuracy, "outer_folds", len(result.Folds))

			// Retrain on the full dataset with the last outer fold's chosen
			// hyperparameters (with outer_folds=1, the only fold) so the
			// persisted model reflects the whole problem, not just one
			// outer-training segment.
			chosen := result.Folds[len(result.Folds)-1].Chosen
			k.SetParams(chosen.C, chosen.Gamma)
			final := pairwise.Train(cache, k, n, numClasses, pairwise.Params{
				C: chosen.C, Epochs: cfg.Epochs, Margin: cfg.Margin, UseBias: cfg.UseBias(),
			}, slog.Default().Info)

			doc := modelio.Snapshot(final, problem.Matrix, chosen.Gamma, problem.LabelNames, problem.FeatureScale)

			out := os.Stdout
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer file.Close()
				out = file
			}
			if err := modelio.Encode(out, doc); err != nil {
				return fmt.Errorf("encode model: %w", err)
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "mean accuracy: %.4f, support vectors: %d\n", result.MeanAccuracy, final.MaxSVCount)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "Path to write the trained model JSON (default: stdout)")
	return cmd
}
