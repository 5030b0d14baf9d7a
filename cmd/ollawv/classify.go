package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/ollawv/dataset"
	"github.com/katalvlaran/ollawv/kernel"
	"github.com/katalvlaran/ollawv/modelio"
	"github.com/katalvlaran/ollawv/pairwise"
	"github.com/katalvlaran/ollawv/sample"
)

func newClassifyCmd() *cobra.Command {
	var modelPath string

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a query dataset against a previously trained model",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			if modelPath == "" {
				return fmt.Errorf("classify: --model is required")
			}
			if cfg.Input == "" {
				return fmt.Errorf("classify: --input is required")
			}

			modelFile, err := dataset.Open(modelPath)
			if err != nil {
				return err
			}
			defer modelFile.Close()

			doc, err := modelio.Decode(modelFile)
			if err != nil {
				return err
			}

			queryFile, err := dataset.Open(cfg.Input)
			if err != nil {
				return err
			}
			defer queryFile.Close()

			records, err := dataset.Parse(queryFile)
			if err != nil {
				return err
			}

			matrix, forward, queryStart, err := buildClassificationMatrix(doc, records)
			if err != nil {
				return err
			}

			labels := make([]int32, matrix.Len())
			k := kernel.New(matrix, labels, 1.0, doc.Gamma, 1.0, 1.0, 1.0)
			result := modelio.ToResult(doc)
			remapSamples(result.Models, forward)
			numClasses := int32(len(doc.LabelNames))

			w := cmd.OutOrStdout()
			for i, rec := range records {
				pos := int32(queryStart) + int32(i)
				predicted := pairwise.Classify(k, result.Models, numClasses, pos)
				name := "?"
				if int(predicted) < len(doc.LabelNames) {
					name = doc.LabelNames[predicted]
				}
				fmt.Fprintf(w, "%s\tpredicted=%s\ttrue=%s\n", recordSummary(i), name, rec.Label)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&modelPath, "model", "", "Path to a model JSON file produced by 'ollawv train'")
	return cmd
}

func recordSummary(i int) string {
	return fmt.Sprintf("query[%d]", i)
}

// remapSamples rewrites every model's Samples in place from persisted SV
// position ids to their row index in the freshly assembled classification
// matrix, per the forward table buildClassificationMatrix returns.
func remapSamples(models []pairwise.Model, forward []int32) {
	for mi := range models {
		samples := models[mi].Samples
		for i, id := range samples {
			samples[i] = forward[id]
		}
	}
}

// buildClassificationMatrix assembles a sample.Matrix from a persisted
// model's support vectors followed by the query records (each projected
// through the model's saved feature scale), and returns it alongside the
// forward table remapSamples needs (persisted SV position id -> row index in
// this matrix) and the position at which query rows begin.
func buildClassificationMatrix(doc modelio.Document, records []dataset.Record) (*sample.Matrix, []int32, int, error) {
	ids, svRows := doc.SVMatrixRows()
	scale := doc.ToFeatureScale()

	rows := make([][]sample.Feature, 0, len(svRows)+len(records))
	rows = append(rows, svRows...)

	for _, rec := range records {
		rows = append(rows, dataset.Project(scale, rec.Features))
	}

	matrix, err := sample.NewMatrix(rows, int(doc.Dim))
	if err != nil {
		return nil, nil, 0, fmt.Errorf("assemble classification matrix: %w", err)
	}

	var maxID int32
	for _, id := range ids {
		if id > maxID {
			maxID = id
		}
	}
	forward := make([]int32, maxID+1)
	for i, id := range ids {
		forward[id] = int32(i)
	}

	return matrix, forward, len(svRows), nil
}
