package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLIBSVMFixture(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	for i := 0; i < 8; i++ {
		b.WriteString("cat " + strconv.Itoa(0) + ":" + strconv.FormatFloat(-10+float64(i)*0.1, 'f', 2, 64) + "\n")
	}
	for i := 0; i < 8; i++ {
		b.WriteString("dog " + strconv.Itoa(0) + ":" + strconv.FormatFloat(10+float64(i)*0.1, 'f', 2, 64) + "\n")
	}

	path := filepath.Join(t.TempDir(), "train.libsvm")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestTrainThenClassify_EndToEnd(t *testing.T) {
	trainPath := writeLIBSVMFixture(t)
	modelPath := filepath.Join(t.TempDir(), "model.json")

	trainCmd := NewRootCmd()
	var stderr bytes.Buffer
	trainCmd.SetErr(&stderr)
	trainCmd.SetArgs([]string{
		"train",
		"--input", trainPath,
		"--output", modelPath,
		"--outer-folds", "1",
		"--inner-folds", "2",
		"--resolution", "2",
		"--c-low", "0.1",
		"--c-high", "10",
		"--gamma-low", "0.01",
		"--gamma-high", "1",
		"--epochs", "2",
		"--margin", "0.05",
	})
	require.NoError(t, trainCmd.Execute())

	modelBytes, err := os.ReadFile(modelPath)
	require.NoError(t, err)
	assert.Contains(t, string(modelBytes), "max_sv_count")
	assert.Contains(t, string(modelBytes), "sv_features")

	classifyCmd := NewRootCmd()
	var out bytes.Buffer
	classifyCmd.SetOut(&out)
	classifyCmd.SetArgs([]string{
		"classify",
		"--model", modelPath,
		"--input", trainPath,
	})
	require.NoError(t, classifyCmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 16)
	for _, line := range lines {
		assert.Contains(t, line, "predicted=")
		assert.Contains(t, line, "true=")
	}
}

func TestVersionCmd_PrintsVersion(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "dev\n", out.String())
}
