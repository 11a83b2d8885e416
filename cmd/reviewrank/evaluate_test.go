package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEvaluateCmd(t *testing.T) {
	out, err := executeCommand(t, "evaluate", "--config", writeConfig(t, ""), "--folds", "2", batchPath)
	require.NoError(t, err)

	var report evaluationReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))

	assert.Equal(t, 10, report.Rows)
	assert.Greater(t, report.Columns, 2)
	assert.GreaterOrEqual(t, report.HoldOut.RMSE, 0.0)
	assert.Len(t, report.CrossValidation.FoldResults, 2)
	assert.GreaterOrEqual(t, report.CrossValidation.MeanRMSE, 0.0)
}

func TestEvaluateCmd_FoldsFromConfig(t *testing.T) {
	cfgPath := writeConfig(t, "evaluation:\n  folds: 5\n")

	out, err := executeCommand(t, "evaluate", "--config", cfgPath, batchPath)
	require.NoError(t, err)

	var report evaluationReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))
	assert.Len(t, report.CrossValidation.FoldResults, 5)
}

func TestEvaluateCmd_TooFewRows(t *testing.T) {
	_, err := executeCommand(t, "evaluate", "--config", writeConfig(t, ""), "--folds", "20", batchPath)
	assert.Error(t, err)
}
