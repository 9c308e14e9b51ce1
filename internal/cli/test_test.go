package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triangleScenario = `name: triangle
description: full guided proof of the equilateral triangle
prop: I.1
actions:
  - circle: {center: p1, radius_point: p2}
  - circle: {center: p2, radius_point: p1}
  - mark: {of: [c1, c2]}
  - segment: {from: p1, to: p3}
  - segment: {from: p2, to: p3}
expect:
  complete: true
  conclusion: AB = AC = BC
`

const failingScenario = `name: wrong_conclusion
description: expects a conclusion the proof never states
prop: I.1
actions:
  - circle: {center: p1, radius_point: p2}
  - circle: {center: p2, radius_point: p1}
  - mark: {of: [c1, c2]}
  - segment: {from: p1, to: p3}
  - segment: {from: p2, to: p3}
expect:
  complete: true
  conclusion: AB = CD
`

func writeScenarioDir(t *testing.T, scenarios map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range scenarios {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestTest_AllScenariosPass(t *testing.T) {
	dir := writeScenarioDir(t, map[string]string{"triangle.yaml": triangleScenario})
	out, err := executeCommand(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ triangle")
	assert.Contains(t, out, "1/1 passed")
}

func TestTest_FailingScenarioSetsExitCode(t *testing.T) {
	dir := writeScenarioDir(t, map[string]string{
		"triangle.yaml": triangleScenario,
		"wrong.yaml":    failingScenario,
	})
	out, err := executeCommand(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong_conclusion")
	assert.Contains(t, out, "1/2 passed")
}

func TestTest_FilterSelectsScenarios(t *testing.T) {
	dir := writeScenarioDir(t, map[string]string{
		"triangle.yaml": triangleScenario,
		"wrong.yaml":    failingScenario,
	})
	out, err := executeCommand(t, "test", dir, "--filter", "triangle")
	require.NoError(t, err)
	assert.Contains(t, out, "1/1 passed")
}

func TestTest_EmptyDirectory(t *testing.T) {
	_, err := executeCommand(t, "test", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
