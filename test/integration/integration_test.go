package integration

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/lucas-albers-lz4/imgtype/pkg/analysis"
	"github.com/lucas-albers-lz4/imgtype/pkg/exitcodes"
	"github.com/lucas-albers-lz4/imgtype/pkg/task"
	"github.com/lucas-albers-lz4/imgtype/pkg/testutil"
)

func TestMain(m *testing.M) {
	binDir, err := os.MkdirTemp("", "imgtype-integration-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: failed to create bin directory: %v\n", err)
		os.Exit(1)
	}
	binaryPath, err = buildBinary(binDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: failed to build imgtype binary: %v\n", err)
		os.Exit(1)
	}
	code := m.Run()
	_ = os.RemoveAll(binDir) //nolint:errcheck // best effort cleanup
	os.Exit(code)
}

func TestAnalyzeWritesModelAndReport(t *testing.T) {
	t.Parallel()
	h := NewTestHarness(t)
	h.WriteFile("model.yaml", testutil.BaseTypeOnlyModel)

	stdout, stderr := h.AssertExitCode(exitcodes.ExitSuccess,
		"analyze", "--model", "model.yaml", "--all", "--output", "out.yaml", "--report")

	var report analysis.Result
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &report))
	require.Len(t, report.Analyzed, 1)
	assert.Contains(t, stderr, `"msg":"Analysis finished"`)

	m := h.LoadModel("out.yaml")
	db, ok := m.ComponentByID("db")
	require.True(t, ok)
	typ, ok := m.TypeByID(db.Type)
	require.True(t, ok)
	assert.Equal(t, "postgres-DatabaseSystem", typ.Name)
	artifact, ok := db.DockerImageArtifact()
	require.True(t, ok)
	assert.Equal(t, "https://hub.docker.com/r/registry/postgres", artifact.FileURI)
}

func TestAnalyzeExitCodes(t *testing.T) {
	t.Parallel()
	h := NewTestHarness(t)
	h.WriteFile("model.yaml", testutil.BaseTypeOnlyModel)
	h.WriteFile("nobase.yaml", strings.Replace(testutil.BaseTypeOnlyModel, "name: BaseType", "name: Root", 1))
	h.WriteFile("broken.yaml", "componentTypes: [")

	h.AssertExitCode(exitcodes.ExitMissingRequiredFlag, "analyze", "--all")
	h.AssertExitCode(exitcodes.ExitModelNotFound, "analyze", "--model", "missing.yaml", "--all")
	h.AssertExitCode(exitcodes.ExitModelParsingError, "analyze", "--model", "broken.yaml", "--all")
	h.AssertExitCode(exitcodes.ExitNoComponents, "analyze", "--model", "model.yaml")
	_, stderr := h.AssertExitCode(exitcodes.ExitMissingBaseType, "analyze", "--model", "nobase.yaml", "--all")
	assert.Contains(t, stderr, "MissingBaseType")
}

func TestTaskRoundTripThroughStore(t *testing.T) {
	t.Parallel()
	h := NewTestHarness(t)
	processID := "0f6b1d6e-3c43-4c8b-9d1e-52a7f9b0c311"
	h.WriteFile("models/"+processID+".yaml", testutil.SharedTypeModel)
	h.WriteFile("request.json", `{
  "taskId": "9a3f0c2e-7b1d-4e55-8c6a-1f2e3d4c5b6a",
  "transformationProcessId": "`+processID+`",
  "tadmEntities": [{"tadmEntitiesType": "Component", "tadmEntityIds": ["primary"]}]
}`)

	stdout, _ := h.AssertExitCode(exitcodes.ExitSuccess, "task", "--request", "request.json")
	var resp task.Response
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.True(t, resp.Success)

	m := h.LoadModel("models/" + processID + ".yaml")
	primary, _ := m.ComponentByID("primary")
	replica, _ := m.ComponentByID("replica")
	assert.NotEqual(t, primary.Type, replica.Type)
	assert.Equal(t, "shared", replica.Type)
}

func TestValidateCommand(t *testing.T) {
	t.Parallel()
	h := NewTestHarness(t)
	h.WriteFile("model.yaml", testutil.SharedTypeModel)
	h.WriteFile("cyclic.yaml", `
componentTypes:
  - {id: base, name: BaseType}
  - {id: a, name: a, parentType: b}
  - {id: b, name: b, parentType: a}
components: []
`)

	stdout, _ := h.AssertExitCode(exitcodes.ExitSuccess, "validate", "--model", "model.yaml")
	assert.Contains(t, stdout, "is valid")
	stdout, _ = h.AssertExitCode(exitcodes.ExitModelInvalid, "validate", "--model", "cyclic.yaml")
	assert.Contains(t, stdout, "ParentCycle")
}

func TestLogLevels(t *testing.T) {
	t.Parallel()
	h := NewTestHarness(t)
	h.WriteFile("model.yaml", testutil.BaseTypeOnlyModel)
	args := []string{"analyze", "--model", "model.yaml", "--all", "--output", "out.yaml"}

	_, stderr := h.AssertExitCode(exitcodes.ExitSuccess, args...)
	assert.Contains(t, stderr, `"level":"INFO"`)
	assert.NotContains(t, stderr, `"level":"DEBUG"`)

	_, stderr = h.AssertExitCode(exitcodes.ExitSuccess, append(args, "--log-level", "error")...)
	assert.NotContains(t, stderr, `"level":"INFO"`)

	_, stderr = h.AssertExitCode(exitcodes.ExitSuccess, append(args, "--debug")...)
	assert.Contains(t, stderr, `"level":"DEBUG"`)
	assert.Contains(t, stderr, `"msg":"Classified component"`)
}

func TestHelpDefaults(t *testing.T) {
	t.Parallel()
	h := NewTestHarness(t)
	stdout, _ := h.AssertExitCode(exitcodes.ExitSuccess, "task", "--help")
	assert.Contains(t, stdout, `(default "info")`)
	assert.Contains(t, stdout, `(default "yaml")`)
	assert.Contains(t, stdout, `(default "AnalysisTaskStartRequest")`)
}
