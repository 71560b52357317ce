package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHCL(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestLoad_ManifestAndPipeline(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeHCL(t, dir, "manifest.hcl", `
runner "wrangle" {
  description = "Cleans the dataset."
  lifecycle {
    on_run = "OnRunWrangle"
  }
  input "input_path" {}
  input "min_ratings" {
    default = 0
  }
  output "path" {}
}

asset "http_client" {
  lifecycle {
    create  = "CreateHttpClient"
    destroy = "DestroyHttpClient"
  }
  input "timeout" {
    default = "90s"
  }
}
`)
	writeHCL(t, dir, "pipeline.hcl", `
pipeline {
  name     = "refresh"
  schedule = "0 4 * * 1"
}

resource "http_client" "shared" {
  arguments {
    timeout = "120s"
  }
}

step "wrangle" "clean" {
  arguments {
    input_path = "raw.csv"
  }
  depends_on = ["resource.http_client.shared"]
}
`)

	model, converter, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.NotNil(t, converter)

	assert.Equal(t, "refresh", model.Pipeline.Name)
	assert.Equal(t, "0 4 * * 1", model.Pipeline.Schedule)

	require.Contains(t, model.Runners, "wrangle")
	wr := model.Runners["wrangle"]
	assert.Equal(t, "OnRunWrangle", wr.Lifecycle.OnRun)
	require.Contains(t, wr.Inputs, "input_path")
	assert.False(t, wr.Inputs["input_path"].Optional, "input without default is required")
	require.Contains(t, wr.Inputs, "min_ratings")
	assert.True(t, wr.Inputs["min_ratings"].Optional, "input with default is optional")
	require.NotNil(t, wr.Inputs["min_ratings"].Default)

	require.Contains(t, model.Assets, "http_client")
	assert.Equal(t, "CreateHttpClient", model.Assets["http_client"].Lifecycle.Create)
	assert.Equal(t, "DestroyHttpClient", model.Assets["http_client"].Lifecycle.Destroy)

	require.Len(t, model.Pipeline.Steps, 1)
	step := model.Pipeline.Steps[0]
	assert.Equal(t, "wrangle", step.RunnerType)
	assert.Equal(t, "clean", step.Name)
	assert.Contains(t, step.Arguments, "input_path")
	assert.Equal(t, []string{"resource.http_client.shared"}, step.DependsOn)

	require.Len(t, model.Pipeline.Resources, 1)
	assert.Equal(t, "http_client", model.Pipeline.Resources[0].AssetType)
	assert.Contains(t, model.Pipeline.Resources[0].Arguments, "timeout")
}

func TestLoad_SingleFilePath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeHCL(t, dir, "only.hcl", `
step "wrangle" "clean" {}
`)

	model, _, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, model.Pipeline.Steps, 1)
}

func TestLoad_DuplicateRunnerManifest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeHCL(t, dir, "a.hcl", `
runner "wrangle" {
  lifecycle {
    on_run = "OnRunWrangle"
  }
}
`)
	writeHCL(t, dir, "b.hcl", `
runner "wrangle" {
  lifecycle {
    on_run = "OnRunWrangleAgain"
  }
}
`)

	_, _, err := NewLoader().Load(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate runner manifest")
}

func TestLoad_ParseError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeHCL(t, dir, "bad.hcl", `step "x" {`)

	_, _, err := NewLoader().Load(context.Background(), dir)
	require.Error(t, err)
}

func TestLoad_UnsupportedBlock(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeHCL(t, dir, "bad.hcl", `
metadata "x" {
  a = 1
}
`)

	_, _, err := NewLoader().Load(context.Background(), dir)
	require.Error(t, err)
}
