package dag_test

import (
	"context"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/bggflow/internal/config"
	"github.com/vk/bggflow/internal/dag"
	"github.com/vk/bggflow/internal/registry"
)

func testRegistry(runnerTypes ...string) *registry.Registry {
	r := registry.New()
	for _, typ := range runnerTypes {
		r.DefinitionRegistry[typ] = &config.RunnerDefinition{
			Type:      typ,
			Lifecycle: &config.Lifecycle{OnRun: "OnRunTest"},
		}
	}
	return r
}

func expr(t *testing.T, src string) hcl.Expression {
	t.Helper()
	e, diags := hclsyntax.ParseExpression([]byte(src), "test.hcl", hcl.InitialPos)
	require.False(t, diags.HasErrors(), diags.Error())
	return e
}

func TestBuild_ExplicitDependencies(t *testing.T) {
	t.Parallel()

	model := &config.Model{
		Pipeline: &config.Pipeline{
			Steps: []*config.Step{
				{RunnerType: "work", Name: "first"},
				{RunnerType: "work", Name: "second", DependsOn: []string{"step.work.first"}},
			},
		},
	}

	graph, err := dag.Build(context.Background(), model, testRegistry("work"))
	require.NoError(t, err)
	require.Len(t, graph.Nodes, 2)

	second := graph.Nodes["step.work.second"]
	require.NotNil(t, second)
	require.Len(t, second.Deps, 1)
	assert.Equal(t, "step.work.first", second.Deps[0].ID)
}

func TestBuild_ImplicitDependencyFromExpression(t *testing.T) {
	t.Parallel()

	model := &config.Model{
		Pipeline: &config.Pipeline{
			Steps: []*config.Step{
				{RunnerType: "work", Name: "first"},
				{
					RunnerType: "work",
					Name:       "second",
					Arguments: map[string]hcl.Expression{
						"value": expr(t, "step.work.first.output.sum"),
					},
				},
			},
		},
	}

	graph, err := dag.Build(context.Background(), model, testRegistry("work"))
	require.NoError(t, err)

	second := graph.Nodes["step.work.second"]
	require.Len(t, second.Deps, 1)
	assert.Equal(t, "step.work.first", second.Deps[0].ID)
}

func TestBuild_UnknownRunnerType(t *testing.T) {
	t.Parallel()

	model := &config.Model{
		Pipeline: &config.Pipeline{
			Steps: []*config.Step{{RunnerType: "ghost", Name: "x"}},
		},
	}

	_, err := dag.Build(context.Background(), model, testRegistry("work"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown runner type")
}

func TestBuild_UnknownDependsOnTarget(t *testing.T) {
	t.Parallel()

	model := &config.Model{
		Pipeline: &config.Pipeline{
			Steps: []*config.Step{
				{RunnerType: "work", Name: "x", DependsOn: []string{"step.work.missing"}},
			},
		},
	}

	_, err := dag.Build(context.Background(), model, testRegistry("work"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown node")
}

func TestBuild_DuplicateStep(t *testing.T) {
	t.Parallel()

	model := &config.Model{
		Pipeline: &config.Pipeline{
			Steps: []*config.Step{
				{RunnerType: "work", Name: "x"},
				{RunnerType: "work", Name: "x"},
			},
		},
	}

	_, err := dag.Build(context.Background(), model, testRegistry("work"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate step")
}

func TestBuild_SelfDependency(t *testing.T) {
	t.Parallel()

	model := &config.Model{
		Pipeline: &config.Pipeline{
			Steps: []*config.Step{
				{RunnerType: "work", Name: "x", DependsOn: []string{"step.work.x"}},
			},
		},
	}

	_, err := dag.Build(context.Background(), model, testRegistry("work"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot depend on itself")
}

func TestBuild_CycleDetected(t *testing.T) {
	t.Parallel()

	model := &config.Model{
		Pipeline: &config.Pipeline{
			Steps: []*config.Step{
				{RunnerType: "work", Name: "a", DependsOn: []string{"step.work.c"}},
				{RunnerType: "work", Name: "b", DependsOn: []string{"step.work.a"}},
				{RunnerType: "work", Name: "c", DependsOn: []string{"step.work.b"}},
			},
		},
	}

	_, err := dag.Build(context.Background(), model, testRegistry("work"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}
