package hcl

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/bggflow/internal/config"
	"github.com/vk/bggflow/internal/schema"
)

// translateStep converts the HCL-specific step schema into the agnostic model.
func (l *Loader) translateStep(s *schema.Step) *config.Step {
	return &config.Step{
		RunnerType: s.RunnerType,
		Name:       s.Name,
		Arguments:  l.extractBodyAttributes(s.Arguments),
		Uses:       l.extractUsesAttributes(s.Uses),
		DependsOn:  s.DependsOn,
	}
}

// translateResource converts the HCL-specific resource schema into the agnostic model.
func (l *Loader) translateResource(s *schema.Resource) *config.Resource {
	return &config.Resource{
		AssetType: s.AssetType,
		Name:      s.Name,
		Arguments: l.extractBodyAttributes(s.Arguments),
		DependsOn: s.DependsOn,
	}
}

// translateInput converts a manifest input block, evaluating its default
// value. A default is only honored if it evaluates cleanly to a non-null
// value; the input then becomes optional.
func translateInput(in *schema.InputDefinition) *config.InputDefinition {
	var defaultVal *cty.Value
	var isOptional bool

	if in.Default != nil && !in.Default.IsNull() {
		defaultVal = in.Default
		isOptional = true
	}

	return &config.InputDefinition{
		Name:        in.Name,
		Type:        cty.DynamicPseudoType,
		Description: in.Description,
		Default:     defaultVal,
		Optional:    isOptional,
	}
}

// translateRunnerDefinition converts the HCL-specific runner schema into the agnostic model.
func (l *Loader) translateRunnerDefinition(ctx context.Context, s *schema.RunnerDefinition) *config.RunnerDefinition {
	r := &config.RunnerDefinition{
		Type:        s.Type,
		Description: s.Description,
		Inputs:      make(map[string]*config.InputDefinition),
		Outputs:     make(map[string]*config.OutputDefinition),
		Uses:        make(map[string]*config.UsesDefinition),
	}
	if s.Lifecycle != nil {
		r.Lifecycle = &config.Lifecycle{OnRun: s.Lifecycle.OnRun}
	}
	for _, in := range s.Inputs {
		r.Inputs[in.Name] = translateInput(in)
	}
	for _, out := range s.Outputs {
		r.Outputs[out.Name] = &config.OutputDefinition{
			Name:        out.Name,
			Type:        cty.DynamicPseudoType,
			Description: out.Description,
		}
	}
	for _, use := range s.Uses {
		r.Uses[use.LocalName] = &config.UsesDefinition{
			LocalName: use.LocalName,
			AssetType: use.AssetType,
		}
	}
	return r
}

// translateAssetDefinition converts the HCL-specific asset schema into the agnostic model.
func (l *Loader) translateAssetDefinition(ctx context.Context, s *schema.AssetDefinition) *config.AssetDefinition {
	a := &config.AssetDefinition{
		Type:        s.Type,
		Description: s.Description,
		Inputs:      make(map[string]*config.InputDefinition),
		Outputs:     make(map[string]*config.OutputDefinition),
	}
	if s.Lifecycle != nil {
		a.Lifecycle = &config.AssetLifecycle{Create: s.Lifecycle.Create, Destroy: s.Lifecycle.Destroy}
	}
	for _, in := range s.Inputs {
		a.Inputs[in.Name] = translateInput(in)
	}
	for _, out := range s.Outputs {
		a.Outputs[out.Name] = &config.OutputDefinition{
			Name:        out.Name,
			Type:        cty.DynamicPseudoType,
			Description: out.Description,
		}
	}
	return a
}
