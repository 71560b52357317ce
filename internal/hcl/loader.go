package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/bggflow/internal/config"
	"github.com/vk/bggflow/internal/ctxlog"
	"github.com/vk/bggflow/internal/fsutil"
	"github.com/vk/bggflow/internal/schema"
)

// Loader is the HCL implementation of the config.Loader interface.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load discovers all .hcl files under the given paths, parses them, and
// translates their contents into a single unified config model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)

	model := &config.Model{
		Runners:  make(map[string]*config.RunnerDefinition),
		Assets:   make(map[string]*config.AssetDefinition),
		Pipeline: &config.Pipeline{},
	}

	for _, root := range paths {
		files, err := fsutil.FindFilesByExtension(root, ".hcl")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to discover config files under %q: %w", root, err)
		}
		logger.Debug("Discovered config files.", "root", root, "count", len(files))

		for _, path := range files {
			if err := l.loadFile(ctx, path, model); err != nil {
				return nil, nil, err
			}
		}
	}

	return model, NewConverter(), nil
}

// loadFile parses a single HCL file and merges its blocks into the model.
func (l *Loader) loadFile(ctx context.Context, path string, model *config.Model) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing config file.", "path", path)

	file, diags := l.parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse %q: %w", path, diags)
	}

	var fc schema.FileConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &fc); diags.HasErrors() {
		return fmt.Errorf("failed to decode %q: %w", path, diags)
	}

	if fc.Pipeline != nil {
		if model.Pipeline.Name != "" || model.Pipeline.Schedule != "" {
			logger.Warn("Multiple pipeline settings blocks found; later blocks override earlier ones.", "path", path)
		}
		if fc.Pipeline.Name != "" {
			model.Pipeline.Name = fc.Pipeline.Name
		}
		if fc.Pipeline.Schedule != "" {
			model.Pipeline.Schedule = fc.Pipeline.Schedule
		}
	}

	for _, s := range fc.Steps {
		model.Pipeline.Steps = append(model.Pipeline.Steps, l.translateStep(s))
	}
	for _, r := range fc.Resources {
		model.Pipeline.Resources = append(model.Pipeline.Resources, l.translateResource(r))
	}
	for _, rd := range fc.Runners {
		if _, exists := model.Runners[rd.Type]; exists {
			return fmt.Errorf("duplicate runner manifest %q in %q", rd.Type, path)
		}
		model.Runners[rd.Type] = l.translateRunnerDefinition(ctx, rd)
	}
	for _, ad := range fc.Assets {
		if _, exists := model.Assets[ad.Type]; exists {
			return fmt.Errorf("duplicate asset manifest %q in %q", ad.Type, path)
		}
		model.Assets[ad.Type] = l.translateAssetDefinition(ctx, ad)
	}

	return nil
}

// extractBodyAttributes flattens an HCL block body into a map of named,
// unevaluated expressions.
func (l *Loader) extractBodyAttributes(args *schema.StepArgs) map[string]hcl.Expression {
	out := make(map[string]hcl.Expression)
	if args == nil || args.Body == nil {
		return out
	}
	attrs, _ := args.Body.JustAttributes()
	for name, attr := range attrs {
		out[name] = attr.Expr
	}
	return out
}

// extractUsesAttributes flattens a 'uses' block body into named expressions.
func (l *Loader) extractUsesAttributes(uses *schema.UsesBlock) map[string]hcl.Expression {
	out := make(map[string]hcl.Expression)
	if uses == nil || uses.Body == nil {
		return out
	}
	attrs, _ := uses.Body.JustAttributes()
	for name, attr := range attrs {
		out[name] = attr.Expr
	}
	return out
}
