package dag

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/bggflow/internal/ctxlog"
	"github.com/vk/bggflow/internal/registry"
)

// executeStepNode runs a single step's on_run handler and records its output.
func (e *Executor) executeStepNode(ctx context.Context, node *Node) error {
	logger := ctxlog.FromContext(ctx).With("step", node.ID)
	logger.Info("Starting step")

	runnerDef, ok := e.registry.DefinitionRegistry[node.StepConfig.RunnerType]
	if !ok {
		return fmt.Errorf("unknown runner type '%s'", node.StepConfig.RunnerType)
	}
	handlerName := runnerDef.Lifecycle.OnRun
	registeredHandler, ok := e.registry.HandlerRegistry[handlerName]
	if !ok {
		return fmt.Errorf("handler '%s' not registered", handlerName)
	}

	evalCtx := e.buildEvalContext(ctx, node)

	var inputStruct any
	if registeredHandler.NewInput != nil {
		inputStruct = registeredHandler.NewInput()
	}
	if inputStruct != nil {
		if err := e.converter.DecodeBody(ctx, inputStruct, node.StepConfig.Arguments, runnerDef.Inputs, evalCtx); err != nil {
			return fmt.Errorf("failed to decode arguments for step %s: %w", node.ID, err)
		}
		logger.Debug("Step input decoded.", "data", formatValueForLogs(inputStruct))
	}

	depsStruct, err := e.buildDepsStruct(ctx, node, registeredHandler)
	if err != nil {
		return err
	}

	logger.Debug("Calling step run handler.", "handler", handlerName)
	handlerFunc := reflect.ValueOf(registeredHandler.Fn)
	callArgs := []reflect.Value{reflect.ValueOf(ctx), reflect.ValueOf(depsStruct)}

	if inputStruct == nil {
		callArgs = append(callArgs, reflect.Zero(handlerFunc.Type().In(2)))
	} else {
		callArgs = append(callArgs, reflect.ValueOf(inputStruct))
	}

	results := handlerFunc.Call(callArgs)
	nativeOutput, errResult := results[0].Interface(), results[1].Interface()
	if errResult != nil {
		return errResult.(error)
	}

	ctyOutput, err := e.converter.ToCtyValue(nativeOutput)
	if err != nil {
		return fmt.Errorf("failed to convert handler output to cty.Value for step %s: %w", node.ID, err)
	}
	node.Output = ctyOutput

	logger.Info("Finished step")
	return nil
}

// buildEvalContext creates the HCL evaluation context for a node, exposing
// the outputs of its completed step dependencies as step.<runner>.<name>.output.
func (e *Executor) buildEvalContext(ctx context.Context, node *Node) *hcl.EvalContext {
	stepOutputsByRunner := make(map[string]map[string]cty.Value)

	for _, depNode := range node.Deps {
		if depNode.Type != StepNode {
			continue
		}
		if depNode.GetState() != Done {
			continue
		}
		output := depNode.Output
		if output == cty.NilVal {
			output = cty.NullVal(cty.DynamicPseudoType)
		}
		runnerType := depNode.StepConfig.RunnerType
		if _, ok := stepOutputsByRunner[runnerType]; !ok {
			stepOutputsByRunner[runnerType] = make(map[string]cty.Value)
		}
		stepOutputsByRunner[runnerType][depNode.Name] = cty.ObjectVal(map[string]cty.Value{
			"output": output,
		})
	}

	finalStepOutputs := make(map[string]cty.Value)
	for runnerType, instancesMap := range stepOutputsByRunner {
		finalStepOutputs[runnerType] = cty.ObjectVal(instancesMap)
	}

	vars := map[string]cty.Value{
		"step": cty.ObjectVal(finalStepOutputs),
	}
	return &hcl.EvalContext{Variables: vars}
}

// buildDepsStruct populates the `deps` struct for a step handler from the
// step's `uses` block, injecting live resource instances by `bgf` tag.
func (e *Executor) buildDepsStruct(ctx context.Context, node *Node, handler *registry.RegisteredRunner) (any, error) {
	logger := ctxlog.FromContext(ctx)
	depsStruct := handler.NewDeps()

	if len(node.StepConfig.Uses) == 0 {
		return depsStruct, nil
	}

	depsValue := reflect.ValueOf(depsStruct).Elem()
	depsType := depsValue.Type()

	for i := 0; i < depsValue.NumField(); i++ {
		field := depsType.Field(i)

		tag := field.Tag.Get("bgf")
		if tag == "" || tag == "-" {
			continue
		}
		lookupKey := strings.Split(tag, ",")[0]

		resourceExpr, ok := node.StepConfig.Uses[lookupKey]
		if !ok {
			continue
		}

		vars := resourceExpr.Variables()
		if len(vars) != 1 {
			return nil, fmt.Errorf("field '%s' in 'uses' must be a direct reference to one resource", lookupKey)
		}
		resourceID, err := traversalToID(vars[0])
		if err != nil {
			return nil, err
		}

		instance, found := e.resourceInstances.Load(resourceID)
		if !found {
			return nil, fmt.Errorf("step '%s' requires resource '%s', which has not been created", node.ID, resourceID)
		}

		instanceType := reflect.TypeOf(instance)
		fieldType := field.Type

		if fieldType.Kind() == reflect.Interface {
			if !instanceType.Implements(fieldType) {
				return nil, fmt.Errorf("type mismatch for '%s': resource of type %v does not implement required interface %v", lookupKey, instanceType, fieldType)
			}
		} else if !instanceType.AssignableTo(fieldType) {
			return nil, fmt.Errorf("type mismatch for '%s': resource of type %v is not assignable to field of type %v", lookupKey, instanceType, fieldType)
		}

		logger.Debug("Injecting resource dependency.", "step", node.ID, "field", field.Name, "resource", resourceID)
		depsValue.Field(i).Set(reflect.ValueOf(instance))
	}

	return depsStruct, nil
}
