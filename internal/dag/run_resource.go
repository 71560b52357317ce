package dag

import (
	"context"
	"fmt"
	"reflect"

	"github.com/vk/bggflow/internal/ctxlog"
)

// executeResourceNode runs an asset's create handler and stores the live
// instance for injection into dependent steps.
func (e *Executor) executeResourceNode(ctx context.Context, node *Node) error {
	logger := ctxlog.FromContext(ctx).With("resource", node.ID)
	logger.Info("Creating resource")

	assetDef, ok := e.registry.AssetDefinitionRegistry[node.ResourceConfig.AssetType]
	if !ok {
		return fmt.Errorf("unknown asset type '%s'", node.ResourceConfig.AssetType)
	}
	handler, ok := e.registry.AssetHandlerRegistry[assetDef.Lifecycle.Create]
	if !ok {
		return fmt.Errorf("create handler '%s' not registered", assetDef.Lifecycle.Create)
	}

	var inputStruct any
	if handler.NewInput != nil {
		inputStruct = handler.NewInput()
	}
	if inputStruct != nil {
		evalCtx := e.buildEvalContext(ctx, node)
		if err := e.converter.DecodeBody(ctx, inputStruct, node.ResourceConfig.Arguments, assetDef.Inputs, evalCtx); err != nil {
			return fmt.Errorf("failed to decode arguments for resource %s: %w", node.ID, err)
		}
	}

	createFn := reflect.ValueOf(handler.CreateFn)
	callArgs := []reflect.Value{reflect.ValueOf(ctx)}
	if inputStruct == nil {
		callArgs = append(callArgs, reflect.Zero(createFn.Type().In(1)))
	} else {
		callArgs = append(callArgs, reflect.ValueOf(inputStruct))
	}

	results := createFn.Call(callArgs)
	instance, errResult := results[0].Interface(), results[1].Interface()
	if errResult != nil {
		return errResult.(error)
	}

	e.resourceInstances.Store(node.ID, instance)

	e.cleanupMu.Lock()
	e.cleanup = append(e.cleanup, node)
	e.cleanupMu.Unlock()

	logger.Info("Resource created")
	return nil
}

// destroyResource tears down a resource instance exactly once. Destruction
// errors are logged, not propagated: the data produced by the run is already
// on disk by the time teardown happens.
func (e *Executor) destroyResource(ctx context.Context, node *Node) {
	node.destroyOnce.Do(func() {
		logger := ctxlog.FromContext(ctx).With("resource", node.ID)

		instance, ok := e.resourceInstances.Load(node.ID)
		if !ok {
			return
		}

		assetDef, ok := e.registry.AssetDefinitionRegistry[node.ResourceConfig.AssetType]
		if !ok {
			logger.Error("Cannot destroy resource: unknown asset type.")
			return
		}
		handler, ok := e.registry.AssetHandlerRegistry[assetDef.Lifecycle.Destroy]
		if !ok || handler.DestroyFn == nil {
			logger.Error("Cannot destroy resource: destroy handler not registered.", "handler", assetDef.Lifecycle.Destroy)
			return
		}

		logger.Info("Destroying resource")
		destroyFn := reflect.ValueOf(handler.DestroyFn)
		results := destroyFn.Call([]reflect.Value{reflect.ValueOf(instance)})
		if errResult := results[0].Interface(); errResult != nil {
			logger.Error("Resource destruction failed.", "error", errResult.(error))
		}

		e.resourceInstances.Delete(node.ID)
	})
}
