// Package scripting wraps the goja JavaScript runtime used as the editor's
// evaluator collaborator: console evaluation, property discovery for script
// sources, script hooks, and the reflective namespace the autocomplete
// engine walks.
package scripting

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/require"

	"github.com/hexforge/scriptstudio/internal/scene"
)

// Engine is a single-goroutine JavaScript evaluator. All evaluation runs
// synchronously on the caller's goroutine; the context only interrupts
// runaway scripts on shutdown.
type Engine struct {
	vm       *goja.Runtime
	registry *require.Registry
	logger   *Logger
	stdout   io.Writer
	loadFile func(path string) (string, error)
}

// NewEngine creates an engine whose console output and errors route through
// logger.
func NewEngine(ctx context.Context, stdout io.Writer, logger *Logger) *Engine {
	if stdout == nil {
		stdout = os.Stdout
	}
	if logger == nil {
		logger = NewLogger(stdout, 1000)
	}

	e := &Engine{
		vm:       goja.New(),
		logger:   logger,
		stdout:   stdout,
		loadFile: readFile,
	}

	e.registry = require.NewRegistry()
	e.registry.RegisterNativeModule(console.ModuleName, console.RequireWithPrinter(enginePrinter{logger}))
	e.registry.Enable(e.vm)
	console.Enable(e.vm)

	e.setupGlobals()

	// Interrupt JS execution when the context is cancelled. Safe to call
	// from another goroutine.
	go func() {
		<-ctx.Done()
		e.vm.Interrupt(ctx.Err())
	}()

	return e
}

// enginePrinter routes the JS console module into the editor logger.
type enginePrinter struct{ logger *Logger }

func (p enginePrinter) Log(msg string)   { p.logger.Info(msg) }
func (p enginePrinter) Warn(msg string)  { p.logger.Warn(msg) }
func (p enginePrinter) Error(msg string) { p.logger.Error(msg) }

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SetFileLoader overrides how script sources are loaded, for tests and for
// hosts with virtual filesystems.
func (e *Engine) SetFileLoader(load func(path string) (string, error)) {
	e.loadFile = load
}

// Runtime exposes the underlying goja runtime.
func (e *Engine) Runtime() *goja.Runtime { return e.vm }

// Logger returns the engine's logging collaborator.
func (e *Engine) Logger() *Logger { return e.logger }

// SetGlobal sets a global variable in the runtime.
func (e *Engine) SetGlobal(name string, value interface{}) {
	_ = e.vm.Set(name, value)
}

// GlobalNamespace returns the runtime's global object as an autocomplete
// namespace.
func (e *Engine) GlobalNamespace() Namespace {
	return NamespaceFromObject(e.vm, e.vm.GlobalObject())
}

// Eval evaluates source in the global scope, returning the result value.
// Evaluation errors come back as plain errors with the JS message; the
// runtime stays usable afterward.
func (e *Engine) Eval(src string) (goja.Value, error) {
	v, err := e.vm.RunString(src)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}
	return v, nil
}

// EvalFile loads and evaluates a script file in the global scope.
func (e *Engine) EvalFile(path string) (goja.Value, error) {
	src, err := e.loadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	return e.Eval(src)
}

// setupGlobals installs the helper constructors scripts use to declare
// entity and resource properties.
func (e *Engine) setupGlobals() {
	_ = e.vm.Set("Entity", func(index int) map[string]interface{} {
		return map[string]interface{}{"__kind": "entity", "index": index}
	})
	_ = e.vm.Set("Resource", func(path, resourceType string) map[string]interface{} {
		return map[string]interface{}{"__kind": "resource", "path": path, "resourceType": resourceType}
	})
}

// scriptEnvironment evaluates source as the body of a function with `this`
// bound to a fresh object, so script-declared properties never leak into the
// global namespace. The returned object carries the script's properties and
// hook functions.
func (e *Engine) scriptEnvironment(source string) (*goja.Object, error) {
	wrapped := "(function(){\n" + source + "\n})"
	fnVal, err := e.vm.RunString(wrapped)
	if err != nil {
		return nil, fmt.Errorf("failed to compile script: %w", err)
	}
	fn, ok := goja.AssertFunction(fnVal)
	if !ok {
		return nil, fmt.Errorf("script did not compile to a function")
	}
	env := e.vm.NewObject()
	if _, err := fn(env); err != nil {
		return nil, fmt.Errorf("script evaluation failed: %w", err)
	}
	return env, nil
}

// DiscoverProperties implements scene.Backend: the source is evaluated in a
// sandbox object and each `this.name = value` declaration becomes a typed
// property with its default value in canonical text form.
func (e *Engine) DiscoverProperties(path string) ([]scene.Property, error) {
	source, err := e.loadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script %s: %w", path, err)
	}
	env, err := e.scriptEnvironment(source)
	if err != nil {
		return nil, err
	}

	var props []scene.Property
	for _, key := range env.Keys() {
		val := env.Get(key)
		if _, isFn := goja.AssertFunction(val); isFn {
			continue
		}
		props = append(props, propertyFromValue(key, val))
	}
	return props, nil
}

// propertyFromValue infers a property definition from a script-declared
// default value.
func propertyFromValue(name string, val goja.Value) scene.Property {
	p := scene.Property{Name: name, Type: scene.PropertyAny}
	switch v := val.Export().(type) {
	case bool:
		p.Type = scene.PropertyBoolean
		p.Value = "false"
		if v {
			p.Value = "true"
		}
	case int64:
		p.Type = scene.PropertyFloat
		p.Value = scene.FormatFloat(float64(v))
	case float64:
		p.Type = scene.PropertyFloat
		p.Value = scene.FormatFloat(v)
	case string:
		p.Type = scene.PropertyString
		p.Value = v
	case map[string]interface{}:
		switch v["__kind"] {
		case "entity":
			p.Type = scene.PropertyEntity
			p.Value = fmt.Sprintf("%d", toInt(v["index"]))
		case "resource":
			p.Type = scene.PropertyResource
			p.Value, _ = v["path"].(string)
			p.ResourceType, _ = v["resourceType"].(string)
		}
	}
	return p
}

func toInt(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	case int:
		return int64(n)
	}
	return 0
}

// InvokeHook implements scene.Backend: the source is evaluated with the
// instance's current property values bound to `this`, then fn is called if
// the source defined it.
func (e *Engine) InvokeHook(path string, props []scene.Property, fn string) (bool, error) {
	source, err := e.loadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to open script %s: %w", path, err)
	}
	env, err := e.scriptEnvironment(source)
	if err != nil {
		return false, err
	}
	for _, p := range props {
		if err := env.Set(p.Name, propertyToValue(e.vm, p)); err != nil {
			return false, fmt.Errorf("failed to bind property %s: %w", p.Name, err)
		}
	}
	hook, ok := goja.AssertFunction(env.Get(fn))
	if !ok {
		return false, nil
	}
	if _, err := hook(env); err != nil {
		return true, fmt.Errorf("hook %s failed: %w", fn, err)
	}
	return true, nil
}

// propertyToValue converts a canonical text value back to a JS value of the
// property's type.
func propertyToValue(vm *goja.Runtime, p scene.Property) goja.Value {
	switch p.Type {
	case scene.PropertyBoolean:
		return vm.ToValue(p.Value == "true")
	case scene.PropertyFloat:
		return vm.ToValue(scene.ParseFloat(p.Value))
	case scene.PropertyEntity:
		return vm.ToValue(map[string]interface{}{"__kind": "entity", "index": int(scene.ParseFloat(p.Value))})
	default:
		return vm.ToValue(p.Value)
	}
}
