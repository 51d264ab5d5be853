package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	starlarkjson "go.starlark.net/lib/json"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/quarrybuild/quarry/pkg/diag"
	"github.com/quarrybuild/quarry/pkg/platform"
)

// nativeEvaluator hands config files to the host tool-chain loaders: typed
// sources go through CUE's own package loading, plain scripts run with a
// working load() whose resolution is relative to the requesting file. Loaded
// script modules are cached per evaluator, so a module graph evaluates each
// file once.
type nativeEvaluator struct {
	modules map[string]*nativeModule
}

type nativeModule struct {
	globals starlark.StringDict
	exports *starlark.Dict
}

func newNativeEvaluator() *nativeEvaluator {
	return &nativeEvaluator{modules: make(map[string]*nativeModule)}
}

func (e *nativeEvaluator) Evaluate(ctx context.Context, _ platform.System, diags *diag.Diagnostics, path string) map[string]any {
	if isTypedSource(path) {
		return e.evaluateTyped(diags, path)
	}

	mod, err := e.execModule(path)
	if err != nil {
		diags.Errorf(path, "loading config module: %v", err)
		return nil
	}
	return moduleFromExports(diags, path, mod.exports, mod.globals)
}

// execModule loads and executes one script module, recursing through load()
// for its dependencies. A nil cache entry marks a module whose evaluation is
// still in flight, which is how load cycles are caught.
func (e *nativeEvaluator) execModule(path string) (*nativeModule, error) {
	if mod, cached := e.modules[path]; cached {
		if mod == nil {
			return nil, fmt.Errorf("cycle in module load graph at %s", path)
		}
		return mod, nil
	}
	e.modules[path] = nil

	source, err := os.ReadFile(path)
	if err != nil {
		delete(e.modules, path)
		return nil, err
	}

	exports := starlark.NewDict(1)
	predeclared := starlark.StringDict{
		"exports": exports,
		"struct":  starlarkstruct.Default,
		"json":    starlarkjson.Module,
	}

	thread := &starlark.Thread{
		Name:  path,
		Print: func(_ *starlark.Thread, _ string) {},
		Load: func(_ *starlark.Thread, module string) (starlark.StringDict, error) {
			dep := module
			if !filepath.IsAbs(dep) {
				dep = filepath.Join(filepath.Dir(path), dep)
			}
			loaded, err := e.execModule(dep)
			if err != nil {
				return nil, err
			}
			return loaded.globals, nil
		},
	}

	globals, err := starlark.ExecFile(thread, path, source, predeclared)
	if err != nil {
		delete(e.modules, path)
		return nil, err
	}

	mod := &nativeModule{globals: globals, exports: exports}
	e.modules[path] = mod
	return mod, nil
}

// evaluateTyped loads a typed-dialect source through CUE's module resolution
// and decodes its top-level config field into the module object.
func (e *nativeEvaluator) evaluateTyped(diags *diag.Diagnostics, path string) map[string]any {
	insts := load.Instances([]string{path}, nil)
	if len(insts) == 0 {
		diags.Errorf(path, "no loadable instance at %q", path)
		return nil
	}
	inst := insts[0]
	if inst.Err != nil {
		diags.Errorf(path, "loading typed config: %v", inst.Err)
		return nil
	}

	val := cuecontext.New().BuildInstance(inst)
	if err := val.Err(); err != nil {
		diags.Errorf(path, "building typed config: %v", err)
		return nil
	}

	module := map[string]any{}
	cfgVal := val.LookupPath(cue.ParsePath("config"))
	if cfgVal.Exists() {
		var decoded any
		if err := cfgVal.Decode(&decoded); err != nil {
			diags.Errorf(path, "decoding typed config: %v", err)
			return nil
		}
		module["config"] = decoded
	}
	return module
}
