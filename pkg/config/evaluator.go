package config

import (
	"context"
	"strings"

	"go.starlark.net/starlark"

	"github.com/quarrybuild/quarry/pkg/diag"
	"github.com/quarrybuild/quarry/pkg/platform"
)

// moduleEvaluator executes a config file and surfaces the module object it
// exported. Failures never escape as errors or panics; they are appended to
// the shared diagnostics and answered with a nil module.
//
// There are exactly two implementations, picked once per load from the
// platform capabilities: the native evaluator hands files to the host
// tool-chain loaders, the sandboxed evaluator runs the text in an isolated
// interpreter fed through the system handle.
type moduleEvaluator interface {
	Evaluate(ctx context.Context, sys platform.System, diags *diag.Diagnostics, path string) map[string]any
}

func newModuleEvaluator(caps platform.Capabilities) moduleEvaluator {
	if caps.NativeLoader {
		return newNativeEvaluator()
	}
	return &sandboxEvaluator{}
}

// moduleFromExports converts an evaluated Starlark environment into the
// module object. The exports dict is the contract; when a plain script
// assigned module-level globals instead, those serve as the module for
// interop, skipping private names and values with no Go representation.
func moduleFromExports(diags *diag.Diagnostics, path string, exports *starlark.Dict, globals starlark.StringDict) map[string]any {
	module := map[string]any{}

	if exports.Len() > 0 {
		for _, item := range exports.Items() {
			key, ok := item[0].(starlark.String)
			if !ok {
				diags.Errorf(path, "exports keys must be strings, got %s", item[0].Type())
				return nil
			}
			value, err := fromStarlark(item[1])
			if err != nil {
				diags.Errorf(path, "unsupported export %q: %v", string(key), err)
				return nil
			}
			module[string(key)] = value
		}
		return module
	}

	for name, val := range globals {
		if strings.HasPrefix(name, "_") {
			continue
		}
		value, err := fromStarlark(val)
		if err != nil {
			continue
		}
		module[name] = value
	}
	return module
}
