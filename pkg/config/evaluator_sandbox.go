package config

import (
	"context"

	starlarkjson "go.starlark.net/lib/json"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/quarrybuild/quarry/pkg/diag"
	"github.com/quarrybuild/quarry/pkg/platform"
)

// sandboxEvaluator runs config files without any module-loading facility.
// The file text is read through the system handle, typed sources are lowered
// to the plain dialect first, and the script executes against a fresh, empty
// exports dict. load() is not available in this environment.
//
// This is the only place in quarry that executes externally authored code.
type sandboxEvaluator struct{}

func (e *sandboxEvaluator) Evaluate(ctx context.Context, sys platform.System, diags *diag.Diagnostics, path string) map[string]any {
	source, err := sys.ReadFile(path)
	if err != nil {
		diags.Errorf(path, "reading config file: %v", err)
		return nil
	}

	source = transpileTypedConfig(diags, source, path)
	if diags.HasErrors() {
		return nil
	}

	exports := starlark.NewDict(1)
	predeclared := starlark.StringDict{
		"exports": exports,
		"struct":  starlarkstruct.Default,
		"json":    starlarkjson.Module,
	}

	thread := &starlark.Thread{
		Name: "quarry-config",
		Print: func(_ *starlark.Thread, _ string) {
			// Config evaluation output is not part of the contract.
		},
	}

	globals, err := starlark.ExecFile(thread, path, source, predeclared)
	if err != nil {
		diags.Errorf(path, "config file failed to evaluate: %v", err)
		return nil
	}

	return moduleFromExports(diags, path, exports, globals)
}
