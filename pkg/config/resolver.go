package config

import (
	"context"
	"maps"

	"github.com/quarrybuild/quarry/pkg/diag"
	"github.com/quarrybuild/quarry/pkg/platform"
)

// loadConfigFile resolves path into a file-derived config. An empty path
// means the caller supplied configuration inline only, which is a no-op: the
// file system is never touched and no diagnostics are added.
//
// A file that evaluates but exports no "config" value is a distinct,
// user-facing failure, reported against the resolved absolute path.
func loadConfigFile(ctx context.Context, sys platform.System, diags *diag.Diagnostics, eval moduleEvaluator, path string) Config {
	if path == "" {
		return nil
	}

	abs := platform.Resolve(sys, path)

	module := eval.Evaluate(ctx, sys, diags, abs)
	if diags.HasErrors() || module == nil {
		return nil
	}

	raw, ok := module["config"]
	if !ok {
		diags.Errorf(abs, "invalid config file %q: the file evaluated but assigned no \"config\" export", abs)
		return nil
	}

	cfg, ok := raw.(map[string]any)
	if !ok {
		diags.Errorf(abs, "invalid config file %q: the \"config\" export must be a mapping, got %T", abs, raw)
		return nil
	}

	cfg = maps.Clone(cfg)
	cfg["configPath"] = abs
	return cfg
}
