package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/quarrybuild/quarry/pkg/diag"
	"github.com/quarrybuild/quarry/pkg/platform"
)

func TestNewModuleEvaluator_StrategySelection(t *testing.T) {
	if _, ok := newModuleEvaluator(platform.Capabilities{NativeLoader: true}).(*nativeEvaluator); !ok {
		t.Error("native capability must select the native evaluator")
	}
	if _, ok := newModuleEvaluator(platform.Capabilities{}).(*sandboxEvaluator); !ok {
		t.Error("missing capability must select the sandboxed evaluator")
	}
}

func TestSandboxEvaluator_Exports(t *testing.T) {
	sys := newSandboxSystem(t, map[string]string{
		"/work/quarry.config.star": `
prefix = "qu"
exports["config"] = {"name": prefix + "arry", "workers": 4, "tags": ["a", "b"]}
`,
	})
	var diags diag.Diagnostics

	module := (&sandboxEvaluator{}).Evaluate(context.Background(), sys, &diags, "/work/quarry.config.star")

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Entries())
	}
	cfg, ok := module["config"].(map[string]any)
	if !ok {
		t.Fatalf("expected config mapping, got %v", module)
	}
	if cfg["name"] != "quarry" || cfg["workers"] != int64(4) {
		t.Errorf("unexpected config %v", cfg)
	}
	tags, _ := cfg["tags"].([]any)
	if len(tags) != 2 || tags[0] != "a" {
		t.Errorf("unexpected tags %v", tags)
	}
}

func TestSandboxEvaluator_GlobalsInterop(t *testing.T) {
	// Plain convention: module-level globals instead of the exports dict.
	sys := newSandboxSystem(t, map[string]string{
		"/work/quarry.config.star": `
config = {"name": "global-style"}
_private = "hidden"

def helper():
    pass
`,
	})
	var diags diag.Diagnostics

	module := (&sandboxEvaluator{}).Evaluate(context.Background(), sys, &diags, "/work/quarry.config.star")

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Entries())
	}
	cfg, _ := module["config"].(map[string]any)
	if cfg["name"] != "global-style" {
		t.Errorf("expected globals fallback, got %v", module)
	}
	if _, leaked := module["_private"]; leaked {
		t.Error("private globals must not leak into the module")
	}
	if _, leaked := module["helper"]; leaked {
		t.Error("functions must not leak into the module")
	}
}

func TestSandboxEvaluator_Failures(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		path  string
	}{
		{
			name:  "read failure",
			files: nil,
			path:  "/work/missing.star",
		},
		{
			name:  "syntax error",
			files: map[string]string{"/work/bad.star": "exports[= nope"},
			path:  "/work/bad.star",
		},
		{
			name:  "runtime error",
			files: map[string]string{"/work/boom.star": `exports["config"] = 1 // 0`},
			path:  "/work/boom.star",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := newSandboxSystem(t, tt.files)
			var diags diag.Diagnostics

			module := (&sandboxEvaluator{}).Evaluate(context.Background(), sys, &diags, tt.path)

			if module != nil {
				t.Errorf("expected nil module, got %v", module)
			}
			if !diags.HasErrors() {
				t.Error("expected an error diagnostic")
			}
		})
	}
}

func TestSandboxEvaluator_TypedSource(t *testing.T) {
	sys := newSandboxSystem(t, map[string]string{
		"/work/quarry.config.cue": "config: {\n\tname: \"typed\"\n\tworkers: 4\n}\n",
	})
	var diags diag.Diagnostics

	module := (&sandboxEvaluator{}).Evaluate(context.Background(), sys, &diags, "/work/quarry.config.cue")

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Entries())
	}
	cfg, _ := module["config"].(map[string]any)
	if cfg["name"] != "typed" || cfg["workers"] != int64(4) {
		t.Errorf("unexpected config %v", cfg)
	}
}

func TestNativeEvaluator_LoadChainAndCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "shared.star"), `
defaults = {"workers": 8}
`)
	writeFile(t, filepath.Join(dir, "quarry.config.star"), `
load("shared.star", "defaults")
exports["config"] = {"name": "native", "workers": defaults["workers"]}
`)

	eval := newNativeEvaluator()
	var diags diag.Diagnostics

	module := eval.Evaluate(context.Background(), platform.NewSystem(), &diags, filepath.Join(dir, "quarry.config.star"))

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Entries())
	}
	cfg, _ := module["config"].(map[string]any)
	if cfg["workers"] != int64(8) {
		t.Errorf("load() result not visible, got %v", cfg)
	}
	if len(eval.modules) != 2 {
		t.Errorf("expected 2 cached modules, got %d", len(eval.modules))
	}
}

func TestNativeEvaluator_LoadCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.star"), `load("b.star", "b")`+"\n"+`a = 1`)
	writeFile(t, filepath.Join(dir, "b.star"), `load("a.star", "a")`+"\n"+`b = 2`)

	var diags diag.Diagnostics
	module := newNativeEvaluator().Evaluate(context.Background(), platform.NewSystem(), &diags, filepath.Join(dir, "a.star"))

	if module != nil {
		t.Errorf("expected nil module for load cycle, got %v", module)
	}
	if !diags.HasErrors() {
		t.Error("expected a cycle diagnostic")
	}
}

func TestNativeEvaluator_TypedSource(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "quarry.config.cue"), "config: {\n\tname: \"typed-native\"\n}\n")

	var diags diag.Diagnostics
	module := newNativeEvaluator().Evaluate(context.Background(), platform.NewSystem(), &diags, filepath.Join(dir, "quarry.config.cue"))

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Entries())
	}
	cfg, _ := module["config"].(map[string]any)
	if cfg == nil || cfg["name"] != "typed-native" {
		t.Errorf("unexpected module %v", module)
	}
}

func TestNativeEvaluator_TypedSourceWithoutConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "quarry.config.cue"), "other: 1\n")

	var diags diag.Diagnostics
	module := newNativeEvaluator().Evaluate(context.Background(), platform.NewSystem(), &diags, filepath.Join(dir, "quarry.config.cue"))

	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Entries())
	}
	if _, ok := module["config"]; ok {
		t.Error("module must not contain a config entry")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
