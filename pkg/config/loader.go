package config

import (
	"context"
	"maps"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/quarrybuild/quarry/pkg/diag"
	"github.com/quarrybuild/quarry/pkg/platform"
	"github.com/quarrybuild/quarry/pkg/project"
	"github.com/quarrybuild/quarry/pkg/telemetry"
)

// Loader wires the config pipeline together with its two collaborator
// validators.
type Loader struct {
	schema  SchemaValidator
	project ProjectValidator
}

// NewLoader creates a loader with the default schema and project validators.
func NewLoader() *Loader {
	return &Loader{
		schema:  NewSchemaValidator(),
		project: project.NewValidator(),
	}
}

// NewLoaderWith creates a loader with explicit collaborators. Nil arguments
// keep the defaults.
func NewLoaderWith(schema SchemaValidator, proj ProjectValidator) *Loader {
	l := NewLoader()
	if schema != nil {
		l.schema = schema
	}
	if proj != nil {
		l.project = proj
	}
	return l
}

// Load resolves, merges and validates configuration using the default
// collaborators.
func Load(ctx context.Context, init LoadInit) *LoadResult {
	return NewLoader().Load(ctx, init)
}

// Load runs the full pipeline: resolve the config file if any, merge it with
// the inline config, validate the merged object, fix the log level, and
// validate the check project. It always returns a fully populated result and
// never panics; every failure surfaces as a diagnostic on the result.
func (l *Loader) Load(ctx context.Context, init LoadInit) (result *LoadResult) {
	diags := &diag.Diagnostics{}
	result = &LoadResult{}
	defer func() {
		if r := recover(); r != nil {
			diags.Errorf("", "unexpected error while loading config: %v", r)
		}
		result.Diagnostics = diags.Entries()
	}()

	sys := init.Sys
	if sys == nil {
		sys = platform.NewSystem()
	}

	path := init.Path
	if path == "" {
		if p, ok := init.Config["configPath"].(string); ok {
			path = p
		}
	}

	// The evaluation strategy is fixed per system handle, picked here once.
	eval := newModuleEvaluator(platform.Detect(sys))

	fileCfg := loadConfigFile(ctx, sys, diags, eval, path)
	if diags.HasErrors() {
		return result
	}

	var cfg Config
	if fileCfg != nil {
		resolved, _ := fileCfg["configPath"].(string)
		cfg = maps.Clone(fileCfg)
		maps.Copy(cfg, init.Config)
		// The resolved location always wins over whatever either source said.
		cfg["configPath"] = resolved
		cfg["rootDir"] = filepath.Dir(resolved)
	} else {
		cfg = maps.Clone(init.Config)
		if cfg == nil {
			cfg = Config{}
		}
		wd, err := sys.Getwd()
		if err != nil {
			diags.Errorf("", "resolving working directory: %v", err)
			return result
		}
		cfg["configPath"] = nil
		cfg["rootDir"] = wd
	}

	cfg["sys"] = sys

	validated := l.schema.Validate(cfg, diags)
	if diags.HasErrors() {
		return result
	}
	result.Config = validated

	level := resolveLogLevel(validated)
	validated["logLevel"] = level

	logger := resolveLogger(init, validated)
	logger.SetLevel(level)
	validated["logger"] = logger

	log := logger.NewComponentLogger("config-loader").WithRunID(uuid.NewString())
	log.Debugf("configuration resolved, configPath=%v rootDir=%v", validated["configPath"], validated["rootDir"])

	if !diags.HasErrors() {
		summary := l.project.Validate(validated, sys, diags)

		// Both copies are snapshots; later mutation of the validator's live
		// summary must not leak into the published result or config.
		result.Project = summary.Clone()
		mirror := summary.Clone()
		validated["projectPath"] = mirror.Path
		validated["compilerOptions"] = mirror.CompilerOptions
		validated["projectFiles"] = mirror.Files
		validated["projectInclude"] = mirror.Include
		validated["projectExclude"] = mirror.Exclude
		validated["projectExtends"] = mirror.Extends

		log.Debugf("project resolved: %s", summary.Describe())
	}

	return result
}

// resolveLogLevel applies the fixed log-level precedence: debug/verbose flags
// beat an explicit log-level flag, which beats a level already present on the
// config, which beats the "info" default.
func resolveLogLevel(cfg Config) string {
	flags, _ := cfg["flags"].(map[string]any)
	if on, _ := flags["debug"].(bool); on {
		return "debug"
	}
	if on, _ := flags["verbose"].(bool); on {
		return "debug"
	}
	if level, ok := flags["logLevel"].(string); ok && level != "" {
		return level
	}
	if level, ok := cfg["logLevel"].(string); ok && level != "" {
		return level
	}
	return "info"
}

// resolveLogger picks the logger in precedence order: the one handed in
// through init, one already present on the config, else a default.
func resolveLogger(init LoadInit, cfg Config) *telemetry.Logger {
	if init.Logger != nil {
		return init.Logger
	}
	if logger, ok := cfg["logger"].(*telemetry.Logger); ok && logger != nil {
		return logger
	}
	return telemetry.NewDefault()
}
