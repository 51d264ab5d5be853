package config

import (
	"github.com/quarrybuild/quarry/pkg/diag"
	"github.com/quarrybuild/quarry/pkg/platform"
	"github.com/quarrybuild/quarry/pkg/project"
	"github.com/quarrybuild/quarry/pkg/telemetry"
)

// Config is the loosely typed configuration mapping flowing through the
// loading pipeline. It is an alias so plain maps from embedders and values
// decoded out of config files interoperate without conversion.
//
// A handful of keys are reserved by the loader: "configPath" and "rootDir"
// are always derived, "sys" and "logger" carry the runtime handles, "flags"
// holds CLI flag overrides, and the project summary is mirrored under the
// "projectPath", "compilerOptions", "projectFiles", "projectInclude",
// "projectExclude" and "projectExtends" keys.
type Config = map[string]any

// LoadInit carries the caller-supplied inputs of a load. All fields are
// optional; the loader never mutates it.
type LoadInit struct {
	// Sys is a pre-built system handle. When nil, an OS-backed one is
	// constructed.
	Sys platform.System

	// Config is the inline configuration. Its fields win over file-loaded
	// fields on a one-level shallow merge.
	Config Config

	// Path points at a config file. When empty, the "configPath" field of the
	// inline config is consulted instead.
	Path string

	// Logger overrides logger resolution entirely when set.
	Logger *telemetry.Logger
}

// LoadResult is the outcome of a load. It is always fully populated: on any
// failure the diagnostics collected so far are still returned, and Config is
// nil only if an error diagnostic explains why.
type LoadResult struct {
	// Config is the validated configuration, nil when loading failed.
	Config Config `json:"config"`

	// Diagnostics lists everything that went wrong, in insertion order.
	Diagnostics []diag.Diagnostic `json:"diagnostics"`

	// Project summarizes the check-project file attached to the config.
	Project project.Summary `json:"project"`
}

// SchemaValidator checks an unvalidated config against the quarry schema and
// returns the config to adopt. Problems are appended to diags, never raised.
type SchemaValidator interface {
	Validate(cfg Config, diags *diag.Diagnostics) Config
}

// ProjectValidator resolves and validates the check-project file referenced
// by a validated config.
type ProjectValidator interface {
	Validate(cfg map[string]any, sys platform.System, diags *diag.Diagnostics) project.Summary
}
