// Package config loads, merges and validates quarry configuration.
//
// # Overview
//
// Configuration reaches quarry two ways: as an inline object supplied by the
// embedding program, and as a config file on disk. The loader resolves both,
// merges them (inline fields win on a one-level shallow merge), validates the
// merged object, fixes the effective log level, and validates the attached
// check project. The outcome is always a fully populated LoadResult; nothing
// in the pipeline panics or returns an error across the public boundary, and
// callers inspect the diagnostics sequence to decide whether the config is
// usable.
//
// # Config files
//
// A config file is a script whose contract is to assign the desired
// configuration onto exports["config"]. Files come in two dialects:
//
//   - plain (.star): a Starlark script, executed directly
//   - typed (.cue): a CUE source declaring a top-level config struct,
//     compiled before execution
//
// How a file executes depends on the platform capabilities detected from the
// system handle. With a native loader available, typed sources go through
// CUE's own package loading and plain scripts run with a working load().
// Without one, file text is read through the system handle, typed sources are
// lowered to the plain dialect, and the script runs in a sandboxed
// interpreter with no load() at all.
//
// # Usage
//
//	result := config.Load(ctx, config.LoadInit{
//	    Path:   "quarry.config.star",
//	    Config: map[string]any{"outDir": "dist"},
//	})
//	for _, d := range result.Diagnostics {
//	    fmt.Println(d.Severity, d.Message)
//	}
//	if result.Config != nil {
//	    // ready to build
//	}
package config
