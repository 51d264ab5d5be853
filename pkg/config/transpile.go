package config

import (
	"fmt"
	"path/filepath"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/quarrybuild/quarry/pkg/diag"
)

// typedSourceExt marks config files written in the typed dialect.
const typedSourceExt = ".cue"

func isTypedSource(path string) bool {
	return filepath.Ext(path) == typedSourceExt
}

// transpileTypedConfig lowers a typed-dialect source to the plain dialect so
// the sandboxed evaluator can run it. Plain sources pass through unchanged,
// as does everything when the diagnostics already hold an error: an earlier
// failure must not be compounded or masked here.
//
// The emitted script assigns both exports["config"] and a module-level config
// global, so either export convention reads it back, and carries the value as
// a json.decode literal rather than dialect-specific syntax.
//
// Compile errors are deliberately not reported at this stage; the source is
// returned unchanged and the malformed text fails later as an evaluation
// diagnostic. The typed checker owns precise compile errors.
func transpileTypedConfig(diags *diag.Diagnostics, source, path string) string {
	if diags.HasErrors() {
		return source
	}
	if !isTypedSource(path) {
		return source
	}

	val := cuecontext.New().CompileString(source, cue.Filename(path))
	if val.Err() != nil {
		return source
	}

	cfg := val.LookupPath(cue.ParsePath("config"))
	if !cfg.Exists() {
		// A typed source without a config field lowers to an empty module.
		return ""
	}

	data, err := cfg.MarshalJSON()
	if err != nil {
		return source
	}

	return fmt.Sprintf("config = json.decode(%s)\nexports[\"config\"] = config\n", strconv.Quote(string(data)))
}
