package config

import (
	"maps"

	"github.com/go-playground/validator/v10"

	"github.com/quarrybuild/quarry/pkg/diag"
)

// Keys the default schema knows about. Unknown keys pass through untouched;
// embedders carry their own extensions in the config map.
var (
	schemaStringKeys = []string{"namespace", "logLevel", "srcDir", "outDir", "cacheDir", "project"}
	schemaBoolKeys   = []string{"devMode", "minify", "sourceMap"}

	schemaValueRules = map[string]any{
		"namespace": "omitempty,alphanum",
		"logLevel":  "omitempty,oneof=trace debug info warn error",
		"srcDir":    "omitempty,min=1",
		"outDir":    "omitempty,min=1",
		"cacheDir":  "omitempty,min=1",
	}
)

type defaultSchemaValidator struct {
	validate *validator.Validate
}

// NewSchemaValidator returns the default schema validator: known keys are
// type- and value-checked, defaults are filled for absent ones.
func NewSchemaValidator() SchemaValidator {
	return &defaultSchemaValidator{validate: validator.New()}
}

func (v *defaultSchemaValidator) Validate(cfg Config, diags *diag.Diagnostics) Config {
	out := maps.Clone(cfg)
	if out == nil {
		out = Config{}
	}
	file, _ := out["configPath"].(string)

	for _, key := range schemaStringKeys {
		if raw, ok := out[key]; ok && raw != nil {
			if _, isString := raw.(string); !isString {
				diags.Errorf(file, "config %q must be a string, got %T", key, raw)
			}
		}
	}
	for _, key := range schemaBoolKeys {
		if raw, ok := out[key]; ok && raw != nil {
			if _, isBool := raw.(bool); !isBool {
				diags.Errorf(file, "config %q must be a boolean, got %T", key, raw)
			}
		}
	}
	if raw, ok := out["flags"]; ok && raw != nil {
		if _, isMap := raw.(map[string]any); !isMap {
			diags.Errorf(file, "config \"flags\" must be a mapping, got %T", raw)
		}
	}
	if diags.HasErrors() {
		return out
	}

	values := map[string]any{}
	for key := range schemaValueRules {
		if s, ok := out[key].(string); ok {
			values[key] = s
		}
	}
	for field, err := range v.validate.ValidateMap(values, schemaValueRules) {
		diags.Errorf(file, "config %q has an invalid value: %v", field, err)
	}
	if diags.HasErrors() {
		return out
	}

	applyDefaults(out)
	return out
}

func applyDefaults(cfg Config) {
	if _, ok := cfg["namespace"]; !ok {
		cfg["namespace"] = "app"
	}
	if _, ok := cfg["srcDir"]; !ok {
		cfg["srcDir"] = "src"
	}
	if _, ok := cfg["outDir"]; !ok {
		cfg["outDir"] = "build"
	}
}
