// Package project validates quarry's check-project file, the piece of
// configuration that drives the typed-dialect checker: compiler options, the
// file set to check, and the extends chain the file inherits from.
//
// Project files are JSON with comments (quarry.project.json) or YAML
// (quarry.project.yaml). The validator never returns Go errors to the loader;
// every failure is appended to the shared diagnostics collection.
package project

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/quarrybuild/quarry/pkg/diag"
	"github.com/quarrybuild/quarry/pkg/platform"
)

// DefaultFileName is the project file looked up next to the config root when
// no explicit path is configured.
const DefaultFileName = "quarry.project.json"

// Summary is the subset of check-project configuration surfaced back to
// loader callers.
type Summary struct {
	// Path is the absolute project file path, empty when no file was found.
	Path string `json:"path,omitempty"`

	// CompilerOptions is the merged compiler-option set, child over parent
	// across the extends chain.
	CompilerOptions map[string]any `json:"compilerOptions,omitempty"`

	// Files is the resolved absolute file list the checker runs over.
	Files []string `json:"files,omitempty"`

	// Include and Exclude are the effective glob patterns.
	Include []string `json:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty"`

	// Extends lists the parent project files that were merged, in the order
	// they were visited.
	Extends []string `json:"extends,omitempty"`
}

// Clone returns a deep copy of the summary. The loader publishes clones so
// later mutation of the live summary cannot leak into results already handed
// out.
func (s Summary) Clone() Summary {
	out := s
	out.CompilerOptions = cloneValue(s.CompilerOptions).(map[string]any)
	out.Files = append([]string(nil), s.Files...)
	out.Include = append([]string(nil), s.Include...)
	out.Exclude = append([]string(nil), s.Exclude...)
	out.Extends = append([]string(nil), s.Extends...)
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// file is the on-disk shape of a project file.
type file struct {
	Extends         string         `json:"extends" yaml:"extends"`
	CompilerOptions map[string]any `json:"compilerOptions" yaml:"compilerOptions"`
	Files           []string       `json:"files" yaml:"files"`
	Include         []string       `json:"include" yaml:"include"`
	Exclude         []string       `json:"exclude" yaml:"exclude"`
}

// Validator resolves and validates the check-project file.
type Validator struct{}

// NewValidator creates a project validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate locates the project file for cfg, resolves its extends chain and
// file set, and returns the summary. cfg must already carry a derived rootDir.
// Failures are appended to diags; the returned summary is zero-valued when no
// usable project file exists.
func (v *Validator) Validate(cfg map[string]any, sys platform.System, diags *diag.Diagnostics) Summary {
	rootDir, _ := cfg["rootDir"].(string)
	explicit, _ := cfg["project"].(string)

	path := explicit
	if path == "" {
		path = DefaultFileName
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(rootDir, path)
	}

	exists, err := afero.Exists(sys.Fs(), path)
	if err != nil {
		diags.Errorf(path, "checking project file: %v", err)
		return Summary{}
	}
	if !exists {
		if explicit != "" {
			diags.Errorf(path, "project file %q does not exist", path)
		}
		return Summary{}
	}

	merged, extends := v.resolveChain(sys, diags, path, map[string]bool{})
	if diags.HasErrors() {
		return Summary{}
	}

	summary := Summary{
		Path:            path,
		CompilerOptions: merged.CompilerOptions,
		Include:         merged.Include,
		Exclude:         merged.Exclude,
		Extends:         extends,
	}
	if summary.CompilerOptions == nil {
		summary.CompilerOptions = map[string]any{}
	}

	summary.Files = v.resolveFiles(sys, diags, filepath.Dir(path), merged)
	return summary
}

// resolveChain loads path and every project file it extends, merging child
// settings over parent ones. visited guards against extends cycles.
func (v *Validator) resolveChain(sys platform.System, diags *diag.Diagnostics, path string, visited map[string]bool) (file, []string) {
	if visited[path] {
		diags.Errorf(path, "circular \"extends\" chain in project file %q", path)
		return file{}, nil
	}
	visited[path] = true

	current, ok := v.parseFile(sys, diags, path)
	if !ok {
		return file{}, nil
	}

	if current.Extends == "" {
		return current, nil
	}

	parentPath := current.Extends
	if !filepath.IsAbs(parentPath) {
		parentPath = filepath.Join(filepath.Dir(path), parentPath)
	}

	parent, parentExtends := v.resolveChain(sys, diags, parentPath, visited)
	if diags.HasErrors() {
		return file{}, nil
	}

	merged := file{
		CompilerOptions: mergeOptions(parent.CompilerOptions, current.CompilerOptions),
		Files:           firstNonNil(current.Files, parent.Files),
		Include:         firstNonNil(current.Include, parent.Include),
		Exclude:         firstNonNil(current.Exclude, parent.Exclude),
	}
	return merged, append([]string{parentPath}, parentExtends...)
}

func (v *Validator) parseFile(sys platform.System, diags *diag.Diagnostics, path string) (file, bool) {
	text, err := sys.ReadFile(path)
	if err != nil {
		diags.Errorf(path, "reading project file: %v", err)
		return file{}, false
	}

	var pf file
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal([]byte(text), &pf)
	default:
		// Project files may carry comments and trailing commas.
		err = json.Unmarshal(jsonc.ToJSON([]byte(text)), &pf)
	}
	if err != nil {
		diags.Errorf(path, "invalid project file: %v", err)
		return file{}, false
	}
	return pf, true
}

// resolveFiles produces the absolute file list. An explicit files list wins;
// otherwise include globs are expanded against the project directory and
// filtered through the exclude patterns.
func (v *Validator) resolveFiles(sys platform.System, diags *diag.Diagnostics, dir string, pf file) []string {
	if pf.Files != nil {
		files := make([]string, 0, len(pf.Files))
		for _, f := range pf.Files {
			p := f
			if !filepath.IsAbs(p) {
				p = filepath.Join(dir, p)
			}
			exists, err := afero.Exists(sys.Fs(), p)
			if err == nil && !exists {
				diags.Warnf(p, "listed file %q does not exist", p)
			}
			files = append(files, p)
		}
		return files
	}

	if len(pf.Include) == 0 {
		return nil
	}

	base := afero.NewIOFS(afero.NewBasePathFs(sys.Fs(), dir))
	seen := map[string]bool{}
	var files []string
	for _, pattern := range pf.Include {
		matches, err := doublestar.Glob(base, pattern)
		if err != nil {
			diags.Errorf(dir, "invalid include pattern %q: %v", pattern, err)
			return nil
		}
	match:
		for _, m := range matches {
			for _, excl := range pf.Exclude {
				if ok, _ := doublestar.Match(excl, m); ok {
					continue match
				}
			}
			abs := filepath.Join(dir, filepath.FromSlash(m))
			if !seen[abs] {
				seen[abs] = true
				files = append(files, abs)
			}
		}
	}
	sort.Strings(files)
	return files
}

func mergeOptions(parent, child map[string]any) map[string]any {
	if parent == nil && child == nil {
		return nil
	}
	out := make(map[string]any, len(parent)+len(child))
	for k, v := range parent {
		out[k] = v
	}
	for k, v := range child {
		out[k] = v
	}
	return out
}

func firstNonNil(a, b []string) []string {
	if a != nil {
		return a
	}
	return b
}

// Describe renders a short human-readable account of the summary, used by the
// CLI show command.
func (s Summary) Describe() string {
	if s.Path == "" {
		return "no project file"
	}
	return fmt.Sprintf("%s (%d files, %d inherited)", s.Path, len(s.Files), len(s.Extends))
}
