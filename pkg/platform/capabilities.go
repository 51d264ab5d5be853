package platform

import "github.com/spf13/afero"

// Capabilities describes host facts that are fixed for the lifetime of a
// System handle. They are detected once and injected where a strategy choice
// is made, never re-checked inline.
type Capabilities struct {
	// NativeLoader reports whether config files can be handed to the host
	// tool-chain loaders directly (CUE package loading, Starlark load()).
	// Those loaders resolve real paths themselves, so they require the System
	// to be backed by the operating system filesystem. Without it, config
	// files are evaluated in the sandboxed interpreter instead.
	NativeLoader bool
}

// Detect derives the Capabilities of sys.
func Detect(sys System) Capabilities {
	if sys == nil {
		return Capabilities{}
	}
	_, native := sys.Fs().(*afero.OsFs)
	return Capabilities{NativeLoader: native}
}
