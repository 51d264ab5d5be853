// Package platform abstracts the host facts the config loader depends on:
// file access through a narrow system handle, and the capability descriptor
// that selects a config-file evaluation strategy.
package platform

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// System is the file-system contract consumed during config loading. Embedders
// supply their own handle when loading must happen against something other
// than the host disk (tests, remote snapshots, archives).
type System interface {
	// ReadFile returns the full text of the file at path.
	ReadFile(path string) (string, error)

	// Getwd returns the working directory config paths resolve against.
	Getwd() (string, error)

	// Fs exposes the underlying filesystem for collaborators that walk or
	// watch files.
	Fs() afero.Fs
}

type system struct {
	fs afero.Fs
	wd string
}

// NewSystem returns a System backed by the operating system.
func NewSystem() System {
	return &system{fs: afero.NewOsFs()}
}

// NewVirtualSystem returns a System over an arbitrary afero filesystem with a
// fixed working directory.
func NewVirtualSystem(fs afero.Fs, wd string) System {
	return &system{fs: fs, wd: wd}
}

func (s *system) ReadFile(path string) (string, error) {
	b, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *system) Getwd() (string, error) {
	if s.wd != "" {
		return s.wd, nil
	}
	return os.Getwd()
}

func (s *system) Fs() afero.Fs {
	return s.fs
}

// Resolve normalizes path into an absolute form against the system's working
// directory. Relative paths stay relative only if the working directory is
// unknown.
func Resolve(sys System, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	wd, err := sys.Getwd()
	if err != nil {
		return filepath.Clean(path)
	}
	return filepath.Join(wd, path)
}
