package platform

import (
	"testing"

	"github.com/spf13/afero"
)

func TestVirtualSystem(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/work/quarry.config.star", []byte("exports[\"config\"] = {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	sys := NewVirtualSystem(fs, "/work")

	wd, err := sys.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if wd != "/work" {
		t.Errorf("expected wd /work, got %s", wd)
	}

	text, err := sys.ReadFile("/work/quarry.config.star")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if text == "" {
		t.Error("expected file contents")
	}

	if _, err := sys.ReadFile("/work/missing.star"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestResolve(t *testing.T) {
	sys := NewVirtualSystem(afero.NewMemMapFs(), "/work")

	tests := []struct {
		name string
		path string
		want string
	}{
		{"relative", "quarry.config.star", "/work/quarry.config.star"},
		{"relative nested", "conf/build.cue", "/work/conf/build.cue"},
		{"absolute", "/etc/quarry/config.star", "/etc/quarry/config.star"},
		{"absolute unclean", "/etc//quarry/../quarry/config.star", "/etc/quarry/config.star"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(sys, tt.path); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestDetect(t *testing.T) {
	if caps := Detect(NewSystem()); !caps.NativeLoader {
		t.Error("OS-backed system should report NativeLoader")
	}
	if caps := Detect(NewVirtualSystem(afero.NewMemMapFs(), "/")); caps.NativeLoader {
		t.Error("in-memory system must not report NativeLoader")
	}
	if caps := Detect(nil); caps.NativeLoader {
		t.Error("nil system must not report NativeLoader")
	}
}
