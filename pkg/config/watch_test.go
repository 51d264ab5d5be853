package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatch_InlineOnlyHasNothingToWatch(t *testing.T) {
	sys := newSandboxSystem(t, nil)

	calls := 0
	_, err := NewLoader().Watch(context.Background(), LoadInit{Sys: sys, Config: Config{}}, func(*LoadResult) {
		calls++
	})

	if err == nil {
		t.Fatal("expected error for inline-only configuration")
	}
	if calls != 1 {
		t.Errorf("initial load must still be delivered, got %d calls", calls)
	}
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quarry.config.star")
	if err := os.WriteFile(path, []byte(`exports["config"] = {"rev": 1}`), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan *LoadResult, 4)
	w, err := NewLoader().Watch(ctx, LoadInit{Path: path}, func(r *LoadResult) {
		results <- r
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	first := <-results
	if first.Config["rev"] != int64(1) {
		t.Fatalf("unexpected initial config %v", first.Config)
	}

	if err := os.WriteFile(path, []byte(`exports["config"] = {"rev": 2}`), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case second := <-results:
		if second.Config["rev"] != int64(2) {
			t.Errorf("expected reloaded config, got %v", second.Config)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}
