package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileWatcher_RunsOnceAfterWritesSettle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("create file: %v", err)
	}

	watcher, err := newFileWatcher(path, 200*time.Millisecond)
	if err != nil {
		t.Fatalf("new file watcher: %v", err)
	}
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seen := make(chan string, 4)
	done := make(chan error, 1)
	go func() {
		done <- watcher.Run(ctx, newLogger(io.Discard, "debug", false), func() error {
			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			seen <- string(content)
			return nil
		})
	}()

	if err := os.WriteFile(path, []byte("part"), 0o600); err != nil {
		t.Fatalf("first write: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	appendFile(t, path, "-final")

	select {
	case content := <-seen:
		if content != "part-final" {
			t.Fatalf("expected run to see final content, got %q", content)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("expected a run after writes settled")
	}

	select {
	case content := <-seen:
		t.Fatalf("expected a single run, got another with %q", content)
	case <-time.After(500 * time.Millisecond):
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestFileWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.csv")
	if err := os.WriteFile(path, []byte("data"), 0o600); err != nil {
		t.Fatalf("create file: %v", err)
	}

	watcher, err := newFileWatcher(path, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("new file watcher: %v", err)
	}
	defer watcher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 400*time.Millisecond)
	defer cancel()

	runs := 0
	go func() {
		if err := os.WriteFile(filepath.Join(dir, "other.csv"), []byte("noise"), 0o600); err != nil {
			t.Errorf("write other file: %v", err)
		}
	}()
	if err := watcher.Run(ctx, newLogger(io.Discard, "info", false), func() error {
		runs++
		return nil
	}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if runs != 0 {
		t.Fatalf("expected no runs for unrelated file, got %d", runs)
	}
}

func appendFile(t *testing.T, path, content string) {
	t.Helper()
	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		t.Fatalf("open for append: %v", err)
	}
	defer file.Close()
	if _, err := file.WriteString(content); err != nil {
		t.Fatalf("append: %v", err)
	}
}
