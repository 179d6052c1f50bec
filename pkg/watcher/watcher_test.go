package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stack.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWatcher_StartStop(t *testing.T) {
	path := writeTempFile(t, "{}")

	w, err := New(path)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if w.IsStarted() {
		t.Error("watcher started before Start")
	}

	if err := w.Start(); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if !w.IsStarted() {
		t.Error("watcher not started after Start")
	}
	if err := w.Start(); err != ErrAlreadyStarted {
		t.Errorf("second Start = %v, want ErrAlreadyStarted", err)
	}

	w.Stop()
	if w.IsStarted() {
		t.Error("watcher still started after Stop")
	}
	w.Stop() // Idempotent
}

func TestWatcher_ForcePoll(t *testing.T) {
	path := writeTempFile(t, "{}")

	w, err := New(path, WithForcePoll(true), WithPollInterval(10*time.Millisecond))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Error("forced poll mode should report polling")
	}
}

func TestWatcher_DetectsChange(t *testing.T) {
	path := writeTempFile(t, "v1")

	w, err := New(path,
		WithForcePoll(true), // Polling is deterministic across platforms
		WithPollInterval(10*time.Millisecond),
		WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	defer w.Stop()

	// Mtime granularity can swallow fast writes; change the size too.
	time.Sleep(20 * time.Millisecond)
	if err := os.WriteFile(path, []byte("v2 longer"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Changed():
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification within 3s")
	}
}

func TestWatcher_OnChangeCallback(t *testing.T) {
	path := writeTempFile(t, "v1")

	changed := make(chan struct{}, 1)
	w, err := New(path,
		WithForcePoll(true),
		WithPollInterval(10*time.Millisecond),
		WithDebounce(10*time.Millisecond),
		WithOnChange(func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		}))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	defer w.Stop()

	time.Sleep(20 * time.Millisecond)
	if err := os.WriteFile(path, []byte("v2 with more bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("onChange not invoked within 3s")
	}
}

func TestWatcher_MissingFileOK(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-yet.json")
	w, err := New(path, WithForcePoll(true), WithPollInterval(10*time.Millisecond))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	// A file that does not exist yet is fine; it may appear later.
	if err := w.Start(); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	w.Stop()
}
