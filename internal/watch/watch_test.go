package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestWatcherSignalsOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "cartera.csv")
	if err := os.WriteFile(path, []byte("a\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w, err := New(path, zap.NewNop())
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "other.csv"), []byte("b\n"), 0o644); err != nil {
		t.Fatalf("write other: %v", err)
	}
	if err := os.WriteFile(path, []byte("a\nb\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	select {
	case <-w.Changes():
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for change signal")
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	for range w.Changes() {
		// Drain a signal buffered before Close; the range ends once closed.
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
