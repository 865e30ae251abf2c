package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func waitEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev
	case err := <-w.Errors():
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestWatcher_Coalesces(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.txt")
	markings := filepath.Join(dir, "markings.json")
	writeFile(t, doc, "a")
	writeFile(t, markings, "{}")

	w, err := New(200*time.Millisecond, doc, markings)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	writeFile(t, doc, "b")
	writeFile(t, markings, `{"fragments": []}`)
	writeFile(t, doc, "c")

	ev := waitEvent(t, w)
	if len(ev.Paths) != 2 {
		t.Fatalf("Paths = %v, want both files", ev.Paths)
	}
	if ev.Paths[0] != doc || ev.Paths[1] != markings {
		t.Errorf("Paths = %v, want [%s %s]", ev.Paths, doc, markings)
	}
	if ev.Timestamp.IsZero() {
		t.Error("Timestamp is zero")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.txt")
	writeFile(t, doc, "a")

	w, err := New(20*time.Millisecond, doc)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	writeFile(t, filepath.Join(dir, "other.txt"), "x")

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event %v", ev)
	case <-time.After(200 * time.Millisecond):
	}

	writeFile(t, doc, "b")
	ev := waitEvent(t, w)
	if len(ev.Paths) != 1 || ev.Paths[0] != doc {
		t.Errorf("Paths = %v, want [%s]", ev.Paths, doc)
	}
}

func TestWatcher_Close(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.txt")
	writeFile(t, doc, "a")

	w, err := New(0, doc)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if w.delay != DefaultDelay {
		t.Errorf("delay = %v, want %v", w.delay, DefaultDelay)
	}
	if got := w.Files(); len(got) != 1 || got[0] != doc {
		t.Errorf("Files() = %v, want [%s]", got, doc)
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
	if _, ok := <-w.Events(); ok {
		t.Error("Events channel still open after Close")
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(0, filepath.Join(t.TempDir(), "missing", "doc.txt"))
	if err == nil {
		t.Error("New with missing directory succeeded")
	}
}

func TestTracker_Changed(t *testing.T) {
	var tr Tracker

	if !tr.Changed([]byte("doc"), []byte("markings")) {
		t.Error("first Changed = false, want true")
	}
	if tr.Changed([]byte("doc"), []byte("markings")) {
		t.Error("Changed with same inputs = true, want false")
	}
	if !tr.Changed([]byte("doc2"), []byte("markings")) {
		t.Error("Changed with new doc = false, want true")
	}
	if !tr.Changed([]byte("doc2")) {
		t.Error("Changed with fewer inputs = false, want true")
	}

	tr.Reset()
	if !tr.Changed([]byte("doc2")) {
		t.Error("Changed after Reset = false, want true")
	}
}
