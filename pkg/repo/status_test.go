package repo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/odvcencio/grit/pkg/object"
)

func statusMap(t *testing.T, r *Repo) map[string]Classification {
	t.Helper()
	entries, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	out := make(map[string]Classification, len(entries))
	for _, e := range entries {
		if _, dup := out[e.Path]; dup {
			t.Errorf("path %q classified twice", e.Path)
		}
		out[e.Path] = e.State
	}
	return out
}

func TestStatusEmptyRepo(t *testing.T) {
	r := tempRepo(t)
	entries, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("empty repo status has %d entries: %v", len(entries), entries)
	}
}

func TestStatusUntracked(t *testing.T) {
	r := tempRepo(t)
	writeWorkFile(t, r, "new.txt", "data")

	st := statusMap(t, r)
	if st["new.txt"] != StatusUntracked {
		t.Errorf("new.txt: got %v, want untracked", st["new.txt"])
	}
}

func TestStatusStagedUnmodified(t *testing.T) {
	r := tempRepo(t)
	writeWorkFile(t, r, "a.txt", "hello")
	if err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	st := statusMap(t, r)
	if st["a.txt"] != StatusStaged {
		t.Errorf("a.txt: got %v, want staged", st["a.txt"])
	}
}

func TestStatusModifiedAfterStaging(t *testing.T) {
	r := tempRepo(t)
	writeWorkFile(t, r, "a.txt", "hello")
	if err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	writeWorkFile(t, r, "a.txt", "world")

	st := statusMap(t, r)
	if st["a.txt"] != StatusModified {
		t.Errorf("a.txt: got %v, want modified", st["a.txt"])
	}
}

func TestStatusDeletedFromWorktree(t *testing.T) {
	r := tempRepo(t)
	writeWorkFile(t, r, "a.txt", "hello")
	if err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := os.Remove(filepath.Join(r.RootDir, "a.txt")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	st := statusMap(t, r)
	if st["a.txt"] != StatusDeleted {
		t.Errorf("a.txt: got %v, want deleted", st["a.txt"])
	}
}

func TestStatusAfterCommitUnchangedTree(t *testing.T) {
	r := tempRepo(t)
	writeWorkFile(t, r, "a.txt", "hello")
	if err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Commit("first", "tester"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	// The index is retained across commit: an unchanged file stays staged.
	st := statusMap(t, r)
	if st["a.txt"] != StatusStaged {
		t.Errorf("a.txt after commit: got %v, want staged", st["a.txt"])
	}
}

func TestStatusModifiedAfterCommit(t *testing.T) {
	r := tempRepo(t)
	writeWorkFile(t, r, "a.txt", "hello")
	if err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Commit("first", "tester"); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	writeWorkFile(t, r, "a.txt", "world")

	st := statusMap(t, r)
	if st["a.txt"] != StatusModified {
		t.Errorf("a.txt modified after commit: got %v, want modified", st["a.txt"])
	}
}

func TestStatusTrackedButUnstaged(t *testing.T) {
	r := tempRepo(t)
	writeWorkFile(t, r, "a.txt", "hello")
	if err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Commit("first", "tester"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	// Drop the index entry while keeping the file: the path is now present
	// in worktree and HEAD only.
	if err := r.Remove([]string{"a.txt"}, true); err != nil {
		t.Fatalf("Remove --cached: %v", err)
	}

	st := statusMap(t, r)
	if st["a.txt"] != StatusModifiedNotStaged {
		t.Errorf("a.txt: got %v, want modified (not staged)", st["a.txt"])
	}
}

func TestStatusDeletedNotStaged(t *testing.T) {
	r := tempRepo(t)
	writeWorkFile(t, r, "a.txt", "hello")
	if err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Commit("first", "tester"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	// Remove from both index and working tree: only HEAD still has it.
	if err := r.Remove([]string{"a.txt"}, false); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	st := statusMap(t, r)
	if st["a.txt"] != StatusDeletedNotStaged {
		t.Errorf("a.txt: got %v, want deleted (not staged)", st["a.txt"])
	}
}

func TestStatusIgnoredFilesSkipped(t *testing.T) {
	r := tempRepo(t)
	writeWorkFile(t, r, ".gritignore", "*.log\nbuild/\n")
	writeWorkFile(t, r, "app.log", "noise")
	writeWorkFile(t, r, "build/out.bin", "bits")
	writeWorkFile(t, r, "kept.txt", "data")

	st := statusMap(t, r)
	if _, ok := st["app.log"]; ok {
		t.Error("ignored file app.log appeared in status")
	}
	if _, ok := st["build/out.bin"]; ok {
		t.Error("file under ignored dir appeared in status")
	}
	if st["kept.txt"] != StatusUntracked {
		t.Errorf("kept.txt: got %v, want untracked", st["kept.txt"])
	}
}

func TestStatusEveryPathClassifiedOnce(t *testing.T) {
	r := tempRepo(t)
	writeWorkFile(t, r, "one.txt", "1")
	writeWorkFile(t, r, "two.txt", "2")
	writeWorkFile(t, r, "sub/three.txt", "3")
	if err := r.Add([]string{"one.txt", "sub/three.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Commit("first", "tester"); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	writeWorkFile(t, r, "one.txt", "1 changed")
	if err := os.Remove(filepath.Join(r.RootDir, "sub", "three.txt")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	st := statusMap(t, r)
	want := map[string]Classification{
		"one.txt":       StatusModified,
		"two.txt":       StatusUntracked,
		"sub/three.txt": StatusDeleted,
	}
	if len(st) != len(want) {
		t.Errorf("status size: got %d (%v), want %d", len(st), st, len(want))
	}
	for path, cls := range want {
		if st[path] != cls {
			t.Errorf("%s: got %v, want %v", path, st[path], cls)
		}
	}
}

func TestStatusSurfacesCorruptHeadCommit(t *testing.T) {
	r := tempRepo(t)
	h := stageAndCommit(t, r, "a.txt", "hello", "first")

	// Overwrite the HEAD commit's object file with garbage.
	objPath := filepath.Join(r.GritDir, "objects", string(h[:2]), string(h[2:]))
	if err := os.WriteFile(objPath, []byte("not a zstd frame"), 0o644); err != nil {
		t.Fatalf("overwrite object: %v", err)
	}
	// Drop the index entry so classification depends on the HEAD tree.
	if err := r.Remove([]string{"a.txt"}, true); err != nil {
		t.Fatalf("Remove --cached: %v", err)
	}

	_, err := r.Status()
	if !errors.Is(err, object.ErrObjectCorrupt) {
		t.Errorf("status over corrupt HEAD: got %v, want ErrObjectCorrupt", err)
	}
}

func TestStatusFastPathStatMatch(t *testing.T) {
	r := tempRepo(t)
	writeWorkFile(t, r, "a.txt", "stable content")
	if err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	stg, err := r.ReadStaging()
	if err != nil {
		t.Fatalf("ReadStaging: %v", err)
	}
	se := stg.Entries["a.txt"]

	h, err := r.worktreeBlobHash("a.txt", se)
	if err != nil {
		t.Fatalf("worktreeBlobHash: %v", err)
	}
	if h != se.BlobHash {
		t.Errorf("stat fast path: got %s, want staged hash %s", h, se.BlobHash)
	}
}

func TestStatusChecksumFallbackDetectsChange(t *testing.T) {
	r := tempRepo(t)
	writeWorkFile(t, r, "a.txt", "before")
	if err := r.Add([]string{"a.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	stg, _ := r.ReadStaging()
	se := stg.Entries["a.txt"]

	// Same length, different content: stat may lie, the checksum must not.
	writeWorkFile(t, r, "a.txt", "after!")
	se.ModTime = 0 // force the fast path to miss

	h, err := r.worktreeBlobHash("a.txt", se)
	if err != nil {
		t.Fatalf("worktreeBlobHash: %v", err)
	}
	if h == se.BlobHash {
		t.Error("changed content reported the staged hash")
	}
}
