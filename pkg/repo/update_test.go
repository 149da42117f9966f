package repo

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/odvcencio/dircache/pkg/index"
	"github.com/odvcencio/dircache/pkg/object"
)

func TestUpdateCache_RecordsBlobAndStat(t *testing.T) {
	r := newTestRepo(t)
	abs := writeFile(t, r, "hello.txt", "hello\n")

	res, err := r.UpdateCache([]string{"hello.txt"})
	if err != nil {
		t.Fatalf("UpdateCache: %v", err)
	}
	if len(res.Updated) != 1 || res.Updated[0] != "hello.txt" || len(res.Skipped) != 0 {
		t.Fatalf("result = %+v, want one updated path", res)
	}
	if res.Err() != nil {
		t.Errorf("Err() = %v, want nil", res.Err())
	}

	cache, err := r.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	e, ok := cache.Get("hello.txt")
	if !ok {
		t.Fatal("index has no entry for hello.txt")
	}
	if got := e.Hash.String(); got != "ce013625030ba8dba906f756967f9e9ca394464a" {
		t.Errorf("hash = %s, want the hello blob hash", got)
	}
	blob, err := r.Store.ReadBlob(e.Hash)
	if err != nil {
		t.Fatalf("ReadBlob: %v", err)
	}
	if string(blob.Data) != "hello\n" {
		t.Errorf("blob = %q", blob.Data)
	}

	cur, err := index.StatPath(abs)
	if err != nil {
		t.Fatalf("StatPath: %v", err)
	}
	if m := e.Changed(cur); m != 0 {
		t.Errorf("fresh entry differs from file: %s", m)
	}
}

func TestUpdateCache_NestedPathIsRepoRelative(t *testing.T) {
	r := newTestRepo(t)
	abs := writeFile(t, r, "dir/sub/file.go", "package sub\n")

	res, err := r.UpdateCache([]string{abs})
	if err != nil {
		t.Fatalf("UpdateCache: %v", err)
	}
	if len(res.Updated) != 1 || res.Updated[0] != "dir/sub/file.go" {
		t.Fatalf("Updated = %v, want [dir/sub/file.go]", res.Updated)
	}
}

func TestUpdateCache_RootBehindSymlink(t *testing.T) {
	base := t.TempDir()
	realDir := filepath.Join(base, "real")
	if err := os.MkdirAll(filepath.Join(realDir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(base, "link")
	if err := os.Symlink(realDir, link); err != nil {
		t.Skipf("symlink: %v", err)
	}
	r, err := Init(link, Options{})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	writeFile(t, r, "sub/f", "via cwd\n")
	writeFile(t, r, "sub/g", "via abs\n")

	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(filepath.Join(realDir, "sub")); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWD) })
	res, err := r.UpdateCache([]string{"f", filepath.Join(realDir, "sub", "g")})
	if err != nil {
		t.Fatalf("UpdateCache: %v", err)
	}
	if len(res.Updated) != 2 || res.Updated[0] != "sub/f" || res.Updated[1] != "sub/g" {
		t.Fatalf("Updated = %v, want [sub/f sub/g]", res.Updated)
	}
}

func TestUpdateCache_ReplacesEntry(t *testing.T) {
	r := newTestRepo(t)
	writeFile(t, r, "f", "one\n")
	if _, err := r.UpdateCache([]string{"f"}); err != nil {
		t.Fatalf("UpdateCache 1: %v", err)
	}
	writeFile(t, r, "f", "two, longer\n")
	if _, err := r.UpdateCache([]string{"f"}); err != nil {
		t.Fatalf("UpdateCache 2: %v", err)
	}

	cache, err := r.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	if cache.Len() != 1 {
		t.Fatalf("entries = %d, want 1", cache.Len())
	}
	e, _ := cache.Get("f")
	if want := object.HashObject(object.TypeBlob, []byte("two, longer\n")); e.Hash != want {
		t.Errorf("hash = %s, want %s", e.Hash, want)
	}
	if e.Size != uint64(len("two, longer\n")) {
		t.Errorf("size = %d, want %d", e.Size, len("two, longer\n"))
	}
}

func TestUpdateCache_SkipsUnreadableAndSavesRest(t *testing.T) {
	r := newTestRepo(t)
	writeFile(t, r, "good", "good\n")
	if err := os.Mkdir(filepath.Join(r.RootDir, "adir"), 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	res, err := r.UpdateCache([]string{"missing", "good", "adir", "../outside", ".dircache/index"})
	if err != nil {
		t.Fatalf("UpdateCache: %v", err)
	}
	if len(res.Updated) != 1 || res.Updated[0] != "good" {
		t.Errorf("Updated = %v, want [good]", res.Updated)
	}
	if len(res.Skipped) != 4 {
		t.Fatalf("Skipped = %v, want 4 paths", res.Skipped)
	}

	wantKinds := []error{fs.ErrNotExist, ErrNotRegular, ErrOutsideRepo, ErrInvalidPath}
	for i, want := range wantKinds {
		if !errors.Is(res.Skipped[i].Err, want) {
			t.Errorf("Skipped[%d] = %v, want %v", i, res.Skipped[i], want)
		}
	}

	var partial *PartialUpdateError
	if err := res.Err(); !errors.As(err, &partial) || len(partial.Skipped) != 4 {
		t.Errorf("Err() = %v, want *PartialUpdateError with 4 paths", err)
	}
	if !errors.Is(res.Err(), fs.ErrNotExist) {
		t.Error("PartialUpdateError does not unwrap to the per-path causes")
	}

	cache, err := r.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	if _, ok := cache.Get("good"); !ok || cache.Len() != 1 {
		t.Errorf("index entries = %d, want only good", cache.Len())
	}
}

func TestUpdateCache_LockHeld(t *testing.T) {
	r := newTestRepo(t)
	writeFile(t, r, "f", "data\n")

	before, err := os.ReadFile(r.IndexPath())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lk, err := index.Lock(r.IndexPath())
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	defer lk.Rollback()

	_, err = r.UpdateCache([]string{"f"})
	if !errors.Is(err, index.ErrConcurrentModification) {
		t.Fatalf("UpdateCache under lock: got %v, want ErrConcurrentModification", err)
	}
	after, err := os.ReadFile(r.IndexPath())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("index changed while another writer held the lock")
	}
	if _, err := os.Stat(r.IndexPath() + index.LockSuffix); err != nil {
		t.Errorf("foreign lock file removed: %v", err)
	}
}

func TestUpdateCache_ReleasesLock(t *testing.T) {
	r := newTestRepo(t)
	if _, err := r.UpdateCache([]string{"nothing-here"}); err != nil {
		t.Fatalf("UpdateCache: %v", err)
	}
	if _, err := os.Stat(r.IndexPath() + index.LockSuffix); !os.IsNotExist(err) {
		t.Errorf("lock file left behind: %v", err)
	}
}

func TestUpdateCache_CorruptIndex(t *testing.T) {
	r := newTestRepo(t)
	if err := os.WriteFile(r.IndexPath(), []byte("garbage"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := r.UpdateCache([]string{"f"})
	if !errors.Is(err, index.ErrCorruptIndex) {
		t.Fatalf("UpdateCache: got %v, want ErrCorruptIndex", err)
	}
	if _, err := os.Stat(r.IndexPath() + index.LockSuffix); !os.IsNotExist(err) {
		t.Errorf("lock file left behind after failure: %v", err)
	}
}
