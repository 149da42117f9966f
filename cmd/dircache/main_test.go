package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/odvcencio/dircache/pkg/config"
	"github.com/odvcencio/dircache/pkg/object"
	"github.com/odvcencio/dircache/pkg/repo"
)

var testTime = time.Unix(1700000000, 0).UTC()

func chdirForTest(t *testing.T, dir string) func() {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir(%s): %v", dir, err)
	}
	return func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatalf("restore cwd %s: %v", wd, err)
		}
	}
}

// stubEnv replaces the environment, system identity and clock seen by the
// commands for the duration of the test.
func stubEnv(t *testing.T, env map[string]string) {
	t.Helper()
	oldEnv, oldSys, oldNow := lookupEnv, lookupSystem, now
	lookupEnv = func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	lookupSystem = func() config.System {
		return config.System{RealName: "Test User", Username: "tester", Hostname: "host"}
	}
	now = func() time.Time { return testTime }
	t.Cleanup(func() {
		lookupEnv, lookupSystem, now = oldEnv, oldSys, oldNow
	})
}

func runCmd(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func mustRun(t *testing.T, stdin string, args ...string) (string, string) {
	t.Helper()
	out, errOut, err := runCmd(t, stdin, args...)
	if err != nil {
		t.Fatalf("%s: %v\nstdout:\n%s\nstderr:\n%s", strings.Join(args, " "), err, out, errOut)
	}
	return out, errOut
}

func initTestRepo(t *testing.T, env map[string]string) string {
	t.Helper()
	stubEnv(t, env)
	dir := t.TempDir()
	restore := chdirForTest(t, dir)
	t.Cleanup(restore)
	mustRun(t, "", "init-db")
	return dir
}

func TestVersionCmd(t *testing.T) {
	out, _ := mustRun(t, "", "version")
	if out != "dircache "+version+"\n" {
		t.Errorf("version output = %q", out)
	}
}

func TestInitDBCmd(t *testing.T) {
	stubEnv(t, nil)
	dir := t.TempDir()
	restore := chdirForTest(t, dir)
	defer restore()

	out, errOut := mustRun(t, "", "init-db")
	if !strings.Contains(errOut, "defaulting to private storage area") {
		t.Errorf("stderr = %q, want private storage notice", errOut)
	}
	if !strings.Contains(out, repo.MetaDirName) {
		t.Errorf("stdout = %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, repo.MetaDirName, repo.ObjectsDirName, "a0")); err != nil {
		t.Errorf("fan-out dir missing: %v", err)
	}
	if _, err := os.Stat(config.Path(dir)); err != nil {
		t.Errorf("config file missing: %v", err)
	}

	if _, _, err := runCmd(t, "", "init-db"); err == nil {
		t.Error("second init-db succeeded, want error")
	}
}

func TestInitDBCmdObjectDirFromEnv(t *testing.T) {
	shared := filepath.Join(t.TempDir(), "shared-objects")
	dir := initTestRepo(t, map[string]string{config.EnvObjectDir: shared})

	if _, err := os.Stat(filepath.Join(shared, "ff")); err != nil {
		t.Fatalf("shared store not initialized: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, repo.MetaDirName, repo.ObjectsDirName)); !os.IsNotExist(err) {
		t.Errorf("private objects dir created despite override: %v", err)
	}

	if err := os.WriteFile("f", []byte("x\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	mustRun(t, "", "update-cache", "f")
	h := object.HashObject(object.TypeBlob, []byte("x\n"))
	if _, err := os.Stat(filepath.Join(shared, h.Path())); err != nil {
		t.Errorf("blob not written to shared store: %v", err)
	}
}

func TestPlumbingWorkflow(t *testing.T) {
	initTestRepo(t, map[string]string{
		config.EnvCommitterName:  "Env Committer",
		config.EnvCommitterEmail: "env@example.com",
	})

	if err := os.WriteFile("hello.txt", []byte("hello\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.MkdirAll("src/lib", 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile("src/lib/code.go", []byte("package lib\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, errOut := mustRun(t, "", "update-cache", "hello.txt", "no-such-file", "src/lib/code.go")
	if !strings.Contains(errOut, "ignoring no-such-file") {
		t.Errorf("update-cache stderr = %q, want skipped path", errOut)
	}

	out, _ := mustRun(t, "", "write-tree")
	tree := strings.TrimSpace(out)
	if _, err := object.ParseHash(tree); err != nil {
		t.Fatalf("write-tree printed %q: %v", out, err)
	}

	out, _ = mustRun(t, "", "read-tree", tree)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("read-tree lines = %q, want 2", lines)
	}
	if !strings.Contains(lines[0], `"hello.txt" (ce013625030ba8dba906f756967f9e9ca394464a)`) {
		t.Errorf("read-tree line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], `"src/lib/code.go"`) {
		t.Errorf("read-tree line 1 = %q", lines[1])
	}

	out, errOut = mustRun(t, "first commit\n", "commit-tree", tree)
	if errOut != "Committing initial tree "+tree+"\n" {
		t.Errorf("commit-tree stderr = %q", errOut)
	}
	root := strings.TrimSpace(out)

	out, errOut = mustRun(t, "second\n", "commit-tree", tree, "-p", root)
	if errOut != "" {
		t.Errorf("commit-tree with parent stderr = %q", errOut)
	}
	child := strings.TrimSpace(out)

	out, _ = mustRun(t, "", "cat-file", child)
	name, typ, ok := strings.Cut(strings.TrimSpace(out), ": ")
	if !ok || typ != "commit" || !strings.HasPrefix(name, "temp_git_file_") {
		t.Fatalf("cat-file output = %q", out)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", name, err)
	}
	want := "tree " + tree + "\n" +
		"parent " + root + "\n" +
		"author Test User <tester@host> 1700000000 +0000\n" +
		"committer Env Committer <env@example.com> 1700000000 +0000\n" +
		"\nsecond\n"
	if string(data) != want {
		t.Errorf("commit text:\ngot:  %q\nwant: %q", data, want)
	}

	out, _ = mustRun(t, "", "show-diff")
	if out != "hello.txt: ok\nsrc/lib/code.go: ok\n" {
		t.Errorf("show-diff clean output = %q", out)
	}

	if err := os.WriteFile("hello.txt", []byte("hello, world\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	out, _ = mustRun(t, "", "show-diff")
	for _, s := range []string{
		"hello.txt: ce013625030ba8dba906f756967f9e9ca394464a\n",
		"-hello\n+hello, world\n",
		"src/lib/code.go: ok\n",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("show-diff output missing %q:\n%s", s, out)
		}
	}
}

func TestCommandErrors(t *testing.T) {
	initTestRepo(t, nil)
	tests := []struct {
		name string
		args []string
	}{
		{"read-tree bad hash", []string{"read-tree", "xyz"}},
		{"read-tree missing", []string{"read-tree", strings.Repeat("ab", 20)}},
		{"cat-file missing", []string{"cat-file", strings.Repeat("cd", 20)}},
		{"commit-tree bad parent", []string{"commit-tree", strings.Repeat("ab", 20), "-p", "nothex"}},
		{"update-cache no args", []string{"update-cache"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := runCmd(t, "", tt.args...); err == nil {
				t.Errorf("%v succeeded, want error", tt.args)
			}
		})
	}
}

func TestCommandOutsideRepo(t *testing.T) {
	stubEnv(t, nil)
	restore := chdirForTest(t, t.TempDir())
	defer restore()
	if _, _, err := runCmd(t, "", "write-tree"); err == nil {
		t.Error("write-tree outside a repository succeeded")
	}
}
