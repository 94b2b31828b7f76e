package report

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"n2t/internal/config"
)

func newStore(t *testing.T, withExe bool) *config.Store {
	t.Helper()
	st, err := config.Open(filepath.Join(t.TempDir(), config.FileName))
	if err != nil {
		t.Fatal(err)
	}
	if withExe {
		st.Set(config.KeySimulatorExecutable, "/opt/n2t/HardwareSimulator.sh")
	}
	return st
}

func writeFiles(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRunInvokesSimulatorPerTestFile(t *testing.T) {
	dir := writeFiles(t, "a.tst", "b.tst", "c.txt")

	var out, errBuf bytes.Buffer
	var calls []string
	r := &Runner{
		Store: newStore(t, true),
		Out:   &out,
		Err:   &errBuf,
		Invoke: func(exe, testPath string) error {
			calls = append(calls, testPath)
			return nil
		},
	}

	if code := r.Run(dir); code != 0 {
		t.Fatalf("Run = %d, want 0; stderr: %s", code, errBuf.String())
	}

	if len(calls) != 2 {
		t.Fatalf("simulator invoked %d times, want 2: %v", len(calls), calls)
	}
	for _, p := range calls {
		if !filepath.IsAbs(p) {
			t.Errorf("invoked with relative path %q", p)
		}
		if !strings.HasSuffix(p, TestFileExt) {
			t.Errorf("invoked with non-test file %q", p)
		}
	}
	if !strings.Contains(out.String(), "a.tst") || !strings.Contains(out.String(), "b.tst") {
		t.Errorf("output missing test names: %q", out.String())
	}
	if strings.Contains(out.String(), "c.txt") {
		t.Errorf("non-test file reported: %q", out.String())
	}
}

func TestRunNoExecutableConfigured(t *testing.T) {
	var out, errBuf bytes.Buffer
	r := &Runner{
		Store: newStore(t, false),
		Out:   &out,
		Err:   &errBuf,
		Invoke: func(exe, testPath string) error {
			t.Fatal("simulator invoked without a configured executable")
			return nil
		},
	}

	// A nonexistent directory proves the listing never happens.
	if code := r.Run(filepath.Join(t.TempDir(), "missing")); code != 1 {
		t.Fatalf("Run = %d, want 1", code)
	}
	if errBuf.Len() == 0 {
		t.Error("expected an error message on stderr")
	}
}

func TestRunNoTestFiles(t *testing.T) {
	dir := writeFiles(t, "readme.md")

	var out, errBuf bytes.Buffer
	r := &Runner{
		Store: newStore(t, true),
		Out:   &out,
		Err:   &errBuf,
		Invoke: func(exe, testPath string) error {
			t.Fatalf("unexpected invocation for %s", testPath)
			return nil
		},
	}

	if code := r.Run(dir); code != 0 {
		t.Fatalf("Run = %d, want 0", code)
	}
	if !strings.Contains(out.String(), "no "+TestFileExt+" files") {
		t.Errorf("missing none-found notice: %q", out.String())
	}
}

func TestRunIgnoresSimulatorExitCodes(t *testing.T) {
	dir := writeFiles(t, "a.tst", "b.tst")

	var out, errBuf bytes.Buffer
	calls := 0
	r := &Runner{
		Store: newStore(t, true),
		Out:   &out,
		Err:   &errBuf,
		Invoke: func(exe, testPath string) error {
			calls++
			return &exec.ExitError{}
		},
	}

	if code := r.Run(dir); code != 0 {
		t.Fatalf("Run = %d, want 0", code)
	}
	if calls != 2 {
		t.Fatalf("simulator invoked %d times, want 2", calls)
	}
}

func TestRunStartFailureIsTerminal(t *testing.T) {
	dir := writeFiles(t, "a.tst", "b.tst")

	var out, errBuf bytes.Buffer
	calls := 0
	r := &Runner{
		Store: newStore(t, true),
		Out:   &out,
		Err:   &errBuf,
		Invoke: func(exe, testPath string) error {
			calls++
			return errors.New("exec format error")
		},
	}

	if code := r.Run(dir); code != 1 {
		t.Fatalf("Run = %d, want 1", code)
	}
	if calls != 1 {
		t.Fatalf("simulator invoked %d times after a start failure, want 1", calls)
	}
	if !strings.Contains(errBuf.String(), "exec format error") {
		t.Errorf("stderr missing cause: %q", errBuf.String())
	}
}
