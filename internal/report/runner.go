// Package report runs the external hardware simulator over every test
// script in a directory and reports progress on the console.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"n2t/internal/config"
)

// TestFileExt is the extension of simulator test scripts.
const TestFileExt = ".tst"

// Filenames are left-padded to this width so simulator output lines up.
const nameColumnWidth = 24

// Runner drives one simulator invocation per test file, synchronously and
// in directory-listing order. The simulator inherits the process's own
// standard streams; Out and Err carry the runner's progress and errors.
type Runner struct {
	Store *config.Store
	Out   io.Writer
	Err   io.Writer

	// Invoke runs the simulator with a single test file path. Left nil it
	// spawns the real process; tests substitute a recorder.
	Invoke func(exe, testPath string) error
}

// Run processes dir and returns the process exit status for the report
// command: 1 when no simulator is configured or the directory cannot be
// read, 0 otherwise. The simulator's own exit codes are not inspected.
func (r *Runner) Run(dir string) int {
	exe, err := r.Store.Get(config.KeySimulatorExecutable)
	if err != nil {
		fmt.Fprintln(r.Err, "no simulator executable configured; run `n2t executable <path>` first")
		return 1
	}

	// os.ReadDir sorts; tests run in whatever order the directory lists
	// them, so read entries raw.
	f, err := os.Open(dir)
	if err != nil {
		fmt.Fprintf(r.Err, "reading %s: %v\n", dir, err)
		return 1
	}
	entries, err := f.ReadDir(-1)
	f.Close()
	if err != nil {
		fmt.Fprintf(r.Err, "reading %s: %v\n", dir, err)
		return 1
	}

	invoke := r.Invoke
	if invoke == nil {
		invoke = runSimulator
	}

	ran := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), TestFileExt) {
			continue
		}
		abs, err := filepath.Abs(filepath.Join(dir, entry.Name()))
		if err != nil {
			fmt.Fprintf(r.Err, "resolving %s: %v\n", entry.Name(), err)
			return 1
		}

		fmt.Fprintf(r.Out, "%*s ", nameColumnWidth, entry.Name())

		start := time.Now()
		log.WithFields(log.Fields{
			"simulator": exe,
			"test":      abs,
		}).Debug("invoking simulator")

		if err := invoke(exe, abs); err != nil {
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				// Failed to start at all, as opposed to the simulator
				// exiting non-zero.
				fmt.Fprintf(r.Err, "running %s: %v\n", exe, err)
				return 1
			}
		}
		log.WithField("elapsed", time.Since(start)).Debug("simulator finished")
		ran++
	}

	if ran == 0 {
		fmt.Fprintf(r.Out, "no %s files found in %s\n", TestFileExt, dir)
	}
	return 0
}

func runSimulator(exe, testPath string) error {
	cmd := exec.Command(exe, testPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
