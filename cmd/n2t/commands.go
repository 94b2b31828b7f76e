package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"n2t/internal/config"
	"n2t/internal/report"
)

// exitError carries a non-default process exit status from a command to
// main. The user-facing message has already been printed when one is
// returned.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func openStore() (*config.Store, error) {
	return config.Open(configPath)
}

// --- executable ---

var executableCmd = &cobra.Command{
	Use:   "executable [path]",
	Short: "Show or set the hardware simulator executable",
	Long: `Show or set the hardware simulator executable.

With no argument, prints the stored path. With a path argument, validates
that it names an executable file, stores its absolute path, and writes the
config file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		arg := ""
		if len(args) == 1 {
			arg = args[0]
		}
		return runExecutable(st, arg, os.Stdout)
	},
}

func runExecutable(st *config.Store, path string, out io.Writer) error {
	if path == "" {
		stored, err := st.Get(config.KeySimulatorExecutable)
		if err != nil {
			printError("simulator executable not set")
			return &exitError{code: 1}
		}
		fmt.Fprintln(out, stored)
		return nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		printError("%v", err)
		return &exitError{code: 1}
	}
	if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
		printError("%s is not an executable file", abs)
		return &exitError{code: 1}
	}

	st.Set(config.KeySimulatorExecutable, abs)
	if err := st.Flush(); err != nil {
		return err
	}
	printSuccess("simulator executable set to %s", abs)
	return nil
}

// --- report ---

var reportCmd = &cobra.Command{
	Use:   "report [dir]",
	Short: "Run the simulator over every " + report.TestFileExt + " file in a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		r := &report.Runner{Store: st, Out: os.Stdout, Err: os.Stderr}
		if code := r.Run(dir); code != 0 {
			return &exitError{code: code}
		}
		return nil
	},
}

// --- show_config ---

var showConfigCmd = &cobra.Command{
	Use:   "show_config",
	Short: "Print the config file path and its contents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		fmt.Println(st.Path())
		for k, v := range st.All() {
			fmt.Printf("%s=%s\n", k, v)
		}
		return nil
	},
}

// --- uninstall ---

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Delete the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUninstall(configPath)
	},
}

func runUninstall(path string) error {
	err := os.Remove(path)
	switch {
	case err == nil:
		printSuccess("removed %s", path)
		return nil
	case errors.Is(err, fs.ErrNotExist):
		printWarning("nothing to remove: %s does not exist", path)
		return &exitError{code: 2}
	default:
		printError("removing %s: %v", path, err)
		return &exitError{code: 1}
	}
}

// --- version ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the n2t version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("n2t version %s\n", version)
	},
}
