package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/X12-Cloud/Nytrogen/internal/config"
	"github.com/X12-Cloud/Nytrogen/internal/diag"
)

var version = "0.1.0"

var (
	outputBinName string
	objOnly       bool
	preOnly       bool
)

func main() {
	os.Exit(run())
}

func run() int {
	var runErr error
	rootCmd := newRootCmd(&runErr)
	// pflag would read the single-dash "-obj" as "-o bj", so it is
	// rewritten to the long form before parsing.
	args := os.Args[1:]
	for i, a := range args {
		if a == "-obj" {
			args[i] = "--obj"
		}
	}
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		return diag.ExitCode(runErr)
	}
	return 0
}

func newRootCmd(runErr *error) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "nyd <input>",
		Short:         "nyd drives the preprocessor, compiler, assembler, and linker, then runs the result",
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := drive(cmd, args[0])
			*runErr = err
			if err != nil {
				diag.Report(cmd.ErrOrStderr(), err, false)
			}
			return err
		},
	}
	rootCmd.Flags().StringVarP(&outputBinName, "output", "o", "nytro_bin", "name of the produced executable")
	rootCmd.Flags().BoolVar(&objOnly, "obj", false, "assemble only; skip linking and running")
	rootCmd.Flags().BoolVarP(&preOnly, "preprocess-only", "E", false, "run only the preprocessor and print its output")
	return rootCmd
}

// toolchain holds the paths to the sibling binaries nyd shells out to.
// Resolution mirrors the original driver's dev/installed-mode split: a
// development checkout has nyc sitting next to nyd in the same build
// output, while an installed toolchain keeps both under a shared lib
// directory.
type toolchain struct {
	nyc string
	pre string
}

func resolveToolchain() (toolchain, error) {
	self, err := os.Executable()
	if err != nil {
		return toolchain{}, &diag.IOError{Message: err.Error()}
	}
	self, err = filepath.EvalSymlinks(self)
	if err != nil {
		return toolchain{}, &diag.IOError{Message: err.Error()}
	}
	buildDir := filepath.Dir(self)

	devNyc := filepath.Join(buildDir, "nyc")
	if _, err := os.Stat(devNyc); err == nil {
		return toolchain{
			nyc: devNyc,
			pre: filepath.Join(buildDir, "nytro-pre"),
		}, nil
	}

	if nyc, err := exec.LookPath("nyc"); err == nil {
		pre := "/usr/lib/nytro/nytro-pre"
		if p, err := exec.LookPath("nytro-pre"); err == nil {
			pre = p
		}
		return toolchain{nyc: nyc, pre: pre}, nil
	}

	return toolchain{
		nyc: "/usr/lib/nytro/nyc",
		pre: "/usr/lib/nytro/nytro-pre",
	}, nil
}

func drive(cmd *cobra.Command, inputFile string) error {
	out := cmd.OutOrStdout()

	tc, err := resolveToolchain()
	if err != nil {
		return err
	}

	cfg, err := config.Load(filepath.Dir(inputFile))
	if err != nil {
		return err
	}

	baseName := strings.TrimSuffix(filepath.Base(inputFile), filepath.Ext(inputFile))

	buildID := uuid.NewString()[:8]
	outDir := filepath.Join(".", "out", buildID)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return &diag.IOError{Message: err.Error()}
	}

	preOut := filepath.Join(outDir, baseName+".pre.nyt")
	asmFile := filepath.Join(outDir, baseName+".asm")
	objFile := filepath.Join(outDir, baseName+".o")
	finalExe := filepath.Join(outDir, outputBinName)

	preArgs := make([]string, 0, len(cfg.IncludePaths)+1)
	for _, p := range cfg.IncludePaths {
		preArgs = append(preArgs, "-I"+p)
	}
	preArgs = append(preArgs, inputFile)

	fmt.Fprintln(out, "--- Running Nytrogen Preprocessor ---")
	if err := runToFile(tc.pre, preArgs, preOut); err != nil {
		return err
	}

	if preOnly {
		data, err := os.ReadFile(preOut)
		if err != nil {
			return &diag.IOError{Message: err.Error()}
		}
		_, err = out.Write(data)
		return err
	}

	fmt.Fprintln(out, "--- Running Nytrogen Compiler ---")
	if err := runCmd(cmd, tc.nyc, preOut, outDir); err != nil {
		return err
	}
	// CompileFile (invoked inside nyc) always names its product out.asm
	// inside the requested output directory.
	generatedAsm := filepath.Join(outDir, "out.asm")
	if err := os.Rename(generatedAsm, asmFile); err != nil {
		return &diag.IOError{Message: err.Error()}
	}

	fmt.Fprintf(out, "\n--- Assembling %s.asm ---\n", baseName)
	if err := runCmd(cmd, cfg.Nasm, "-f", "elf64", asmFile, "-o", objFile); err != nil {
		return err
	}

	if objOnly {
		return nil
	}

	fmt.Fprintln(out, "\n--- Linking ---")
	if err := runCmd(cmd, cfg.Ld, "-o", finalExe, objFile, "-lc", "--dynamic-linker", "/usr/lib64/ld-linux-x86-64.so.2"); err != nil {
		return err
	}

	fmt.Fprintln(out, "\n--- Running output program ---")
	runC := exec.Command(finalExe)
	runC.Stdin = cmd.InOrStdin()
	runC.Stdout = out
	runC.Stderr = cmd.ErrOrStderr()
	runErr := runC.Run()

	exitCode := 0
	if exitErr, ok := runErr.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	} else if runErr != nil {
		return &diag.IOError{Message: runErr.Error()}
	}
	fmt.Fprintf(out, "\nExit Code: %d\n", exitCode)
	return nil
}

func runCmd(cmd *cobra.Command, name string, args ...string) error {
	c := exec.Command(name, args...)
	c.Stdout = cmd.OutOrStdout()
	c.Stderr = cmd.ErrOrStderr()
	if err := c.Run(); err != nil {
		return &diag.IOError{Message: fmt.Sprintf("%s: %v", name, err)}
	}
	return nil
}

func runToFile(name string, args []string, outPath string) error {
	f, err := os.Create(outPath)
	if err != nil {
		return &diag.IOError{Message: err.Error()}
	}
	defer f.Close()

	c := exec.Command(name, args...)
	c.Stdout = f
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return &diag.IOError{Message: fmt.Sprintf("%s: %v", name, err)}
	}
	return nil
}
