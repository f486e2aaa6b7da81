package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/X12-Cloud/Nytrogen/internal/compiler"
	"github.com/X12-Cloud/Nytrogen/internal/config"
	"github.com/X12-Cloud/Nytrogen/internal/diag"
)

var version = "0.1.0"

var (
	verbose   bool
	outDirOpt string
)

func main() {
	os.Exit(run())
}

func run() int {
	var runErr error
	rootCmd := newRootCmd(&runErr)
	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return diag.ExitCode(runErr)
	}
	return 0
}

func newRootCmd(runErr *error) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "nyc <input> [output_dir]",
		Short:         "nyc compiles a Nytrogen source file to NASM assembly",
		Version:       version,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := compile(cmd, args)
			*runErr = err
			if err != nil {
				diag.Report(cmd.ErrOrStderr(), err, verbose)
			}
			return err
		},
	}
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the full error cause chain")
	rootCmd.Flags().StringVar(&outDirOpt, "out", "", "output directory (overrides the positional argument and nytrogen.toml)")
	return rootCmd
}

func compile(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	ext := filepath.Ext(inputPath)
	if ext != ".ny" && ext != ".nyt" {
		return &diag.ExtensionError{Path: inputPath}
	}

	cfg, err := config.Load(filepath.Dir(inputPath))
	if err != nil {
		return err
	}

	outDir := cfg.OutputDir
	if len(args) > 1 {
		outDir = args[1]
	}
	if outDirOpt != "" {
		outDir = outDirOpt
	}

	if _, err := compiler.CompileFile(inputPath, outDir); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "nyc: wrote %s\n", filepath.Join(outDir, "out.asm"))
	return nil
}
