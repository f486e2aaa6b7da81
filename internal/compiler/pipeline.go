// Package compiler wires the lexer, parser, semantic analyzer, and NASM
// code generator into a single linear pipeline: tokenize, parse,
// analyze, generate, with no stage re-entered and no streaming between
// stages.
package compiler

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/X12-Cloud/Nytrogen/internal/ast"
	"github.com/X12-Cloud/Nytrogen/internal/codegen/nasm"
	"github.com/X12-Cloud/Nytrogen/internal/diag"
	"github.com/X12-Cloud/Nytrogen/internal/parser"
	"github.com/X12-Cloud/Nytrogen/internal/sema"
	"github.com/X12-Cloud/Nytrogen/internal/symtab"
)

// Result is the product of a successful compilation: the generated NASM
// text plus the AST and symbol table it was generated from, so callers
// can inspect the analyzed program without re-parsing the output.
type Result struct {
	Program *ast.Program
	Table   *symtab.Table
	Asm     string
}

// Compile runs the full pipeline over already-preprocessed source text
// and returns the generated NASM text. Each stage's error is wrapped
// with the stage name via pkg/errors as it propagates out, so a caller
// can print the full cause chain for --verbose while diag.Report's
// default path still recovers the bare category error via errors.Cause.
func Compile(src string) (*Result, error) {
	prog, err := parser.ParseProgram(src)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}

	table, err := sema.Analyze(prog)
	if err != nil {
		return nil, errors.Wrap(err, "semantic analysis")
	}

	asmText, err := nasm.Generate(prog, table)
	if err != nil {
		return nil, errors.Wrap(err, "code generation")
	}

	return &Result{Program: prog, Table: table, Asm: asmText}, nil
}

// CompileFile reads inputPath, runs Compile, and writes the result to
// outputDir/out.asm. The output file is only opened once code
// generation has already succeeded entirely in memory — matching how
// internal/codegen/nasm itself buffers a function body before its frame
// size is known — and is always closed via defer on every exit path.
func CompileFile(inputPath, outputDir string) (*Result, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, &diag.IOError{Message: err.Error()}
	}

	result, err := Compile(string(data))
	if err != nil {
		return nil, err
	}

	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, &diag.IOError{Message: err.Error()}
	}

	outPath := filepath.Join(outputDir, "out.asm")
	f, err := os.Create(outPath)
	if err != nil {
		return nil, &diag.IOError{Message: err.Error()}
	}
	defer f.Close()

	if _, err := f.WriteString(result.Asm); err != nil {
		return nil, &diag.IOError{Message: err.Error()}
	}

	return result, nil
}
