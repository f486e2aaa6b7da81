package compiler_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"github.com/X12-Cloud/Nytrogen/internal/compiler"
	"github.com/X12-Cloud/Nytrogen/internal/diag"
)

func TestCompileProducesRunnableAssembly(t *testing.T) {
	result, err := compiler.Compile(`
		int main() {
			print(1 + 2);
			return 0;
		}
	`)
	be.Err(t, err, nil)
	be.True(t, strings.Contains(result.Asm, "_start:"))
	be.True(t, result.Program != nil)
	be.True(t, result.Table != nil)
}

func TestCompileWrapsParseErrorWithStageName(t *testing.T) {
	_, err := compiler.Compile(`int main( { return 0; }`)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "parse"))
}

func TestCompileWrapsSemanticErrorWithStageName(t *testing.T) {
	_, err := compiler.Compile(`
		int main() {
			return undeclared;
		}
	`)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "semantic analysis"))
}

func TestCompileFileWritesOutAsm(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.ny")
	be.Err(t, os.WriteFile(src, []byte("int main() { return 0; }"), 0o644), nil)

	outDir := filepath.Join(dir, "build")
	_, err := compiler.CompileFile(src, outDir)
	be.Err(t, err, nil)

	data, err := os.ReadFile(filepath.Join(outDir, "out.asm"))
	be.Err(t, err, nil)
	be.True(t, strings.Contains(string(data), "_start:"))
}

func TestCompileFileMissingInputIsIOError(t *testing.T) {
	dir := t.TempDir()
	_, err := compiler.CompileFile(filepath.Join(dir, "missing.ny"), dir)
	be.True(t, err != nil)
	be.Equal(t, diag.ExitCode(err), 2)
}

func TestCompileFileDoesNotWriteOutputOnPipelineFailure(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bad.ny")
	be.Err(t, os.WriteFile(src, []byte("int main() { return undeclared; }"), 0o644), nil)

	outDir := filepath.Join(dir, "build")
	_, err := compiler.CompileFile(src, outDir)
	be.True(t, err != nil)
	be.Equal(t, diag.ExitCode(err), 1)

	_, statErr := os.Stat(filepath.Join(outDir, "out.asm"))
	be.True(t, os.IsNotExist(statErr) || statErr != nil)
}
