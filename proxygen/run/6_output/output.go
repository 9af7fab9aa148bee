// Package output writes generated proxies to disk or checks them against what is there.
package output

import (
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/akedrou/textdiff"
	"github.com/toejough/go-reorder"
)

// FileSystem reads and writes generated files.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// CheckGeneratedCode compares the generated code with the file it would be written
// to. A missing or different file prints a unified diff to out and returns ErrStale.
func CheckGeneratedCode(
	code string, proxyName string, pkgName string, getEnv func(string) string, fileSys FileSystem, out io.Writer,
) error {
	filename := Filename(proxyName, pkgName, getEnv("GOFILE"))
	want := reorderCode(code, filename, out)

	current, err := fileSys.ReadFile(filename)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error reading %s: %w", filename, err)
	}

	if string(current) == want {
		_, _ = fmt.Fprintf(out, "%s is up to date.\n", filename)

		return nil
	}

	diff := textdiff.Unified(filename+" (current)", filename+" (generated)", string(current), want)
	_, _ = fmt.Fprint(out, diff)

	return fmt.Errorf("%w: %s", ErrStale, filename)
}

// Filename returns generated_<proxyName>.go, or generated_<proxyName>_test.go when
// the package is a test package or the go:generate directive is in a test file.
func Filename(proxyName, pkgName, goFile string) string {
	filename := "generated_" + proxyName

	isTestFile := strings.HasSuffix(pkgName, "_test") || strings.HasSuffix(goFile, "_test.go")
	if isTestFile && !strings.HasSuffix(proxyName, "_test") {
		return "generated_" + strings.TrimSuffix(proxyName, ".go") + "_test.go"
	}

	if !strings.HasSuffix(filename, ".go") {
		filename += ".go"
	}

	return filename
}

// WriteGeneratedCode writes the generated code to the file named by Filename.
func WriteGeneratedCode(
	code string, proxyName string, pkgName string, getEnv func(string) string, fileSys FileSystem, out io.Writer,
) error {
	const generatedFilePermissions = 0o600

	filename := Filename(proxyName, pkgName, getEnv("GOFILE"))
	reordered := reorderCode(code, filename, out)

	err := fileSys.WriteFile(filename, []byte(reordered), generatedFilePermissions)
	if err != nil {
		return fmt.Errorf("error writing %s: %w", filename, err)
	}

	_, _ = fmt.Fprintf(out, "%s written successfully.\n", filename)

	return nil
}

// Exported variables.
var (
	ErrStale = errors.New("generated file is out of date")
)

// unexported variables.
var (
	errReorderPanic = errors.New("reorder panicked")
)

// reorderCode sorts declarations the way the rest of the repository is laid out.
// A reorder failure is reported to out and the code is used as generated.
func reorderCode(code, filename string, out io.Writer) string {
	reordered, err := safeReorder(code, filename)
	if err != nil {
		_, _ = fmt.Fprintf(out, "Warning: failed to reorder %s: %v\n", filename, err)

		return code
	}

	return reordered
}

// safeReorder rejects source go/parser cannot read before handing it to the
// reorderer, which panics on it, and turns any remaining panic into an error.
func safeReorder(code, filename string) (reordered string, err error) {
	_, err = parser.ParseFile(token.NewFileSet(), filename, code, parser.ParseComments)
	if err != nil {
		return "", err
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("%w: %v", errReorderPanic, recovered)
		}
	}()

	return reorder.Source(code)
}
