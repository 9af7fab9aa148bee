// Package load parses Go packages into DST files for the generator.
package load

import (
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"golang.org/x/tools/go/packages"
)

// ImportPath returns the import path of the package matching pattern, resolved
// from the current directory.
func ImportPath(pattern string) (string, error) {
	pkgs, err := packages.Load(&packages.Config{Mode: packages.NeedName}, pattern)
	if err != nil {
		return "", fmt.Errorf("failed to find package %q: %w", pattern, err)
	}

	for _, pkg := range pkgs {
		if pkg.PkgPath != "" {
			return pkg.PkgPath, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNoPackagesFound, pattern)
}

// PackageDST loads a package by import path and returns its DST files and FileSet.
// "." is the current directory and includes test files; any other import path is
// resolved with go/packages relative to the current directory and excludes them.
func PackageDST(importPath string) ([]*dst.File, *token.FileSet, error) {
	dir, err := resolveDir(importPath)
	if err != nil {
		return nil, nil, err
	}

	return ParseDir(dir, importPath == ".")
}

// ParseDir parses every .go file in dir. Files that fail to parse are skipped.
func ParseDir(dir string, includeTests bool) ([]*dst.File, *token.FileSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	goFiles := make([]string, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}

		if !includeTests && strings.HasSuffix(name, "_test.go") {
			continue
		}

		goFiles = append(goFiles, filepath.Join(dir, name))
	}

	if len(goFiles) == 0 {
		return nil, nil, fmt.Errorf("%w: no .go files in %s", ErrNoPackagesFound, dir)
	}

	fset := token.NewFileSet()
	dec := decorator.NewDecorator(fset)

	allFiles := make([]*dst.File, 0, len(goFiles))

	for _, goFile := range goFiles {
		dstFile, err := dec.ParseFile(goFile, nil, 0)
		if err != nil {
			continue
		}

		allFiles = append(allFiles, dstFile)
	}

	if len(allFiles) == 0 {
		return nil, nil, fmt.Errorf("%w: failed to parse any .go files in %s", ErrNoPackagesFound, dir)
	}

	return allFiles, fset, nil
}

// Exported variables.
var (
	ErrNoPackagesFound = errors.New("no packages found")
)

func resolveDir(importPath string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	if importPath == "." {
		return cwd, nil
	}

	pkgs, err := packages.Load(&packages.Config{Mode: packages.NeedName | packages.NeedFiles, Dir: cwd}, importPath)
	if err != nil {
		return "", fmt.Errorf("failed to find package %q: %w", importPath, err)
	}

	for _, pkg := range pkgs {
		files := pkg.GoFiles
		if len(files) == 0 {
			files = pkg.OtherFiles
		}

		if len(files) > 0 {
			return filepath.Dir(files[0]), nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNoPackagesFound, importPath)
}
