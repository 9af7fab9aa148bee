// proxygen generates interceptable proxies for Go interfaces.
// Install it with `go install github.com/toejough/improxy/proxygen@latest` and add a
// `//go:generate proxygen <Interface>` comment next to the interface (or `pkg.Interface` for one declared in an
// imported package). By default the proxy is named Proxy<Interface>; `--name <ProxyName>` picks another name. The
// proxy is written to generated_<ProxyName>.go in the package containing the directive, and registers itself so
// improxy.Builder can bind it to a target and interceptors. `--check` verifies the file is current without writing.
package main

import (
	"fmt"
	"go/token"
	"os"

	"github.com/dave/dst"
	"github.com/toejough/improxy/proxygen/run"
	load "github.com/toejough/improxy/proxygen/run/2_load"
)

// main is the entry point of the proxygen tool.
func main() {
	if os.Args == nil {
		return
	}

	err := run.Run(os.Args, os.Getenv, &realFileSystem{}, &realPackageLoader{}, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// realFileSystem implements FileSystem using os package.
type realFileSystem struct{}

// ReadFile reads the file named by name and returns the contents.
func (fs *realFileSystem) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", name, err)
	}

	return data, nil
}

// WriteFile writes data to the file named by name.
func (fs *realFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	err := os.WriteFile(name, data, perm)
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", name, err)
	}

	return nil
}

// realPackageLoader implements PackageLoader using direct DST parsing.
type realPackageLoader struct{}

// ImportPath returns the import path of the package in the current directory.
func (pl *realPackageLoader) ImportPath() (string, error) {
	path, err := load.ImportPath(".")
	if err != nil {
		return "", fmt.Errorf("failed to resolve current package: %w", err)
	}

	return path, nil
}

// Load loads a package by import path and returns its DST files and FileSet.
func (pl *realPackageLoader) Load(importPath string) ([]*dst.File, *token.FileSet, error) {
	files, fset, err := load.PackageDST(importPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load package %q: %w", importPath, err)
	}

	return files, fset, nil
}
