// Package run implements the main logic for the proxygen tool in a testable way.
package run

import (
	"errors"
	"fmt"
	"go/token"
	"io"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/dave/dst"
	detect "github.com/toejough/improxy/proxygen/run/3_detect"
	generate "github.com/toejough/improxy/proxygen/run/5_generate"
	output "github.com/toejough/improxy/proxygen/run/6_output"
)

// Interfaces - Public

// FileSystem reads and writes generated files.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// PackageLoader loads packages and resolves the import path of the current one.
type PackageLoader interface {
	Load(importPath string) ([]*dst.File, *token.FileSet, error)
	// ImportPath returns the import path of the package in the current directory.
	ImportPath() (string, error)
}

// Structs - Private

// cliArgs defines the command-line arguments for the generator.
type cliArgs struct {
	Interface string `arg:"positional,required" help:"interface to proxy (e.g. Store or pkg.Store)"`
	Name      string `arg:"--name"              help:"name for the generated proxy (defaults to Proxy<Interface>)"`
	Check     bool   `arg:"--check"             help:"compare with the existing generated file instead of writing it"`
}

// generatorInfo holds information gathered for generation.
type generatorInfo struct {
	pkgName, qualifier, interfaceName, proxyName string
	check                                        bool
}

// Functions - Public

// Run executes the proxygen tool logic. It takes command-line arguments, an environment variable getter, a
// FileSystem for file operations, a PackageLoader for package operations, and a writer for status lines. On
// success, it writes a Go source file with a proxy for the named interface in the package containing the
// go:generate directive. With --check, or PROXYGEN_CHECK set in the environment, it verifies the file instead.
func Run(
	args []string, getEnv func(string) string, fileSys FileSystem, pkgLoader PackageLoader, out io.Writer,
) error {
	info, err := getGeneratorCallInfo(args, getEnv)
	if err != nil {
		return err
	}

	contract, contractImportPath, err := findContract(info, pkgLoader)
	if err != nil {
		return err
	}

	if info.pkgName == "" {
		info.pkgName = contract.PkgName
	}

	if contractImportPath == "" && contract.PkgName != info.pkgName {
		if info.pkgName != contract.PkgName+"_test" {
			return fmt.Errorf("%w: %s is declared in package %s, generating into %s",
				errPackageMismatch, info.interfaceName, contract.PkgName, info.pkgName)
		}

		contractImportPath, err = pkgLoader.ImportPath()
		if err != nil {
			return fmt.Errorf("failed to resolve the import path of package %s: %w", contract.PkgName, err)
		}
	}

	code, err := generate.GenerateProxy(contract, generate.GeneratorInfo{
		PkgName:            info.pkgName,
		ProxyName:          info.proxyName,
		ContractImportPath: contractImportPath,
	})
	if err != nil {
		return err
	}

	if info.check {
		return output.CheckGeneratedCode(code, info.proxyName, info.pkgName, getEnv, fileSys, out)
	}

	return output.WriteGeneratedCode(code, info.proxyName, info.pkgName, getEnv, fileSys, out)
}

// Functions - Private

// findContract loads the package declaring the interface and flattens it.
// The returned import path is empty when the interface is in the current directory.
func findContract(info generatorInfo, pkgLoader PackageLoader) (detect.Contract, string, error) {
	files, _, err := pkgLoader.Load(".")
	if err != nil {
		return detect.Contract{}, "", fmt.Errorf("failed to load package %q: %w", ".", err)
	}

	var contractImportPath string

	if info.qualifier != "" {
		contractImportPath, err = detect.FindImportPath(files, info.qualifier, pkgLoader)
		if err != nil {
			return detect.Contract{}, "", err
		}

		files, _, err = pkgLoader.Load(contractImportPath)
		if err != nil {
			return detect.Contract{}, "", fmt.Errorf("failed to load package %q: %w", contractImportPath, err)
		}
	}

	contract, err := detect.FindInterface(files, info.interfaceName, pkgLoader)
	if err != nil {
		return detect.Contract{}, "", err
	}

	return contract, contractImportPath, nil
}

// getGeneratorCallInfo returns basic information about the current call to the generator.
func getGeneratorCallInfo(args []string, getEnv func(string) string) (generatorInfo, error) {
	parsed, err := parseArgs(args)
	if err != nil {
		return generatorInfo{}, err
	}

	qualifier, interfaceName := detect.ExtractPackageName(parsed.Interface)

	proxyName := parsed.Name
	if proxyName == "" {
		proxyName = "Proxy" + interfaceName
	}

	return generatorInfo{
		pkgName:       getEnv("GOPACKAGE"),
		qualifier:     qualifier,
		interfaceName: interfaceName,
		proxyName:     proxyName,
		check:         parsed.Check || getEnv("PROXYGEN_CHECK") != "",
	}, nil
}

// parseArgs parses command-line arguments into cliArgs.
func parseArgs(args []string) (cliArgs, error) {
	var parsed cliArgs

	parser, err := arg.NewParser(arg.Config{Program: "proxygen"}, &parsed)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to create argument parser: %w", err)
	}

	var cmdArgs []string
	if len(args) > 1 {
		cmdArgs = args[1:]
	}

	err = parser.Parse(cmdArgs)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to parse arguments: %w", err)
	}

	return parsed, nil
}

// unexported variables.
var (
	errPackageMismatch = errors.New("interface is declared in a different package")
)
