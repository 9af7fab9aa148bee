// Package detect finds contract interfaces in parsed packages and classifies their methods.
package detect

import (
	"errors"
	"fmt"
	"go/token"
	"regexp"
	"sort"
	"strings"

	"github.com/dave/dst"
	astutil "github.com/toejough/improxy/proxygen/run/0_util"
)

// AsyncImportPath is the import path of the package providing Task and Future.
const AsyncImportPath = "github.com/toejough/improxy/async"

// MethodKind classifies a contract method by its result shape.
type MethodKind int

// MethodKind values.
const (
	KindSync MethodKind = iota
	KindTask
	KindFuture
)

// Contract is a flattened interface ready for proxy generation.
type Contract struct {
	Name string
	// PkgName is the package clause of the file declaring the interface.
	PkgName string
	Methods []MethodSpec
	// Imports lists the packages referenced by the method signatures, keyed by
	// the name the signatures use for them.
	Imports []Import
}

// Import is a package referenced from a contract signature.
type Import struct {
	Name string
	Path string
}

// MethodSpec describes one contract method.
type MethodSpec struct {
	Name string
	Func *dst.FuncType
	Kind MethodKind
	// FutureElem is T for methods returning *async.Future[T].
	FutureElem dst.Expr
}

// PackageLoader defines an interface for loading Go packages.
type PackageLoader interface {
	Load(importPath string) ([]*dst.File, *token.FileSet, error)
}

// Classify reports the kind of a method given the name its file uses for the
// async package. A single *async.Task result is a task, a single
// *async.Future[T] result is a future, anything else is synchronous.
func Classify(funcType *dst.FuncType, asyncName string) (MethodKind, dst.Expr) {
	if funcType.Results == nil || len(funcType.Results.List) != 1 || len(funcType.Results.List[0].Names) > 1 {
		return KindSync, nil
	}

	star, ok := funcType.Results.List[0].Type.(*dst.StarExpr)
	if !ok {
		return KindSync, nil
	}

	if isAsyncType(star.X, asyncName, "Task") {
		return KindTask, nil
	}

	index, ok := star.X.(*dst.IndexExpr)
	if ok && isAsyncType(index.X, asyncName, "Future") {
		return KindFuture, index.Index
	}

	return KindSync, nil
}

// ExtractPackageName splits a possibly qualified name such as "store.Repo"
// into its package and symbol parts. Unqualified names have an empty package.
func ExtractPackageName(qualifiedName string) (pkgName, symbol string) {
	pkgName, symbol, found := strings.Cut(qualifiedName, ".")
	if !found {
		return "", qualifiedName
	}

	return pkgName, symbol
}

// FindImportPath finds the import path for a package name used in files.
// Imports are matched by explicit alias, then by path suffix, then by loading
// each imported package and comparing its package clause.
func FindImportPath(files []*dst.File, pkgName string, pkgLoader PackageLoader) (string, error) {
	for _, file := range files {
		for _, imp := range file.Imports {
			path := importPath(imp)

			if imp.Name != nil {
				if imp.Name.Name == pkgName {
					return path, nil
				}

				continue
			}

			if ImportName(path) == pkgName {
				return path, nil
			}
		}
	}

	if pkgLoader != nil {
		for _, file := range files {
			for _, imp := range file.Imports {
				if imp.Name != nil {
					continue
				}

				path := importPath(imp)

				loaded, _, err := pkgLoader.Load(path)
				if err == nil && len(loaded) > 0 && loaded[0].Name.Name == pkgName {
					return path, nil
				}
			}
		}
	}

	return "", fmt.Errorf("%w: %s", ErrPackageNotFound, pkgName)
}

// FindInterface finds the named interface in files and flattens it into a Contract.
// Interfaces embedded from the same package are expanded in declaration order and
// duplicate method names keep their first occurrence.
func FindInterface(files []*dst.File, name string, pkgLoader PackageLoader) (Contract, error) {
	decl, err := findInterfaceDecl(files, name)
	if err != nil {
		return Contract{}, err
	}

	if isGeneric(decl.spec) {
		return Contract{}, fmt.Errorf("%w: %s", ErrGenericInterface, name)
	}

	collector := &methodCollector{
		files:      files,
		pkgLoader:  pkgLoader,
		seen:       make(map[string]bool),
		visited:    map[string]bool{name: true},
		imports:    make(map[string]string),
		localTypes: declaredTypes(files, decl.file.Name.Name),
	}

	err = collector.collect(decl)
	if err != nil {
		return Contract{}, fmt.Errorf("%s: %w", name, err)
	}

	if len(collector.methods) == 0 {
		return Contract{}, fmt.Errorf("%w: %s", ErrNoMethods, name)
	}

	return Contract{
		Name:    name,
		PkgName: decl.file.Name.Name,
		Methods: collector.methods,
		Imports: collector.sortedImports(),
	}, nil
}

// ImportName guesses the package name of an unaliased import from its path.
// Major version suffixes (/v2, .v3) and go- affixes are dropped, dashes become underscores.
func ImportName(path string) string {
	parts := strings.Split(path, "/")
	name := parts[len(parts)-1]

	if majorVersionPattern.MatchString(name) && len(parts) > 1 {
		name = parts[len(parts)-2]
	}

	if idx := strings.Index(name, ".v"); idx > 0 && majorVersionPattern.MatchString(name[idx+1:]) {
		name = name[:idx]
	}

	name = strings.TrimPrefix(name, "go-")
	name = strings.TrimSuffix(name, "-go")

	return strings.ReplaceAll(name, "-", "_")
}

// IsReservedMethodName reports whether a contract method name collides with a
// method every generated proxy declares.
func IsReservedMethodName(name string) bool {
	return name == "ProxyFor"
}

// Exported variables.
var (
	ErrConstraintInterface = errors.New("interface contains type constraints")
	ErrDotImport           = errors.New("dot-imported packages are not supported in contract signatures")
	ErrExternalEmbed       = errors.New("embedded interfaces must be declared in the same package")
	ErrGenericInterface    = errors.New("generic interfaces are not supported")
	ErrImportConflict      = errors.New("package name refers to different import paths")
	ErrInterfaceNotFound   = errors.New("interface not found")
	ErrNoMethods           = errors.New("interface declares no methods")
	ErrPackageNotFound     = errors.New("package not found in imports")
	ErrReservedMethod      = errors.New("method name is reserved for generated proxies")
)

// unexported variables.
var (
	majorVersionPattern = regexp.MustCompile(`^v[0-9]+$`)
)

type interfaceDecl struct {
	spec  *dst.TypeSpec
	iface *dst.InterfaceType
	file  *dst.File
}

type methodCollector struct {
	files      []*dst.File
	pkgLoader  PackageLoader
	seen       map[string]bool
	visited    map[string]bool
	methods    []MethodSpec
	imports    map[string]string
	localTypes map[string]bool
}

func (c *methodCollector) addImports(funcType *dst.FuncType, file *dst.File) error {
	for _, pkgName := range referencedPackages(funcType) {
		path, err := FindImportPath([]*dst.File{file}, pkgName, c.pkgLoader)
		if err != nil {
			return err
		}

		if existing, ok := c.imports[pkgName]; ok && existing != path {
			return fmt.Errorf("%w: %s (%s, %s)", ErrImportConflict, pkgName, existing, path)
		}

		c.imports[pkgName] = path
	}

	return nil
}

func (c *methodCollector) addMethod(name string, funcType *dst.FuncType, file *dst.File) error {
	if c.seen[name] {
		return nil
	}

	if IsReservedMethodName(name) {
		return fmt.Errorf("%w: %s", ErrReservedMethod, name)
	}

	c.seen[name] = true

	if hasDotImport(file) && referencesForeignBareIdent(funcType, c.localTypes) {
		return fmt.Errorf("%w: %s", ErrDotImport, name)
	}

	err := c.addImports(funcType, file)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	kind, elem := Classify(funcType, asyncAlias(file))

	c.methods = append(c.methods, MethodSpec{Name: name, Func: funcType, Kind: kind, FutureElem: elem})

	return nil
}

//nolint:cyclop // one case per kind of interface element
func (c *methodCollector) collect(decl interfaceDecl) error {
	if decl.iface.Methods == nil {
		return nil
	}

	for _, field := range decl.iface.Methods.List {
		switch fieldType := field.Type.(type) {
		case *dst.FuncType:
			for _, ident := range field.Names {
				err := c.addMethod(ident.Name, fieldType, decl.file)
				if err != nil {
					return err
				}
			}
		case *dst.Ident:
			if fieldType.Name == "error" {
				err := c.addMethod("Error", errorMethod(), decl.file)
				if err != nil {
					return err
				}

				continue
			}

			if astutil.IsBuiltinType(fieldType.Name) {
				return fmt.Errorf("%w: %s", ErrConstraintInterface, fieldType.Name)
			}

			if c.visited[fieldType.Name] {
				continue
			}

			c.visited[fieldType.Name] = true

			embedded, err := findInterfaceDecl(c.files, fieldType.Name)
			if err != nil {
				return err
			}

			if isGeneric(embedded.spec) {
				return fmt.Errorf("%w: %s", ErrGenericInterface, fieldType.Name)
			}

			err = c.collect(embedded)
			if err != nil {
				return err
			}
		case *dst.SelectorExpr:
			return fmt.Errorf("%w: %s", ErrExternalEmbed, astutil.StringifyExpr(fieldType))
		default:
			return fmt.Errorf("%w: %s", ErrConstraintInterface, astutil.StringifyExpr(field.Type))
		}
	}

	return nil
}

func (c *methodCollector) sortedImports() []Import {
	imports := make([]Import, 0, len(c.imports))
	for name, path := range c.imports {
		imports = append(imports, Import{Name: name, Path: path})
	}

	sort.Slice(imports, func(i, j int) bool { return imports[i].Path < imports[j].Path })

	return imports
}

// asyncAlias returns the name file uses for the async package, or "" when it is
// not imported.
func asyncAlias(file *dst.File) string {
	for _, imp := range file.Imports {
		if importPath(imp) != AsyncImportPath {
			continue
		}

		if imp.Name != nil {
			return imp.Name.Name
		}

		return ImportName(AsyncImportPath)
	}

	return ""
}

// declaredTypes lists the top-level type names declared in files of package pkgName.
func declaredTypes(files []*dst.File, pkgName string) map[string]bool {
	names := make(map[string]bool)

	for _, file := range files {
		if file.Name.Name != pkgName {
			continue
		}

		for _, decl := range file.Decls {
			genDecl, ok := decl.(*dst.GenDecl)
			if !ok || genDecl.Tok != token.TYPE {
				continue
			}

			for _, spec := range genDecl.Specs {
				if typeSpec, ok := spec.(*dst.TypeSpec); ok {
					names[typeSpec.Name.Name] = true
				}
			}
		}
	}

	return names
}

func errorMethod() *dst.FuncType {
	return &dst.FuncType{
		Params:  &dst.FieldList{},
		Results: &dst.FieldList{List: []*dst.Field{{Type: dst.NewIdent("string")}}},
	}
}

func findInterfaceDecl(files []*dst.File, name string) (interfaceDecl, error) {
	for _, file := range files {
		for _, decl := range file.Decls {
			genDecl, ok := decl.(*dst.GenDecl)
			if !ok || genDecl.Tok != token.TYPE {
				continue
			}

			for _, spec := range genDecl.Specs {
				typeSpec, ok := spec.(*dst.TypeSpec)
				if !ok || typeSpec.Name.Name != name {
					continue
				}

				iface, ok := typeSpec.Type.(*dst.InterfaceType)
				if !ok {
					return interfaceDecl{}, fmt.Errorf("%w: %s is not an interface", ErrInterfaceNotFound, name)
				}

				return interfaceDecl{spec: typeSpec, iface: iface, file: file}, nil
			}
		}
	}

	return interfaceDecl{}, fmt.Errorf("%w: %s", ErrInterfaceNotFound, name)
}

func hasDotImport(file *dst.File) bool {
	for _, imp := range file.Imports {
		if imp.Name != nil && imp.Name.Name == "." {
			return true
		}
	}

	return false
}

func importPath(imp *dst.ImportSpec) string {
	return strings.Trim(imp.Path.Value, `"`)
}

func isAsyncType(expr dst.Expr, asyncName, typeName string) bool {
	selector, ok := expr.(*dst.SelectorExpr)
	if !ok || asyncName == "" {
		return false
	}

	pkg, ok := selector.X.(*dst.Ident)

	return ok && pkg.Name == asyncName && selector.Sel.Name == typeName
}

func isGeneric(spec *dst.TypeSpec) bool {
	return spec.TypeParams != nil && len(spec.TypeParams.List) > 0
}

// referencedPackages lists the package names used in selector expressions of a signature.
func referencedPackages(funcType *dst.FuncType) []string {
	found := make(map[string]bool)

	dst.Inspect(funcType, func(node dst.Node) bool {
		selector, ok := node.(*dst.SelectorExpr)
		if !ok {
			return true
		}

		if pkg, ok := selector.X.(*dst.Ident); ok {
			found[pkg.Name] = true
		}

		return false
	})

	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// referencesForeignBareIdent reports whether node uses an exported identifier
// without a package selector that is not declared in the package itself; with a
// dot import such an identifier comes from the dot-imported package. Field names
// are skipped.
func referencesForeignBareIdent(node dst.Node, local map[string]bool) bool {
	found := false

	dst.Inspect(node, func(inner dst.Node) bool {
		if found {
			return false
		}

		switch typed := inner.(type) {
		case *dst.SelectorExpr:
			return false
		case *dst.Field:
			if typed.Type != nil && referencesForeignBareIdent(typed.Type, local) {
				found = true
			}

			return false
		case *dst.Ident:
			if astutil.IsExportedIdent(typed.Name) && !local[typed.Name] {
				found = true
			}
		}

		return true
	})

	return found
}
