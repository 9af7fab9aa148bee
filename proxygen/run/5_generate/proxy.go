// Package generate renders proxy source code for detected contracts.
package generate

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"go/token"
	"strconv"
	"strings"

	"github.com/dave/dst"
	astutil "github.com/toejough/improxy/proxygen/run/0_util"
	detect "github.com/toejough/improxy/proxygen/run/3_detect"
)

// RuntimeImportPath is the import path generated proxies register with.
const RuntimeImportPath = "github.com/toejough/improxy"

// GeneratorInfo holds the naming and placement information for one proxy.
type GeneratorInfo struct {
	// PkgName is the package the generated file belongs to.
	PkgName string
	// ProxyName is the name of the generated struct.
	ProxyName string
	// ContractImportPath is set when the contract lives in another package.
	ContractImportPath string
}

// GenerateProxy renders a gofmt'd proxy for contract.
func GenerateProxy(contract detect.Contract, info GeneratorInfo) (string, error) {
	gen, err := newProxyGenerator(contract, info)
	if err != nil {
		return "", err
	}

	templates := NewTemplateRegistry()

	var buf bytes.Buffer

	templates.WriteHeader(&buf, gen.headerData())
	templates.WriteProxyStruct(&buf, gen)

	for _, method := range gen.Methods {
		templates.WriteProxyMethod(&buf, method)
	}

	templates.WriteRegistration(&buf, gen)

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return "", fmt.Errorf("error formatting generated code: %w", err)
	}

	return string(formatted), nil
}

// Exported variables.
var (
	ErrImportConflict = errors.New("import name is already used by another package")
	ErrInvalidName    = errors.New("invalid proxy name")
)

type headerData struct {
	PkgName string
	Imports []detect.Import
}

type methodData struct {
	ProxyName   string
	Name        string
	Index       int
	Params      string
	Results     string
	CallArgs    string
	ReturnExpr  string
	KindConst   string
	FutureElem  string
	ForwardBody string
}

// proxyGenerator holds everything the templates need for one proxy.
type proxyGenerator struct {
	PkgName      string
	ProxyName    string
	ContractType string
	Methods      []methodData

	imports   []detect.Import
	qualifier string
	reserved  map[string]bool
}

func (gen *proxyGenerator) buildMethod(index int, spec detect.MethodSpec) methodData {
	params := gen.params(spec.Func)
	resultTypes := astutil.ExpandFieldListTypes(fieldList(spec.Func.Results), gen.typeString)

	method := methodData{
		ProxyName: gen.ProxyName,
		Name:      spec.Name,
		Index:     index,
		Params:    joinParams(params, func(p param) string { return p.name + " " + p.decl }),
		Results:   formatResults(resultTypes),
		KindConst: kindConst(spec.Kind),
	}

	for _, p := range params {
		method.CallArgs += ", " + p.name
	}

	returns := make([]string, len(resultTypes))
	for i, resultType := range resultTypes {
		returns[i] = fmt.Sprintf("_improxy.Result[%s](_r, %d)", resultType, i)
	}

	method.ReturnExpr = strings.Join(returns, ", ")

	if spec.Kind == detect.KindFuture {
		method.FutureElem = gen.typeString(spec.FutureElem)
	}

	method.ForwardBody = forwardBody(spec.Name, params, len(resultTypes))

	return method
}

func (gen *proxyGenerator) headerData() headerData {
	return headerData{PkgName: gen.PkgName, Imports: gen.imports}
}

// params names every parameter, replacing blank, missing, or shadowing names with argN.
func (gen *proxyGenerator) params(funcType *dst.FuncType) []param {
	var params []param

	for _, field := range fieldList(funcType.Params) {
		names := make([]string, 0, len(field.Names))
		for _, ident := range field.Names {
			names = append(names, ident.Name)
		}

		if len(names) == 0 {
			names = []string{""}
		}

		ellipsis, variadic := field.Type.(*dst.Ellipsis)

		for _, name := range names {
			if name == "" || name == "_" || gen.reserved[name] {
				name = "arg" + strconv.Itoa(len(params))
			}

			p := param{name: name, decl: gen.typeString(field.Type), argType: gen.typeString(field.Type)}
			if variadic {
				p.argType = "[]" + gen.typeString(ellipsis.Elt)
				p.variadic = true
			}

			params = append(params, p)
		}
	}

	return params
}

func (gen *proxyGenerator) typeString(expr dst.Expr) string {
	return astutil.StringifyExprWith(expr, astutil.QualifyingFormatter(gen.qualifier))
}

type param struct {
	name     string
	decl     string
	argType  string
	variadic bool
}

func fieldList(fields *dst.FieldList) []*dst.Field {
	if fields == nil {
		return nil
	}

	return fields.List
}

func formatResults(resultTypes []string) string {
	switch len(resultTypes) {
	case 0:
		return ""
	case 1:
		return resultTypes[0]
	default:
		return "(" + strings.Join(resultTypes, ", ") + ")"
	}
}

// forwardBody renders the Forward case calling the target method.
func forwardBody(name string, params []param, resultCount int) string {
	args := make([]string, len(params))
	for i, p := range params {
		args[i] = fmt.Sprintf("_improxy.Arg[%s](_args, %d)", p.argType, i)
		if p.variadic {
			args[i] += "..."
		}
	}

	call := "_t." + name + "(" + strings.Join(args, ", ") + ")"

	switch resultCount {
	case 0:
		return call + "\n\nreturn nil"
	case 1:
		return "return []any{" + call + "}"
	default:
		results := make([]string, resultCount)
		for i := range results {
			results[i] = "_r" + strconv.Itoa(i)
		}

		list := strings.Join(results, ", ")

		return list + " := " + call + "\n\nreturn []any{" + list + "}"
	}
}

func joinParams(params []param, render func(param) string) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = render(p)
	}

	return strings.Join(parts, ", ")
}

func kindConst(kind detect.MethodKind) string {
	switch kind {
	case detect.KindTask:
		return "_improxy.KindTask"
	case detect.KindFuture:
		return "_improxy.KindFuture"
	default:
		return "_improxy.KindSync"
	}
}

func newProxyGenerator(contract detect.Contract, info GeneratorInfo) (*proxyGenerator, error) {
	if !token.IsIdentifier(info.ProxyName) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, info.ProxyName)
	}

	gen := &proxyGenerator{
		PkgName:      info.PkgName,
		ProxyName:    info.ProxyName,
		ContractType: contract.Name,
		reserved:     map[string]bool{"_improxy": true, "_reflect": true, "_p": true, "_r": true},
	}

	imports := []detect.Import{
		{Name: "_improxy", Path: RuntimeImportPath},
		{Name: "_reflect", Path: "reflect"},
	}

	names := map[string]string{"_improxy": RuntimeImportPath, "_reflect": "reflect"}

	addImport := func(imp detect.Import) error {
		if existing, ok := names[imp.Name]; ok {
			if existing != imp.Path {
				return fmt.Errorf("%w: %s (%s, %s)", ErrImportConflict, imp.Name, existing, imp.Path)
			}

			return nil
		}

		names[imp.Name] = imp.Path
		gen.reserved[imp.Name] = true
		imports = append(imports, imp)

		return nil
	}

	if info.ContractImportPath != "" {
		gen.qualifier = contract.PkgName
		gen.ContractType = contract.PkgName + "." + contract.Name

		err := addImport(detect.Import{Name: contract.PkgName, Path: info.ContractImportPath})
		if err != nil {
			return nil, err
		}
	}

	for _, imp := range contract.Imports {
		err := addImport(imp)
		if err != nil {
			return nil, err
		}
	}

	gen.imports = imports

	for i, spec := range contract.Methods {
		gen.Methods = append(gen.Methods, gen.buildMethod(i, spec))
	}

	return gen, nil
}
