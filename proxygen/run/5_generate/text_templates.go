package generate

import (
	"bytes"
	"fmt"
	"text/template"
)

// TemplateRegistry holds all parsed text templates for code generation.
// Create a registry using NewTemplateRegistry() to initialize all templates.
type TemplateRegistry struct {
	headerTmpl       *template.Template
	proxyStructTmpl  *template.Template
	proxyMethodTmpl  *template.Template
	registrationTmpl *template.Template
}

// NewTemplateRegistry creates and initializes a new template registry with all templates parsed.
// Templates are hardcoded constants, so parsing cannot fail at runtime.
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{}

	registry.parseProxyTemplates()

	return registry
}

// WriteHeader writes the generated file header, package clause, and imports.
func (r *TemplateRegistry) WriteHeader(buf *bytes.Buffer, data any) {
	err := r.headerTmpl.Execute(buf, data)
	if err != nil {
		panic(fmt.Sprintf("failed to execute header template: %v", err))
	}
}

// WriteProxyMethod writes one forwarding method of the proxy.
func (r *TemplateRegistry) WriteProxyMethod(buf *bytes.Buffer, data any) {
	err := r.proxyMethodTmpl.Execute(buf, data)
	if err != nil {
		panic(fmt.Sprintf("failed to execute proxyMethod template: %v", err))
	}
}

// WriteProxyStruct writes the proxy struct, its interface assertion, and ProxyFor.
func (r *TemplateRegistry) WriteProxyStruct(buf *bytes.Buffer, data any) {
	err := r.proxyStructTmpl.Execute(buf, data)
	if err != nil {
		panic(fmt.Sprintf("failed to execute proxyStruct template: %v", err))
	}
}

// WriteRegistration writes the init function registering the proxy.
func (r *TemplateRegistry) WriteRegistration(buf *bytes.Buffer, data any) {
	err := r.registrationTmpl.Execute(buf, data)
	if err != nil {
		panic(fmt.Sprintf("failed to execute registration template: %v", err))
	}
}

// parseProxyTemplates parses all proxy templates.
func (r *TemplateRegistry) parseProxyTemplates() {
	templates := []struct {
		target  **template.Template
		name    string
		content string
	}{
		{&r.headerTmpl, "header", tmplHeader},
		{&r.proxyStructTmpl, "proxyStruct", tmplProxyStruct},
		{&r.proxyMethodTmpl, "proxyMethod", tmplProxyMethod},
		{&r.registrationTmpl, "registration", tmplRegistration},
	}

	parseTemplateList(templates)
}

const (
	tmplHeader = `// Code generated by proxygen. DO NOT EDIT.

package {{.PkgName}}

import (
{{- range .Imports}}
	{{.Name}} "{{.Path}}"
{{- end}}
)
`

	tmplProxyStruct = `
// {{.ProxyName}} is a generated proxy for {{.ContractType}}. Build instances with
// improxy.Builder; the zero value is not usable.
type {{.ProxyName}} struct {
	dispatcher *_improxy.Dispatcher
}

var _ {{.ContractType}} = (*{{.ProxyName}})(nil)

// ProxyFor returns the target calls are forwarded to.
func (_p *{{.ProxyName}}) ProxyFor() any {
	return _p.dispatcher.Target()
}
`

	tmplProxyMethod = `
func (_p *{{.ProxyName}}) {{.Name}}({{.Params}}) {{.Results}} {
{{- if .ReturnExpr}}
	_r := _p.dispatcher.Call({{.Index}}{{.CallArgs}})

	return {{.ReturnExpr}}
{{- else}}
	_p.dispatcher.Call({{.Index}}{{.CallArgs}})
{{- end}}
}
`

	tmplRegistration = `
func init() {
	_improxy.Register(_improxy.Registration{
		Contract: _reflect.TypeFor[{{.ContractType}}](),
		Methods: []_improxy.Method{
{{- range .Methods}}
			{Name: "{{.Name}}", Index: {{.Index}}, Kind: {{.KindConst}}{{if .FutureElem}}, NewFuture: _improxy.FutureOf[{{.FutureElem}}](){{end}}},
{{- end}}
		},
		Forward: func(_target any, _method int, _args []any) []any {
			_t := _target.({{.ContractType}})

			switch _method {
{{- range .Methods}}
			case {{.Index}}:
				{{.ForwardBody}}
{{- end}}
			}

			return nil
		},
		New: func(_d *_improxy.Dispatcher) any {
			return &{{.ProxyName}}{dispatcher: _d}
		},
	})
}
`
)

// parseTemplate parses a single template, panicking on error (templates are compile-time constants).
func parseTemplate(name, content string) *template.Template {
	return template.Must(template.New(name).Parse(content))
}

// parseTemplateList parses a list of templates and assigns them to their targets.
// Uses template.Must() internally, so panics on invalid templates.
func parseTemplateList(templates []struct {
	target  **template.Template
	name    string
	content string
},
) {
	for _, def := range templates {
		*def.target = parseTemplate(def.name, def.content)
	}
}
