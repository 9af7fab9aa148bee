// Package astutil provides shared utilities for DST expression formatting and identifier checks.
package astutil

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dave/dst"
)

// IdentFormatter renders a bare identifier. It lets callers qualify types that
// live in another package.
type IdentFormatter func(name string) string

// ExpandFieldListTypes expands a field list into individual type strings.
// For fields with multiple names (e.g., "a, b int"), outputs the type once per name.
// For unnamed fields, outputs the type once.
func ExpandFieldListTypes(fields []*dst.Field, typeFormatter func(dst.Expr) string) []string {
	var parts []string

	for _, f := range fields {
		typeStr := typeFormatter(f.Type)

		count := len(f.Names)
		if count == 0 {
			count = 1
		}

		for range count {
			parts = append(parts, typeStr)
		}
	}

	return parts
}

// IsBuiltinType reports whether name is a predeclared Go type.
func IsBuiltinType(name string) bool {
	switch name {
	case "bool", "byte", "complex64", "complex128",
		"error", "float32", "float64", "int",
		"int8", "int16", "int32", "int64",
		"rune", "string", "uint", "uint8",
		"uint16", "uint32", "uint64", "uintptr",
		"comparable", "any":
		return true
	}

	return false
}

// IsExportedIdent reports whether name starts with an upper-case letter.
func IsExportedIdent(name string) bool {
	if name == "" {
		return false
	}

	r, _ := utf8.DecodeRuneInString(name)

	return unicode.IsUpper(r)
}

// QualifyingFormatter returns an IdentFormatter that prefixes exported,
// non-builtin identifiers with qualifier. An empty qualifier leaves names alone.
func QualifyingFormatter(qualifier string) IdentFormatter {
	return func(name string) string {
		if qualifier == "" || IsBuiltinType(name) || !IsExportedIdent(name) {
			return name
		}

		return qualifier + "." + name
	}
}

// StringifyExpr converts a DST expression to its string representation.
func StringifyExpr(expr dst.Expr) string {
	return StringifyExprWith(expr, nil)
}

// StringifyExprWith converts a DST expression to its string representation,
// rendering bare identifiers in type position with format (nil keeps them as-is).
//
//nolint:cyclop,funlen // Type-switch dispatcher handling all DST expression types; complexity is inherent
func StringifyExprWith(expr dst.Expr, format IdentFormatter) string {
	if expr == nil {
		return ""
	}

	if format == nil {
		format = func(name string) string { return name }
	}

	recurse := func(e dst.Expr) string { return StringifyExprWith(e, format) }

	switch typedExpr := expr.(type) {
	case *dst.Ident:
		return format(typedExpr.Name)
	case *dst.BasicLit:
		return typedExpr.Value
	case *dst.SelectorExpr:
		// The left side is a package name, never a type to qualify.
		return StringifyExpr(typedExpr.X) + "." + typedExpr.Sel.Name
	case *dst.StarExpr:
		return "*" + recurse(typedExpr.X)
	case *dst.ArrayType:
		if typedExpr.Len != nil {
			return "[" + StringifyExpr(typedExpr.Len) + "]" + recurse(typedExpr.Elt)
		}

		return "[]" + recurse(typedExpr.Elt)
	case *dst.MapType:
		return "map[" + recurse(typedExpr.Key) + "]" + recurse(typedExpr.Value)
	case *dst.ChanType:
		switch typedExpr.Dir {
		case dst.SEND:
			return "chan<- " + recurse(typedExpr.Value)
		case dst.RECV:
			return "<-chan " + recurse(typedExpr.Value)
		default:
			return "chan " + recurse(typedExpr.Value)
		}
	case *dst.InterfaceType:
		return stringifyInterfaceType(typedExpr, recurse)
	case *dst.StructType:
		return stringifyStructType(typedExpr, recurse)
	case *dst.FuncType:
		return "func" + stringifySignature(typedExpr, recurse)
	case *dst.Ellipsis:
		return "..." + recurse(typedExpr.Elt)
	case *dst.IndexExpr:
		return recurse(typedExpr.X) + "[" + recurse(typedExpr.Index) + "]"
	case *dst.IndexListExpr:
		indices := make([]string, len(typedExpr.Indices))
		for i, idx := range typedExpr.Indices {
			indices[i] = recurse(idx)
		}

		return recurse(typedExpr.X) + "[" + strings.Join(indices, ", ") + "]"
	case *dst.ParenExpr:
		return "(" + recurse(typedExpr.X) + ")"
	default:
		return fmt.Sprintf("%T", expr)
	}
}

// stringifyInterfaceType converts an interface literal to its string representation.
func stringifyInterfaceType(interfaceType *dst.InterfaceType, recurse func(dst.Expr) string) string {
	if interfaceType.Methods == nil || len(interfaceType.Methods.List) == 0 {
		return "interface{}"
	}

	parts := make([]string, 0, len(interfaceType.Methods.List))

	for _, method := range interfaceType.Methods.List {
		funcType, ok := method.Type.(*dst.FuncType)
		if !ok || len(method.Names) == 0 {
			// embedded interface or type element
			parts = append(parts, recurse(method.Type))

			continue
		}

		parts = append(parts, method.Names[0].Name+stringifySignature(funcType, recurse))
	}

	return "interface{ " + strings.Join(parts, "; ") + " }"
}

// stringifySignature renders "(params) results" without the func keyword.
func stringifySignature(funcType *dst.FuncType, recurse func(dst.Expr) string) string {
	var buf strings.Builder

	buf.WriteString("(")

	if funcType.Params != nil {
		buf.WriteString(strings.Join(ExpandFieldListTypes(funcType.Params.List, recurse), ", "))
	}

	buf.WriteString(")")

	if funcType.Results != nil && len(funcType.Results.List) > 0 {
		resultParts := ExpandFieldListTypes(funcType.Results.List, recurse)
		if len(resultParts) > 1 {
			buf.WriteString(" (" + strings.Join(resultParts, ", ") + ")")
		} else {
			buf.WriteString(" " + resultParts[0])
		}
	}

	return buf.String()
}

// stringifyStructType converts a DST StructType to its string representation,
// preserving all field information including names, types, and tags.
func stringifyStructType(structType *dst.StructType, recurse func(dst.Expr) string) string {
	if structType.Fields == nil || len(structType.Fields.List) == 0 {
		return "struct{}"
	}

	fields := make([]string, 0, len(structType.Fields.List))

	for _, field := range structType.Fields.List {
		var fieldStr strings.Builder

		if len(field.Names) > 0 {
			nameStrs := make([]string, len(field.Names))
			for i, name := range field.Names {
				nameStrs[i] = name.Name
			}

			fieldStr.WriteString(strings.Join(nameStrs, ", "))
			fieldStr.WriteString(" ")
		}

		fieldStr.WriteString(recurse(field.Type))

		if field.Tag != nil {
			fieldStr.WriteString(" ")
			fieldStr.WriteString(field.Tag.Value)
		}

		fields = append(fields, fieldStr.String())
	}

	return fmt.Sprintf("struct{ %s }", strings.Join(fields, "; "))
}
