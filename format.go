package resolvelog

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"unicode"
)

// Indentation is a two-level scheme: record fields sit at one tab, nested
// payload fields at two. There is no deeper nesting in the record format.
const (
	indentOne = "\t"
	indentTwo = "\t\t"
)

// noErrorToken is rendered in place of the exceptions block when a response
// carries no errors.
const noErrorToken = "NO ERROR"

func indentFor(level int) string {
	if level == 1 {
		return indentOne
	}
	return indentTwo
}

// formatRecord renders one timestamped event as a complete log record:
// "<timestamp> - <body>" followed by a blank separator line.
func formatRecord(rec timestampedEvent, timestampFormat string) string {
	var b strings.Builder
	b.Grow(256)
	b.WriteString(rec.when.Format(timestampFormat))
	b.WriteString(" - ")
	b.WriteString(renderEvent(rec.event))
	b.WriteString("\n\n")
	return b.String()
}

// renderEvent uses the variant's own renderer when it has one and falls back
// to the generic field printer for unknown variants.
func renderEvent(event any) string {
	if r, ok := event.(RecordRenderer); ok {
		return r.RenderRecord()
	}
	return renderValue(event, 1)
}

// RenderRecord renders the request-submitted body. The request descriptor
// goes through the generic field printer at nested indentation.
func (e RequestSubmitted) RenderRecord() string {
	return renderBlock("RequestSubmitted", indentOne,
		"scriptPath = "+e.ScriptPath,
		"request = "+renderValue(e.Request, 2),
	)
}

// RenderRecord renders the response-received body.
func (e ResponseReceived) RenderRecord() string {
	return renderBlock("ResponseReceived", indentOne,
		"scriptPath = "+e.ScriptPath,
		"response = "+e.Response.render(2),
	)
}

// RenderRecord renders the failure body with the full cause chain of the
// error at nested indentation.
func (e ResolutionFailed) RenderRecord() string {
	return renderBlock("ResolutionFailed", indentOne,
		"scriptPath = "+e.ScriptPath,
		"failure =\n"+renderTrace(e.Err, indentTwo),
	)
}

// render produces the response-model body. Classpath and source entries are
// joined with the platform path-list separator, implicit imports with a dot.
func (r ResolutionResponse) render(level int) string {
	sep := string(os.PathListSeparator)
	return renderBlock("ResolutionResponse", indentFor(level),
		"classpath = "+strings.Join(r.Classpath, sep),
		"sourcePaths = "+strings.Join(r.SourcePaths, sep),
		"implicitImports = "+strings.Join(r.ImplicitImports, "."),
		"errors = "+renderErrors(r.Errors, indentFor(level)),
	)
}

// renderErrors renders the exceptions block: the NO ERROR token when the
// list is empty, otherwise a bracketed, comma-separated list of traces, each
// indented one extra tab.
func renderErrors(errs []error, indent string) string {
	if len(errs) == 0 {
		return noErrorToken
	}
	traces := make([]string, 0, len(errs))
	for _, err := range errs {
		traces = append(traces, renderTrace(err, indent+"\t"))
	}
	return "[\n" + strings.Join(traces, ",\n") + "]"
}

// renderTrace renders an error and its unwrap chain, one cause per line,
// every line prefixed with indent.
func renderTrace(err error, indent string) string {
	if err == nil {
		return indent + "<nil>"
	}
	lines := strings.Split(err.Error(), "\n")
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		lines = append(lines, "Caused by: "+cause.Error())
	}
	for i, line := range lines {
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}

// renderBlock renders a constructor-style body: the name followed by
// parenthesized field lines, joined with ",\n<indent>" and prefixed with
// "\n<indent>".
func renderBlock(name, indent string, fields ...string) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	b.WriteByte('\n')
	b.WriteString(indent)
	b.WriteString(strings.Join(fields, ",\n"+indent))
	b.WriteString("\n)")
	return b.String()
}

// renderValue is the generic printer: the value's type name followed by every
// exported field as a "name = value" line, values stringified with the
// default conversion. Non-struct values render with the default conversion
// directly. It is the fallback for payloads and variants that do not
// implement RecordRenderer.
func renderValue(v any, level int) string {
	if v == nil {
		return "<nil>"
	}
	if r, ok := v.(RecordRenderer); ok {
		return r.RenderRecord()
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "<nil>"
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return fmt.Sprintf("%v", rv.Interface())
	}

	rt := rv.Type()
	fields := make([]string, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		fields = append(fields, fmt.Sprintf("%s = %v", fieldName(f.Name), rv.Field(i).Interface()))
	}
	if len(fields) == 0 {
		return rt.Name() + "()"
	}
	return renderBlock(rt.Name(), indentFor(level), fields...)
}

// fieldName lowercases the leading rune so generically rendered fields read
// like the built-in ones (scriptPath, request, ...).
func fieldName(name string) string {
	r := []rune(name)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
