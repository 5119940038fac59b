// Package emit renders a sorted, filtered module list to a single
// JavaScript program, per core spec §4.7.
package emit

import (
	"fmt"
	"strings"

	"github.com/weavelang/bundle/bmodule"
	"github.com/weavelang/bundle/jsast"
)

// Options controls the emitted program's framing.
type Options struct {
	BundlerName string
	Version     string
	Namespace   string // defaults to "$PS" if empty
	MainModule  string // module name whose .main() is invoked; empty for none
}

func (o Options) namespace() string {
	if o.Namespace == "" {
		return "$PS"
	}
	return o.Namespace
}

// Emit renders modules in the given order to one bundle string. Callers
// are responsible for having already sorted and dead-code-eliminated
// modules; Emit performs no reordering or filtering of its own.
func Emit(modules []*bmodule.Module, opts Options) string {
	ns := opts.namespace()
	var b strings.Builder

	fmt.Fprintf(&b, "// Generated by %s %s\n", opts.BundlerName, opts.Version)
	fmt.Fprintf(&b, "var %s = {};\n", ns)

	for _, m := range modules {
		emitModule(&b, m, ns)
	}

	if opts.MainModule != "" {
		fmt.Fprintf(&b, "%s[%q].main();\n", ns, opts.MainModule)
	}

	return b.String()
}

func emitModule(b *strings.Builder, m *bmodule.Module, ns string) {
	fmt.Fprintf(b, "(function(exports) {\n")
	for _, el := range m.Elements {
		emitElement(b, el, m.ID, ns, m.Source)
	}
	fmt.Fprintf(b, "})(%s[%q] = %s[%q] || {});\n", ns, m.ID.Name, ns, m.ID.Name)
}

func emitElement(b *strings.Builder, el bmodule.Element, self bmodule.ID, ns string, source []byte) {
	switch e := el.(type) {
	case *bmodule.MemberElement:
		emitVerbatim(b, e, source)
	case *bmodule.OtherElement:
		fmt.Fprintf(b, "  %s\n", jsast.Text(e.RawNode, source))
	case *bmodule.RequireElement:
		emitRequire(b, e, ns)
	case *bmodule.ExportsListElement:
		emitExportsList(b, e, source)
	}
}

func emitVerbatim(b *strings.Builder, e *bmodule.MemberElement, source []byte) {
	if text, ok := e.OverrideText(); ok {
		fmt.Fprintf(b, "  %s\n", text)
		return
	}
	fmt.Fprintf(b, "  %s\n", jsast.Text(e.RawNode, source))
}

func emitRequire(b *strings.Builder, e *bmodule.RequireElement, ns string) {
	if e.Resolved.IsResolved() {
		fmt.Fprintf(b, "  var %s = %s[%q];\n", e.LocalName, ns, e.Resolved.ModuleID().Name)
		return
	}
	fmt.Fprintf(b, "  var %s = require(%q);\n", e.LocalName, e.Resolved.Path())
}

func emitExportsList(b *strings.Builder, e *bmodule.ExportsListElement, source []byte) {
	for _, entry := range e.Entries {
		fmt.Fprintf(b, "  exports[%q] = %s;\n", entry.ExportedName, jsast.Text(entry.Value, source))
	}
}
