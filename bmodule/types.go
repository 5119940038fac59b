// Package bmodule holds the bundler's module model: the classified
// representation of one input JavaScript file, per core spec §3, plus the
// classifier that produces it (core spec §4.1).
package bmodule

import sitter "github.com/smacker/go-tree-sitter"

// ModuleType distinguishes a generated module from its hand-written JS
// glue twin. Both share one namespace slot keyed by name.
type ModuleType int

const (
	Regular ModuleType = iota
	Foreign
)

func (t ModuleType) String() string {
	if t == Foreign {
		return "foreign"
	}
	return "regular"
}

// ID identifies a module across the program. Equality uses both fields:
// a Regular and a Foreign module of the same name are distinct vertices.
type ID struct {
	Name string
	Type ModuleType
}

// ForeignTwin returns the Foreign ID sharing this one's name.
func (id ID) ForeignTwin() ID { return ID{Name: id.Name, Type: Foreign} }

// Key names a member across the program; it is the dependency-graph node id.
type Key struct {
	Module ID
	Member string
}

// Resolution is the outcome of resolving a require() path.
type Resolution struct {
	ok   bool
	id   ID
	path string // only meaningful when !ok
}

func Resolved(id ID) Resolution         { return Resolution{ok: true, id: id} }
func Unresolved(path string) Resolution { return Resolution{ok: false, path: path} }

func (r Resolution) IsResolved() bool { return r.ok }
func (r Resolution) ModuleID() ID     { return r.id }
func (r Resolution) Path() string     { return r.path }

// ExportKind distinguishes the two shapes a `module.exports = {...}` entry's
// value can take (core spec §3, ExportType).
type ExportKind int

const (
	RegularExport ExportKind = iota
	ForeignReexport
)

// ExportEntry is one property of a `module.exports = {...}` literal.
type ExportEntry struct {
	Kind ExportKind

	// SourceName is the identifier on the right-hand side; only meaningful
	// for RegularExport (ForeignReexport's value is always `$foreign.X`).
	SourceName string

	ExportedName string
	Value        *sitter.Node
	Deps         []Key
}

// ElementKind tags a ModuleElement's role, matching core spec §3's variant.
type ElementKind int

const (
	KindRequire ElementKind = iota
	KindMember
	KindExportsList
	KindOther
)

// Element is one top-level statement of a classified module. It is an
// interface rather than a tagged struct so that each variant only carries
// the fields that apply to it; callers type-switch on the concrete element
// type, and Kind() reports the role as an ElementKind.
type Element interface {
	Kind() ElementKind
	Raw() *sitter.Node
}

// RequireElement is `var LOCAL = require("literal");`.
type RequireElement struct {
	RawNode   *sitter.Node
	LocalName string
	Resolved  Resolution
}

func (e *RequireElement) Kind() ElementKind { return KindRequire }
func (e *RequireElement) Raw() *sitter.Node { return e.RawNode }

// MemberElement is `var NAME = EXPR;` (Exported == false) or
// `exports.NAME = EXPR;` / `exports["NAME"] = EXPR;` (Exported == true).
type MemberElement struct {
	RawNode  *sitter.Node
	Exported bool
	Name     string
	Decl     *sitter.Node // the right-hand-side expression
	Deps     []Key

	// Override, when non-empty, replaces RawNode's source text at emission
	// time. Transforms that rewrite a member's body (core spec §4.5) but
	// have no tree-sitter node for the rewritten form set this instead of
	// mutating the (immutable) parse tree.
	Override string
}

func (e *MemberElement) Kind() ElementKind { return KindMember }
func (e *MemberElement) Raw() *sitter.Node { return e.RawNode }

// OverrideText implements TextOverride.
func (e *MemberElement) OverrideText() (string, bool) { return e.Override, e.Override != "" }

// TextOverride is implemented by elements whose emitted text may have been
// synthesized by a ModuleTransform rather than taken verbatim from source.
type TextOverride interface {
	OverrideText() (string, bool)
}

// ExportsListElement is `module.exports = { ... };`.
type ExportsListElement struct {
	RawNode *sitter.Node
	Entries []ExportEntry
}

func (e *ExportsListElement) Kind() ElementKind { return KindExportsList }
func (e *ExportsListElement) Raw() *sitter.Node { return e.RawNode }

// OtherElement is any top-level statement the classifier doesn't recognise;
// it is preserved verbatim for emission.
type OtherElement struct {
	RawNode *sitter.Node
}

func (e *OtherElement) Kind() ElementKind { return KindOther }
func (e *OtherElement) Raw() *sitter.Node { return e.RawNode }

// Module is a classified input file: its identity, its statements in
// source order, and the source bytes every Element's node ranges point into.
type Module struct {
	ID       ID
	Elements []Element
	Source   []byte
}

// Members returns every MemberElement in source order.
func (m *Module) Members() []*MemberElement {
	var out []*MemberElement
	for _, el := range m.Elements {
		if me, ok := el.(*MemberElement); ok {
			out = append(out, me)
		}
	}
	return out
}

// Requires returns every RequireElement in source order.
func (m *Module) Requires() []*RequireElement {
	var out []*RequireElement
	for _, el := range m.Elements {
		if re, ok := el.(*RequireElement); ok {
			out = append(out, re)
		}
	}
	return out
}

// ExportsLists returns every ExportsListElement in source order.
func (m *Module) ExportsLists() []*ExportsListElement {
	var out []*ExportsListElement
	for _, el := range m.Elements {
		if el2, ok := el.(*ExportsListElement); ok {
			out = append(out, el2)
		}
	}
	return out
}
