package bmodule

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/weavelang/bundle/jsast"
)

const defaultRequirePathPrefix = "../"

// ClassifyOptions configures the classifier (core spec §4.1's input tuple,
// minus the AST and module identity which are passed separately).
type ClassifyOptions struct {
	// RequirePathPrefix is stripped from a require() literal before it is
	// looked up in KnownModules. Empty means the core spec's default "../".
	RequirePathPrefix string
	KnownModules      map[string]bool
}

func (o ClassifyOptions) prefix() string {
	if o.RequirePathPrefix == "" {
		return defaultRequirePathPrefix
	}
	return o.RequirePathPrefix
}

// ToModule classifies root's top-level statements into a Module, matching
// each against the patterns of core spec §4.1 in order: Require, Member
// (non-exported), Member (exported), ExportsList, else Other.
func ToModule(id ID, root *sitter.Node, source []byte, opts ClassifyOptions) (*Module, error) {
	stmts, ok := jsast.TopLevelStatements(root)
	if !ok {
		return nil, Wrap(id, &InvalidTopLevelErr{Module: id})
	}

	m := &Module{ID: id, Source: source}
	for _, stmt := range stmts {
		el, err := classifyStatement(id, stmt, source, opts)
		if err != nil {
			return nil, Wrap(id, err)
		}
		m.Elements = append(m.Elements, el)
	}
	return m, nil
}

func classifyStatement(id ID, stmt *sitter.Node, source []byte, opts ClassifyOptions) (Element, error) {
	if req := matchRequire(id, stmt, source, opts); req != nil {
		return req, nil
	}
	if mem := matchMemberDecl(stmt, source); mem != nil {
		return mem, nil
	}
	if mem := matchExportedMember(stmt, source); mem != nil {
		return mem, nil
	}
	if list, err := matchExportsList(id, stmt, source); list != nil || err != nil {
		return list, err
	}
	return &OtherElement{RawNode: stmt}, nil
}

// matchRequire recognises `var LOCAL = require("literal");`.
func matchRequire(id ID, stmt *sitter.Node, source []byte, opts ClassifyOptions) *RequireElement {
	decl, ok := singleVarDeclarator(stmt)
	if !ok {
		return nil
	}
	nameNode := decl.ChildByFieldName("name")
	valueNode := decl.ChildByFieldName("value")
	if nameNode == nil || valueNode == nil || nameNode.Type() != "identifier" {
		return nil
	}
	if valueNode.Type() != "call_expression" {
		return nil
	}
	lit := requireCallLiteral(valueNode, source)
	if lit == nil {
		return nil
	}

	local := jsast.Text(nameNode, source)
	literal := jsast.StringLiteralValue(lit, source)
	return &RequireElement{
		RawNode:   stmt,
		LocalName: local,
		Resolved:  resolveRequirePath(id, literal, opts),
	}
}

// requireCallLiteral returns the sole string-literal argument of a
// `require(...)` call expression, or nil if the call isn't a single-string
// require() invocation.
func requireCallLiteral(call *sitter.Node, source []byte) *sitter.Node {
	fn := call.ChildByFieldName("function")
	if fn == nil || fn.Type() != "identifier" || jsast.Text(fn, source) != "require" {
		return nil
	}
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	var strArg *sitter.Node
	count := 0
	for i := 0; i < int(args.NamedChildCount()); i++ {
		c := args.NamedChild(i)
		count++
		if c.Type() == "string" {
			strArg = c
		}
	}
	if count != 1 || strArg == nil {
		return nil
	}
	return strArg
}

func resolveRequirePath(id ID, literal string, opts ClassifyOptions) Resolution {
	if literal == "./foreign" {
		return Resolved(ID{Name: id.Name, Type: Foreign})
	}
	prefix := opts.prefix()
	if !strings.HasPrefix(literal, prefix) {
		return Unresolved(literal)
	}
	remainder := strings.TrimPrefix(literal, prefix)
	if opts.KnownModules != nil && opts.KnownModules[remainder] {
		return Resolved(ID{Name: remainder, Type: Regular})
	}
	return Unresolved(literal)
}

// matchMemberDecl recognises `var NAME = EXPR;` (non-exported member).
func matchMemberDecl(stmt *sitter.Node, source []byte) *MemberElement {
	decl, ok := singleVarDeclarator(stmt)
	if !ok {
		return nil
	}
	nameNode := decl.ChildByFieldName("name")
	valueNode := decl.ChildByFieldName("value")
	if nameNode == nil || valueNode == nil || nameNode.Type() != "identifier" {
		return nil
	}
	// A require() call was already claimed by matchRequire; reaching here
	// with one means it didn't qualify (e.g. multiple args), so it falls
	// through to Other rather than being misclassified as a plain member.
	if valueNode.Type() == "call_expression" {
		if fn := valueNode.ChildByFieldName("function"); fn != nil && fn.Type() == "identifier" && jsast.Text(fn, source) == "require" {
			return nil
		}
	}
	return &MemberElement{
		RawNode:  stmt,
		Exported: false,
		Name:     jsast.Text(nameNode, source),
		Decl:     valueNode,
	}
}

// matchExportedMember recognises `exports.NAME = EXPR;` / `exports["NAME"] = EXPR;`.
func matchExportedMember(stmt *sitter.Node, source []byte) *MemberElement {
	assign, ok := singleAssignmentStatement(stmt)
	if !ok {
		return nil
	}
	left := assign.ChildByFieldName("left")
	right := assign.ChildByFieldName("right")
	if left == nil || right == nil {
		return nil
	}
	name, ok := matchExportsTarget(left, source)
	if !ok {
		return nil
	}
	return &MemberElement{
		RawNode:  stmt,
		Exported: true,
		Name:     name,
		Decl:     right,
	}
}

// matchExportsTarget recognises `exports.X` or `exports["X"]`, returning X.
func matchExportsTarget(n *sitter.Node, source []byte) (string, bool) {
	switch n.Type() {
	case "member_expression":
		obj := n.ChildByFieldName("object")
		prop := n.ChildByFieldName("property")
		if obj == nil || prop == nil || obj.Type() != "identifier" || jsast.Text(obj, source) != "exports" {
			return "", false
		}
		return jsast.Text(prop, source), true
	case "subscript_expression":
		obj := n.ChildByFieldName("object")
		idx := n.ChildByFieldName("index")
		if obj == nil || idx == nil || obj.Type() != "identifier" || jsast.Text(obj, source) != "exports" {
			return "", false
		}
		if idx.Type() != "string" {
			return "", false
		}
		return jsast.StringLiteralValue(idx, source), true
	}
	return "", false
}

// matchExportsList recognises `module.exports = { ... };`. Returns
// (nil, nil) if the statement doesn't match this pattern at all;
// (nil, err) if it matches the assignment shape but the object literal
// contains an unsupported entry; (element, nil) on success.
func matchExportsList(id ID, stmt *sitter.Node, source []byte) (*ExportsListElement, error) {
	assign, ok := singleAssignmentStatement(stmt)
	if !ok {
		return nil, nil
	}
	left := assign.ChildByFieldName("left")
	right := assign.ChildByFieldName("right")
	if left == nil || right == nil || !isModuleExports(left, source) {
		return nil, nil
	}
	if right.Type() != "object" {
		return nil, nil
	}

	entries, err := classifyExportsObject(id, right, source)
	if err != nil {
		return nil, Wrap(id, err)
	}
	return &ExportsListElement{RawNode: stmt, Entries: entries}, nil
}

func isModuleExports(n *sitter.Node, source []byte) bool {
	if n.Type() != "member_expression" {
		return false
	}
	obj := n.ChildByFieldName("object")
	prop := n.ChildByFieldName("property")
	if obj == nil || prop == nil || obj.Type() != "identifier" || jsast.Text(obj, source) != "module" {
		return false
	}
	return jsast.Text(prop, source) == "exports"
}

func classifyExportsObject(id ID, obj *sitter.Node, source []byte) ([]ExportEntry, error) {
	var entries []ExportEntry
	for i := 0; i < int(obj.NamedChildCount()); i++ {
		prop := obj.NamedChild(i)
		if prop.Type() != "pair" {
			continue
		}
		key := prop.ChildByFieldName("key")
		val := prop.ChildByFieldName("value")
		if key == nil || val == nil {
			continue
		}
		exportedName, ok := propertyKeyName(key, source)
		if !ok {
			continue
		}
		entry, err := classifyExportValue(id, exportedName, val, source)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func propertyKeyName(key *sitter.Node, source []byte) (string, bool) {
	switch key.Type() {
	case "property_identifier", "identifier":
		return jsast.Text(key, source), true
	case "string":
		return jsast.StringLiteralValue(key, source), true
	}
	return "", false
}

func classifyExportValue(id ID, exportedName string, val *sitter.Node, source []byte) (ExportEntry, error) {
	if val.Type() == "identifier" {
		return ExportEntry{
			Kind:         RegularExport,
			SourceName:   jsast.Text(val, source),
			ExportedName: exportedName,
			Value:        val,
		}, nil
	}
	if isForeignAccess(val, source) {
		return ExportEntry{
			Kind:         ForeignReexport,
			ExportedName: exportedName,
			Value:        val,
		}, nil
	}
	return ExportEntry{}, &UnsupportedExportErr{
		Module: id,
		Detail: exportedName + ": value must be an identifier or $foreign access",
	}
}

// isForeignAccess recognises `$foreign.X` or `$foreign["X"]`.
func isForeignAccess(n *sitter.Node, source []byte) bool {
	var obj *sitter.Node
	switch n.Type() {
	case "member_expression":
		obj = n.ChildByFieldName("object")
		if obj == nil || n.ChildByFieldName("property") == nil {
			return false
		}
	case "subscript_expression":
		obj = n.ChildByFieldName("object")
		idx := n.ChildByFieldName("index")
		if obj == nil || idx == nil || idx.Type() != "string" {
			return false
		}
	default:
		return false
	}
	return obj.Type() == "identifier" && jsast.Text(obj, source) == "$foreign"
}

// singleVarDeclarator returns the one declarator of a variable_declaration
// (or lexical_declaration, for `let`/`const` emitted by some backends)
// statement with exactly one declarator that has an initializer.
func singleVarDeclarator(stmt *sitter.Node) (*sitter.Node, bool) {
	if stmt.Type() != "variable_declaration" && stmt.Type() != "lexical_declaration" {
		return nil, false
	}
	var decl *sitter.Node
	count := 0
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		c := stmt.NamedChild(i)
		if c.Type() == "variable_declarator" {
			decl = c
			count++
		}
	}
	if count != 1 || decl == nil {
		return nil, false
	}
	if decl.ChildByFieldName("value") == nil {
		return nil, false
	}
	return decl, true
}

// singleAssignmentStatement returns the assignment_expression of an
// expression_statement whose sole expression is a plain `=` assignment.
func singleAssignmentStatement(stmt *sitter.Node) (*sitter.Node, bool) {
	if stmt.Type() != "expression_statement" {
		return nil, false
	}
	if stmt.NamedChildCount() != 1 {
		return nil, false
	}
	expr := stmt.NamedChild(0)
	if expr.Type() != "assignment_expression" {
		return nil, false
	}
	return expr, true
}
