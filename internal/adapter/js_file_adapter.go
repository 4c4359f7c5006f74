package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	m "jsdelta.dev/pkg/jsdelta/internal/model"
	"jsdelta.dev/pkg/jsdelta/internal/syntax"
)

// ErrSyntax is returned when a source artifact does not parse cleanly.
var ErrSyntax = errors.New("syntax error")

// SourceFileAdapter encapsulates language-specific parsing and printing so the
// domain layer can focus on reduction moves while delegating grammar details
// to an infrastructure component.
type SourceFileAdapter interface {
	// Parse builds a syntax tree for src. Data artifacts are parsed as a
	// single parenthesized expression.
	Parse(ctx context.Context, kind m.Kind, src []byte) (*syntax.Node, error)

	// Print regenerates source text from a tree produced by Parse.
	Print(kind m.Kind, root *syntax.Node) []byte

	// Valid reports whether src is structurally well formed for kind.
	Valid(ctx context.Context, kind m.Kind, src []byte) bool
}

// LocalSourceFileAdapter provides a SourceFileAdapter backed by tree-sitter's
// JavaScript grammar.
type LocalSourceFileAdapter struct{}

// NewLocalSourceFileAdapter constructs a LocalSourceFileAdapter.
func NewLocalSourceFileAdapter() *LocalSourceFileAdapter {
	return &LocalSourceFileAdapter{}
}

// Parse builds a syntax tree for the provided source.
func (a *LocalSourceFileAdapter) Parse(ctx context.Context, kind m.Kind, src []byte) (*syntax.Node, error) {
	if kind == m.KindData {
		src = wrapData(src)
	}

	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("%w at byte %d", ErrSyntax, firstErrorOffset(root))
	}

	c := &converter{src: src}

	return c.convert(root), nil
}

// Print regenerates source text; data artifacts print as the bare expression.
func (a *LocalSourceFileAdapter) Print(kind m.Kind, root *syntax.Node) []byte {
	if kind == m.KindData {
		root = unwrapData(root)
		if root == nil {
			return nil
		}
	}

	return []byte(syntax.Print(root) + "\n")
}

// Valid reports whether src is well formed: JSON for data, an error-free
// parse for code.
func (a *LocalSourceFileAdapter) Valid(ctx context.Context, kind m.Kind, src []byte) bool {
	if kind == m.KindData {
		return json.Valid(src)
	}

	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return false
	}

	defer tree.Close()

	return !tree.RootNode().HasError()
}

func wrapData(src []byte) []byte {
	wrapped := make([]byte, 0, len(src)+2)
	wrapped = append(wrapped, '(')
	wrapped = append(wrapped, src...)

	return append(wrapped, ')')
}

// unwrapData descends from the program to the expression that was wrapped in
// parentheses by wrapData.
func unwrapData(n *syntax.Node) *syntax.Node {
	for n != nil {
		switch n.Type {
		case "program", "expression_statement", "parenthesized_expression":
		default:
			return n
		}

		var next *syntax.Node

		for _, s := range n.Slots {
			if s.IsList {
				if len(s.List) > 0 {
					next = s.List[0]
				}
			} else {
				next = s.Node
			}

			if next != nil {
				break
			}
		}

		n = next
	}

	return nil
}

func firstErrorOffset(n *sitter.Node) uint32 {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n.StartByte()
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child != nil && child.HasError() {
			return firstErrorOffset(child)
		}
	}

	return n.StartByte()
}

// Grammar node types kept as opaque leaves.
var leafTypes = map[string]bool{
	"string":          true,
	"template_string": true,
	"regex":           true,
	"number":          true,
}

var categories = map[string]syntax.Category{
	"program":                         syntax.CategorySequence,
	"statement_block":                 syntax.CategorySequence,
	"function_declaration":            syntax.CategoryFunction,
	"function_expression":             syntax.CategoryFunction,
	"function":                        syntax.CategoryFunction,
	"generator_function":              syntax.CategoryFunction,
	"generator_function_declaration":  syntax.CategoryFunction,
	"arrow_function":                  syntax.CategoryFunction,
	"method_definition":               syntax.CategoryFunction,
	"object":                          syntax.CategoryObject,
	"variable_declaration":            syntax.CategoryBinding,
	"lexical_declaration":             syntax.CategoryBinding,
	"number":                          syntax.CategoryLiteral,
	"string":                          syntax.CategoryLiteral,
	"template_string":                 syntax.CategoryLiteral,
	"regex":                           syntax.CategoryLiteral,
	"true":                            syntax.CategoryLiteral,
	"false":                           syntax.CategoryLiteral,
	"null":                            syntax.CategoryLiteral,
	"undefined":                       syntax.CategoryLiteral,
	"unary_expression":                syntax.CategoryUnary,
	"update_expression":               syntax.CategoryUnary,
	"binary_expression":               syntax.CategoryBinary,
	"assignment_expression":           syntax.CategoryBinary,
	"augmented_assignment_expression": syntax.CategoryBinary,
	"return_statement":                syntax.CategoryReturn,
	"call_expression":                 syntax.CategoryCall,
	"new_expression":                  syntax.CategoryNew,
	"array":                           syntax.CategoryArray,
	"if_statement":                    syntax.CategoryConditional,
	"ternary_expression":              syntax.CategoryConditional,
	"switch_statement":                syntax.CategorySwitch,
	"while_statement":                 syntax.CategoryWhile,
	"for_statement":                   syntax.CategoryFor,
}

// listRule describes node types whose named children form one list slot.
// When field is set only children under that grammar field are gathered.
type listRule struct {
	slot      string
	statement bool
	field     string
}

var listRules = map[string]listRule{
	"program":              {slot: syntax.SlotBody, statement: true},
	"statement_block":      {slot: syntax.SlotBody, statement: true},
	"switch_body":          {slot: syntax.SlotCases, statement: true},
	"switch_case":          {slot: syntax.SlotBody, statement: true, field: "body"},
	"switch_default":       {slot: syntax.SlotBody, statement: true, field: "body"},
	"object":               {slot: syntax.SlotProps},
	"object_pattern":       {slot: syntax.SlotProps},
	"array":                {slot: syntax.SlotElements},
	"array_pattern":        {slot: syntax.SlotElements},
	"variable_declaration": {slot: syntax.SlotDecls},
	"lexical_declaration":  {slot: syntax.SlotDecls},
	"formal_parameters":    {slot: syntax.SlotParams},
	"arguments":            {slot: syntax.SlotArgs},
	"named_imports":        {slot: "specifiers"},
	"export_clause":        {slot: "specifiers"},
	"class_body":           {slot: syntax.SlotMembers, statement: true},
	"sequence_expression":  {slot: syntax.SlotExpressions},
}

// Child types whose tokens and list are spliced into the parent node.
var flattened = map[string]bool{
	"formal_parameters": true,
	"arguments":         true,
	"switch_body":       true,
}

// Statement types that end in a semicolon even when the source relied on
// automatic semicolon insertion.
var terminated = map[string]bool{
	"expression_statement": true,
	"variable_declaration": true,
	"lexical_declaration":  true,
	"return_statement":     true,
	"throw_statement":      true,
	"break_statement":      true,
	"continue_statement":   true,
	"debugger_statement":   true,
	"do_statement":         true,
	"import_statement":     true,
	"field_definition":     true,
}

var fieldSlots = map[string]string{
	"body":        syntax.SlotBody,
	"name":        syntax.SlotName,
	"left":        syntax.SlotLeft,
	"right":       syntax.SlotRight,
	"argument":    syntax.SlotOperand,
	"function":    syntax.SlotCallee,
	"constructor": syntax.SlotCallee,
	"arguments":   syntax.SlotArgs,
	"condition":   syntax.SlotTest,
	"consequence": syntax.SlotThen,
	"alternative": syntax.SlotElse,
	"initializer": syntax.SlotInit,
	"increment":   syntax.SlotUpdate,
	"value":       syntax.SlotValue,
}

// Slots that hold a statement, keyed by parent type and grammar field.
var statementFields = map[string]map[string]bool{
	"if_statement":      {"consequence": true},
	"while_statement":   {"body": true},
	"for_statement":     {"body": true},
	"for_in_statement":  {"body": true},
	"do_statement":      {"body": true},
	"labeled_statement": {"body": true},
	"with_statement":    {"body": true},
}

// Parent types whose body slot must stay a literal block.
var blockBodies = map[string]bool{
	"function_declaration":           true,
	"function_expression":            true,
	"function":                       true,
	"generator_function":             true,
	"generator_function_declaration": true,
	"method_definition":              true,
	"try_statement":                  true,
	"catch_clause":                   true,
	"finally_clause":                 true,
	"class_static_block":             true,
}

type converter struct {
	src []byte
}

func (c *converter) convert(n *sitter.Node) *syntax.Node {
	typ := n.Type()
	category := categories[typ]

	if leafTypes[typ] || n.ChildCount() == 0 {
		return syntax.NewLeaf(category, typ, n.Content(c.src))
	}

	b := syntax.NewBuilder(category, typ)
	c.fill(b, n)

	if terminated[typ] && !endsWithSemicolon(b.Node()) {
		b.Token(";")
	}

	return b.Node()
}

// fill appends the children of n to b. It is also used to splice flattened
// children into their parent.
func (c *converter) fill(b *syntax.Builder, n *sitter.Node) {
	typ := n.Type()
	rule, hasList := listRules[typ]

	var list *syntax.Slot

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || child.IsExtra() || child.Type() == "comment" {
			continue
		}

		field := n.FieldNameForChild(i)

		if !child.IsNamed() {
			tok := child.Content(c.src)
			if tok == "" || (list != nil && tok == ",") || (typ == "class_body" && tok == ";") {
				continue
			}

			b.Token(tok)

			continue
		}

		if flattened[child.Type()] && child.ChildCount() > 0 {
			c.fill(b, child)
			continue
		}

		if hasList && (rule.field == "" || rule.field == field) {
			if list == nil {
				list = b.List(rule.slot, nil)
				list.Statement = rule.statement
			}

			list.List = append(list.List, c.convert(child))

			continue
		}

		c.field(b, typ, field, child)
	}

	if hasList && list == nil {
		b.List(rule.slot, nil).Statement = rule.statement
	}
}

func (c *converter) field(b *syntax.Builder, parent, field string, child *sitter.Node) {
	name := slotName(parent, field)

	switch {
	case parent == "if_statement" && child.Type() == "else_clause":
		b.GuardedField("else", syntax.SlotElse, c.convert(firstNamed(child))).Statement = true
		return
	case parent == "for_statement" && (field == "initializer" || field == "condition"):
		switch child.Type() {
		case "expression_statement":
			b.Field(name, c.convert(firstNamed(child)))
			b.Token(";")

			return
		case "empty_statement":
			b.Field(name, nil)
			b.Token(";")

			return
		}
	}

	s := b.Field(name, c.convert(child))
	s.Statement = statementFields[parent][field]
	s.Block = field == "body" && blockBodies[parent]
}

func slotName(parent, field string) string {
	switch {
	case parent == "switch_statement" && field == "value":
		return syntax.SlotDiscriminant
	case parent == "return_statement" && field == "":
		return syntax.SlotValue
	case field == "":
		return "child"
	}

	if name, ok := fieldSlots[field]; ok {
		return name
	}

	return field
}

func firstNamed(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child != nil && !child.IsExtra() && child.Type() != "comment" {
			return child
		}
	}

	return n
}

func endsWithSemicolon(n *syntax.Node) bool {
	if len(n.Parts) == 0 {
		return false
	}

	last := n.Parts[len(n.Parts)-1]

	return last.Slot == nil && last.Token == ";"
}
