// Package syntax models the trees the reducer works on. A Node is a grammar
// node with named child slots and a print template; the reducer only ever
// looks at the Category and the canonical slot names.
package syntax

import "strings"

// Category is the closed set of node shapes the reducer dispatches on.
type Category int

// Available Category values.
const (
	CategoryGeneric Category = iota
	CategorySequence
	CategoryFunction
	CategoryObject
	CategoryBinding
	CategoryLiteral
	CategoryUnary
	CategoryBinary
	CategoryReturn
	CategoryCall
	CategoryNew
	CategoryArray
	CategoryConditional
	CategorySwitch
	CategoryWhile
	CategoryFor
)

var categoryNames = [...]string{
	CategoryGeneric:     "generic",
	CategorySequence:    "sequence",
	CategoryFunction:    "function",
	CategoryObject:      "object",
	CategoryBinding:     "binding",
	CategoryLiteral:     "literal",
	CategoryUnary:       "unary",
	CategoryBinary:      "binary",
	CategoryReturn:      "return",
	CategoryCall:        "call",
	CategoryNew:         "new",
	CategoryArray:       "array",
	CategoryConditional: "conditional",
	CategorySwitch:      "switch",
	CategoryWhile:       "while",
	CategoryFor:         "for",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}

	return categoryNames[c]
}

// Canonical slot names.
const (
	SlotBody         = "body"
	SlotName         = "name"
	SlotParams       = "params"
	SlotProps        = "props"
	SlotDecls        = "decls"
	SlotOperand      = "operand"
	SlotLeft         = "left"
	SlotRight        = "right"
	SlotValue        = "value"
	SlotCallee       = "callee"
	SlotArgs         = "args"
	SlotElements     = "elements"
	SlotTest         = "test"
	SlotThen         = "then"
	SlotElse         = "else"
	SlotDiscriminant = "discriminant"
	SlotCases        = "cases"
	SlotInit         = "init"
	SlotUpdate       = "update"
	SlotMembers      = "members"
	SlotExpressions  = "expressions"
)

// Node is one syntax node. Leaves carry their source text verbatim; interior
// nodes print themselves from Parts.
type Node struct {
	Category Category
	// Type is the grammar node type, e.g. "call_expression".
	Type  string
	Text  string
	Slots []*Slot
	Parts []Part
}

// Part is one element of a node's print template: either a literal token or a
// reference to one of the node's slots. A token with a Guard is printed only
// when the guard slot is not empty.
type Part struct {
	Token string
	Slot  *Slot
	Guard *Slot
}

// Slot is a named child position. A list slot holds an ordered sequence of
// nodes; any other slot holds at most one node.
type Slot struct {
	Name   string
	Node   *Node
	List   []*Node
	IsList bool
	// Statement marks slots whose contents are statements; expressions
	// printed there are terminated and, when needed, parenthesized.
	Statement bool
	// Block marks slots the grammar requires to hold a literal block.
	Block bool
	// Optional marks single-node statement slots that may stay empty; a
	// required statement slot prints an empty statement when cleared.
	Optional bool
}

// Empty reports whether the slot holds nothing.
func (s *Slot) Empty() bool {
	if s == nil {
		return true
	}

	if s.IsList {
		return len(s.List) == 0
	}

	return s.Node == nil
}

// Slot returns the slot with the given name or nil.
func (n *Node) Slot(name string) *Slot {
	if n == nil {
		return nil
	}

	for _, s := range n.Slots {
		if s.Name == name {
			return s
		}
	}

	return nil
}

// Child returns the node held by the single-node slot name.
func (n *Node) Child(name string) *Node {
	s := n.Slot(name)
	if s == nil || s.IsList {
		return nil
	}

	return s.Node
}

// IsLeaf reports whether the node prints its own text.
func (n *Node) IsLeaf() bool {
	return len(n.Parts) == 0
}

// IsStatement reports whether the node can stand in statement position
// without a terminator.
func (n *Node) IsStatement() bool {
	switch n.Type {
	case "program", "statement_block", "empty_statement", "switch_case", "switch_default",
		"method_definition", "field_definition", "class_static_block":
		return true
	}

	return strings.HasSuffix(n.Type, "_statement") || strings.HasSuffix(n.Type, "_declaration")
}

// IsBlock reports whether the node is a braced statement block.
func (n *Node) IsBlock() bool {
	return n != nil && n.Type == "statement_block"
}

// Walk visits n and all its descendants depth first.
func Walk(n *Node, fn func(*Node)) {
	if n == nil {
		return
	}

	fn(n)

	for _, s := range n.Slots {
		if s.IsList {
			for _, el := range s.List {
				Walk(el, fn)
			}

			continue
		}

		Walk(s.Node, fn)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n *Node) int {
	total := 0

	Walk(n, func(*Node) { total++ })

	return total
}

// Builder assembles an interior node part by part.
type Builder struct {
	node *Node
}

// NewBuilder starts a node of the given category and grammar type.
func NewBuilder(category Category, typ string) *Builder {
	return &Builder{node: &Node{Category: category, Type: typ}}
}

// Token appends a literal token.
func (b *Builder) Token(tok string) *Builder {
	b.node.Parts = append(b.node.Parts, Part{Token: tok})

	return b
}

// GuardedField appends tok followed by a single-node slot; tok is printed
// only while the slot holds a node.
func (b *Builder) GuardedField(tok, name string, child *Node) *Slot {
	s := &Slot{Name: name, Node: child, Optional: true}
	b.node.Parts = append(b.node.Parts, Part{Token: tok, Guard: s})
	b.add(s)

	return s
}

// Field appends a single-node slot.
func (b *Builder) Field(name string, child *Node) *Slot {
	s := &Slot{Name: name, Node: child}
	b.add(s)

	return s
}

// List appends a list slot.
func (b *Builder) List(name string, children []*Node) *Slot {
	if children == nil {
		children = []*Node{}
	}

	s := &Slot{Name: name, List: children, IsList: true}
	b.add(s)

	return s
}

func (b *Builder) add(s *Slot) {
	b.node.Slots = append(b.node.Slots, s)
	b.node.Parts = append(b.node.Parts, Part{Slot: s})
}

// Node returns the assembled node.
func (b *Builder) Node() *Node {
	return b.node
}

// NewLeaf returns a leaf node printing text.
func NewLeaf(category Category, typ, text string) *Node {
	return &Node{Category: category, Type: typ, Text: text}
}

// NewCall builds a plain call with the given callee and arguments. The
// argument slice is copied so the new node does not alias the old list.
func NewCall(callee *Node, args []*Node) *Node {
	b := NewBuilder(CategoryCall, "call_expression")
	b.Field(SlotCallee, callee)
	b.Token("(")
	b.List(SlotArgs, append([]*Node(nil), args...))
	b.Token(")")

	return b.Node()
}

// NewEmptyArray builds the literal [].
func NewEmptyArray() *Node {
	b := NewBuilder(CategoryArray, "array")
	b.Token("[")
	b.List(SlotElements, nil)
	b.Token("]")

	return b.Node()
}

// NewRoot wraps a tree in a holder slot so the root can be addressed like
// any other position.
func NewRoot(tree *Node) *Slot {
	return &Slot{Name: "root", Node: tree}
}
