package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const indentUnit = "  "

// Print renders the tree rooted at n as source text. Statements go on their
// own lines; everything else is joined with single spaces where the token
// pair needs one.
func Print(n *Node) string {
	p := &printer{}
	p.node(n, false)

	return p.sb.String()
}

type printer struct {
	sb      strings.Builder
	indent  int
	prev    string
	pending bool
}

func (p *printer) node(n *Node, stmt bool) {
	if n == nil {
		return
	}

	if stmt && !n.IsStatement() {
		if startsAmbiguously(n) {
			p.token("(")
			p.emit(n)
			p.token(")")
		} else {
			p.emit(n)
		}

		p.token(";")

		return
	}

	p.emit(n)
}

func (p *printer) emit(n *Node) {
	if n.IsLeaf() {
		p.token(n.Text)
		return
	}

	for _, part := range n.Parts {
		switch {
		case part.Slot != nil:
			p.slot(part.Slot)
		case part.Guard != nil && part.Guard.Empty():
			continue
		default:
			p.token(part.Token)
		}
	}
}

func (p *printer) slot(s *Slot) {
	if !s.IsList {
		if s.Node == nil && s.Statement && !s.Optional {
			p.token(";")
			return
		}

		p.node(s.Node, s.Statement)

		return
	}

	if s.Statement {
		p.statements(s.List)
		return
	}

	first := true

	for _, el := range s.List {
		if el == nil {
			continue
		}

		if !first {
			p.token(",")
		}

		p.node(el, false)
		first = false
	}
}

func (p *printer) statements(list []*Node) {
	count := 0

	for _, el := range list {
		if el != nil {
			count++
		}
	}

	if count == 0 {
		return
	}

	nested := p.prev != "" && !p.pending
	if nested {
		p.indent++
		p.newline()
	}

	first := true

	for _, el := range list {
		if el == nil {
			continue
		}

		if !first {
			p.newline()
		}

		p.node(el, true)
		first = false
	}

	if nested {
		p.indent--
		p.newline()
	}
}

func (p *printer) newline() {
	p.pending = true
}

func (p *printer) token(tok string) {
	if tok == "" {
		return
	}

	if p.pending {
		p.pending = false

		if p.sb.Len() > 0 {
			p.sb.WriteByte('\n')
			p.sb.WriteString(strings.Repeat(indentUnit, p.indent))
		}

		p.prev = ""
	}

	if p.prev != "" && needsSpace(p.prev, tok) {
		p.sb.WriteByte(' ')
	}

	p.sb.WriteString(tok)
	p.prev = tok
}

func needsSpace(prev, next string) bool {
	switch next {
	case ".":
		return endsWithDigit(prev)
	case ")", "]", ",", ";", ":", "?.":
		return false
	case "}":
		return prev != "{"
	case "(", "[", "++", "--":
		return !endsWord(prev)
	}

	switch prev {
	case "(", "[", ".", "?.", "!", "~", "...":
		return false
	case "++", "--":
		return !startsWord(next)
	}

	return true
}

func endsWithDigit(tok string) bool {
	r, _ := utf8.DecodeLastRuneInString(tok)

	return unicode.IsDigit(r)
}

func startsWord(tok string) bool {
	r, _ := utf8.DecodeRuneInString(tok)

	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func endsWord(tok string) bool {
	r, _ := utf8.DecodeLastRuneInString(tok)

	switch r {
	case ')', ']', '_', '$', '"', '\'', '`':
		return true
	}

	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// startsAmbiguously reports whether n, printed in statement position, would
// be read as a block, a declaration or something other than an expression.
func startsAmbiguously(n *Node) bool {
	switch first := firstToken(n); first {
	case "{", "function", "class":
		return true
	case "let":
		return n.Type != "identifier"
	}

	return false
}

func firstToken(n *Node) string {
	if n == nil {
		return ""
	}

	if n.IsLeaf() {
		return n.Text
	}

	for _, part := range n.Parts {
		switch {
		case part.Slot != nil:
			if tok := firstInSlot(part.Slot); tok != "" {
				return tok
			}
		case part.Guard != nil && part.Guard.Empty():
			continue
		default:
			return part.Token
		}
	}

	return ""
}

func firstInSlot(s *Slot) string {
	if !s.IsList {
		return firstToken(s.Node)
	}

	for _, el := range s.List {
		if tok := firstToken(el); tok != "" {
			return tok
		}
	}

	return ""
}
